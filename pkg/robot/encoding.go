package robot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// LookupEncoding maps a code page name to a decoder. An empty name or any
// UTF-8 alias returns nil, meaning no fallback is applied.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "cp950", "big5", "ms950":
		return traditionalchinese.Big5, nil
	case "cp936", "gbk":
		return simplifiedchinese.GBK, nil
	case "gb18030":
		return simplifiedchinese.GB18030, nil
	case "cp932", "shift-jis", "sjis":
		return japanese.ShiftJIS, nil
	case "cp1252", "windows-1252":
		return charmap.Windows1252, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// Decode returns data as a string. Valid UTF-8 is returned unchanged
// (minus a byte order mark); anything else goes through fallback.
func Decode(data []byte, fallback encoding.Encoding) (string, error) {
	if utf8.Valid(data) {
		return strings.TrimPrefix(string(data), "\ufeff"), nil
	}
	if fallback == nil {
		return "", fmt.Errorf("content is not valid UTF-8")
	}
	out, err := fallback.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(out), nil
}
