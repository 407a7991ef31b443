package models

// ClusterMember is a keyword definition inside a duplicate cluster.
type ClusterMember struct {
	Name string `json:"name"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// Cluster is a set of definitions considered interchangeable.
type Cluster struct {
	Key     string          `json:"key"`
	Members []ClusterMember `json:"members"`
}

// CrossFile reports whether the members span more than one file.
func (c Cluster) CrossFile() bool {
	if len(c.Members) < 2 {
		return false
	}
	for _, m := range c.Members[1:] {
		if m.File != c.Members[0].File {
			return true
		}
	}
	return false
}

// ClusterReport lists name and implementation clusters of a project.
type ClusterReport struct {
	Root           string    `json:"root"`
	Name           []Cluster `json:"name"`
	Implementation []Cluster `json:"implementation"`
}
