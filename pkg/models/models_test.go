package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLintReport(t *testing.T) {
	diags := []Diagnostic{
		{Rule: "unused-keyword", Severity: "error", File: "b.robot", Line: 3, Message: "Unused Keyword"},
		{Rule: "no-sleep", Severity: "warning", File: "a.robot", Line: 9, Message: "DO NOT USE SLEEP!"},
		{Rule: "move-keyword", Severity: "error", File: "b.robot", Line: 3, Message: "Move the keyword to file `a.robot`"},
		{Rule: "duplicated-keyword", Severity: "warning", File: "a.robot", Line: 9, Message: "Duplicated Keyword (name): b.robot:3"},
	}

	r := NewLintReport("/p", []string{"unused-keyword"}, 2, diags)

	require.Len(t, r.Diagnostics, 4)
	assert.Equal(t, "duplicated-keyword", r.Diagnostics[0].Rule)
	assert.Equal(t, "no-sleep", r.Diagnostics[1].Rule)
	assert.Equal(t, "move-keyword", r.Diagnostics[2].Rule)
	assert.Equal(t, "unused-keyword", r.Diagnostics[3].Rule)

	assert.Equal(t, 4, r.Summary.Total)
	assert.Equal(t, 2, r.Summary.FilesAnalyzed)
	assert.Equal(t, 2, r.Count("error"))
	assert.Equal(t, 2, r.Count("warning"))
	assert.Equal(t, 0, r.Count("info"))
	assert.Equal(t, 2, r.Summary.ByFile["a.robot"])
}

func TestNewLintReport_Empty(t *testing.T) {
	r := NewLintReport("/p", nil, 0, nil)
	assert.NotNil(t, r.Diagnostics)
	assert.Equal(t, 0, r.Summary.Total)
}

func TestCluster_CrossFile(t *testing.T) {
	same := Cluster{Members: []ClusterMember{{File: "a"}, {File: "a"}}}
	cross := Cluster{Members: []ClusterMember{{File: "a"}, {File: "a"}, {File: "b"}}}

	assert.False(t, same.CrossFile())
	assert.True(t, cross.CrossFile())
	assert.False(t, Cluster{}.CrossFile())
}
