package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	list := collect()

	seen := map[string]bool{}
	for _, a := range list {
		require.False(t, seen[a.Name], "duplicate analyzer %s", a.Name)
		seen[a.Name] = true
	}
	for _, name := range []string{"usageend", "nilerr", "ST1000", "SA4006", "buildtag", "unusedresult"} {
		require.True(t, seen[name], "analyzer %s missing", name)
	}
}
