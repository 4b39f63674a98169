// Package buildinfo prints the version banner of the binaries.
package buildinfo

import (
	"fmt"
	"io"
)

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Print writes version, date and commit to w, using N/A for unset values.
func Print(w io.Writer, version, date, commit string) {
	fmt.Fprintf(w, "Build version: %s\n", orNA(version))
	fmt.Fprintf(w, "Build date: %s\n", orNA(date))
	fmt.Fprintf(w, "Build commit: %s\n", orNA(commit))
}
