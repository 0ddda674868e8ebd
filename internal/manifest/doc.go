// Package manifest reads the dependency manifest (requirements.txt) of a
// dashboard project. The launcher itself only needs to know whether the file
// exists; the parsed form backs diagnostics that report what would be
// installed and flag lines pip would reject.
package manifest
