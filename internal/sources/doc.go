// Package sources collects the JavaScript inputs closurec compiles.
//
// Inputs come from standard input, from files and directories on disk, or
// from the git index (staged files). Directory walks and staged files are
// filtered by include/exclude glob patterns and a per-file size limit.
package sources
