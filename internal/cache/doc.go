// Package cache keeps JavaScript source text on disk for the Closure Compiler.
//
// The compiler reads its input from a file, so every source handed to
// closurec is written to <dir>/<md5>.data first. Entries are content
// addressed: identical source always maps to the same file and is never
// rewritten. Entries are published by writing a temporary file and renaming
// it into place, which keeps concurrent writers of the same content from
// observing a partial file.
//
// Every [Cache.Store] starts with a sweep that deletes files older than the
// cache's max age (24 hours by default). The sweep is best effort: removal
// failures are collected and logged but never fail the store.
//
// The default cache directory is Assets/cache next to the closurec binary.
package cache
