// Closurec is a local CLI for checking and minifying JavaScript with the
// Google Closure Compiler.
//
// It locates a Java runtime, runs closure-compiler.jar as a child process on
// a cached copy of each input, and reports diagnostics with deterministic
// exit codes suitable for CI gating and git hooks.
//
// Usage:
//
//	closurec check src/                  # check every .js file under src
//	closurec check --staged              # check staged JavaScript
//	closurec optimize app.js > app.min.js
//	closurec optimize --out-dir dist src/
//	closurec java doctor                 # diagnose java, jar and cache
package main
