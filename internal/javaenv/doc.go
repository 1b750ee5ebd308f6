// Package javaenv locates the Java runtime used to launch the Closure
// Compiler.
//
// A [Locator] tries a list of [Probe] values in order and returns the first
// directory reported. [Default] builds the list for the current platform:
//
//  1. an explicit override from configuration, when set
//  2. the JAVA_HOME environment variable
//  3. on Windows, HKLM\SOFTWARE\JavaSoft\Java Runtime Environment
//  4. on Windows, HKLM\SOFTWARE\WOW6432Node\JavaSoft\Java Development Kit (+ \bin)
//
// Other platforms replace the registry probes with a PATH scan. A probe
// that finds nothing falls through to the next one; when all of them fail
// [Locator.Resolve] returns [ErrNotFound].
package javaenv
