// Package closure drives the Closure Compiler as an external java process.
//
// A [Compiler] writes source text to the content-addressed cache, resolves
// the java executable, and runs
//
//	java -jar closure-compiler.jar --js <cached file> -O <level> -W DEFAULT
//
// with ADVANCED for [Compiler.Check] and WHITESPACE_ONLY for
// [Compiler.Optimize]. The process is started without a shell, with stdin
// on the null device and stdout/stderr captured. Each invocation is bounded
// by a timeout (one minute by default); when it elapses the process is
// killed and [ErrTimeout] is returned. There are no retries.
//
// Compiler stderr is data, not an error. Check treats blank stderr as
// success; Optimize returns stdout and stderr verbatim. [ParseDiagnostics]
// turns stderr into [Diagnostic] values, [Rules] can suppress or re-rate
// them, and [BuildReport] assembles a [Report] for the output writers.
package closure
