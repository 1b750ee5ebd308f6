package closure

// Mode selects what the compiler is asked to do.
type Mode string

const (
	ModeCheck    Mode = "check"
	ModeOptimize Mode = "optimize"
)

// Compilation levels accepted by -O.
const (
	LevelAdvanced       = "ADVANCED"
	LevelSimple         = "SIMPLE"
	LevelWhitespaceOnly = "WHITESPACE_ONLY"
	LevelBundle         = "BUNDLE"
)

// Warning levels accepted by -W.
const (
	WarningQuiet   = "QUIET"
	WarningDefault = "DEFAULT"
	WarningVerbose = "VERBOSE"
)

// ValidLevel reports whether level is a compilation level the compiler accepts.
func ValidLevel(level string) bool {
	switch level {
	case LevelAdvanced, LevelSimple, LevelWhitespaceOnly, LevelBundle:
		return true
	}
	return false
}

// ValidWarningLevel reports whether level is a warning level the compiler accepts.
func ValidWarningLevel(level string) bool {
	switch level {
	case WarningQuiet, WarningDefault, WarningVerbose:
		return true
	}
	return false
}

// Severity of a compiler diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Diagnostic is one warning or error reported by the compiler.
type Diagnostic struct {
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Column   int      `json:"column,omitempty"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code,omitempty"`
	Message  string   `json:"message"`
}

// Result is the outcome of compiling one input.
type Result struct {
	Input       string       `json:"input"`
	CachePath   string       `json:"cachePath"`
	Valid       bool         `json:"valid"`
	Output      string       `json:"output,omitempty"`
	Stderr      string       `json:"stderr,omitempty"`
	ExitCode    int          `json:"exitCode"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	DurationMs  int64        `json:"durationMs"`
}

// Counts holds diagnostic totals by severity.
type Counts struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Summary provides an overview of a run.
type Summary struct {
	Files  int    `json:"files"`
	Failed int    `json:"failed"`
	Counts Counts `json:"counts"`
}

// Timing contains performance metrics.
type Timing struct {
	TotalMs int64 `json:"totalMs"`
}

// Report is the top-level output structure.
type Report struct {
	Tool    string   `json:"tool"`
	Version string   `json:"version"`
	RunID   string   `json:"runId"`
	Mode    Mode     `json:"mode"`
	Level   string   `json:"level"`
	Summary Summary  `json:"summary"`
	Results []Result `json:"results"`
	Timing  Timing   `json:"timing"`
}
