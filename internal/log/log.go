// Package log configures the apex/log handler used by closurec.
//
// Log lines go to stderr so that optimized JavaScript written to stdout is
// never interleaved with diagnostics.
package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "CLOSUREC_LOG"

// InitLogger installs the line handler and sets the level from CLOSUREC_LOG.
// When verbose is true the level is forced to DEBUG.
func InitLogger(verbose bool) {
	level := strings.ToUpper(os.Getenv(EnvLevel))
	if level == "" {
		level = "ERROR"
	}
	if verbose {
		level = "DEBUG"
	}
	log.SetHandler(NewHandler(os.Stderr))
	if err := setLevel(level); err != nil {
		log.SetLevel(log.ErrorLevel)
		log.Warnf("invalid %s value %q, using ERROR", EnvLevel, level)
	}
}

func setLevel(level string) error {
	l, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	log.SetLevel(l)
	return nil
}

// Handler formats entries as "timestamp L message key=value ...".
type Handler struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewHandler returns a Handler writing to w.
func NewHandler(w io.Writer) *Handler {
	return &Handler{w: w, now: time.Now}
}

// HandleLog implements the log.Handler interface
func (h *Handler) HandleLog(e *log.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	timestamp := h.now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())

	var b strings.Builder
	fmt.Fprintf(&b, "%s %.1s %s", timestamp, level, e.Message)

	names := e.Fields.Names()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields.Get(name))
	}
	b.WriteString("\n")

	_, err := io.WriteString(h.w, b.String())
	return err
}
