package javaenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/apex/log"
)

// EnvJavaHome is the environment variable consulted before any OS lookup.
const EnvJavaHome = "JAVA_HOME"

// ErrNotFound is returned when no probe yields a Java runtime.
var ErrNotFound = errors.New("java runtime not found")

// Probe is one way of discovering a Java runtime directory.
type Probe interface {
	// Name identifies the probe in logs and diagnostics.
	Name() string
	// Lookup returns the runtime directory, or ErrNotFound when the probe
	// has nothing to offer.
	Lookup() (string, error)
}

// Locator tries probes in order and returns the first directory found.
type Locator struct {
	probes []Probe
}

// NewLocator returns a Locator over the given probes.
func NewLocator(probes ...Probe) *Locator {
	return &Locator{probes: probes}
}

// Default returns the Locator for the current platform. A non-empty
// override is tried before every other probe.
func Default(override string) *Locator {
	var probes []Probe
	if override != "" {
		probes = append(probes, Static("config", override))
	}
	probes = append(probes, Env(EnvJavaHome))
	probes = append(probes, platformProbes()...)
	return NewLocator(probes...)
}

// Probes returns the probes in the order they are tried.
func (l *Locator) Probes() []Probe {
	return l.probes
}

// Match describes which probe resolved the runtime.
type Match struct {
	Probe string
	Dir   string
}

// Resolve returns the first non-empty directory any probe reports.
func (l *Locator) Resolve() (string, error) {
	m, err := l.Find()
	if err != nil {
		return "", err
	}
	return m.Dir, nil
}

// Find is like Resolve but also reports the probe that matched.
func (l *Locator) Find() (Match, error) {
	for _, p := range l.probes {
		dir, err := p.Lookup()
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				log.WithError(err).Debugf("java probe %s failed", p.Name())
			}
			continue
		}
		if dir == "" {
			continue
		}
		log.Debugf("java runtime from %s: %s", p.Name(), dir)
		return Match{Probe: p.Name(), Dir: dir}, nil
	}
	return Match{}, ErrNotFound
}

// Executable resolves the runtime directory to the java binary inside it.
func (l *Locator) Executable() (string, error) {
	dir, err := l.Resolve()
	if err != nil {
		return "", err
	}
	return FindExecutable(dir)
}

// FindExecutable returns the java binary in dir, or in dir/bin when dir is
// a runtime home rather than its executables directory.
func FindExecutable(dir string) (string, error) {
	name := executableName()
	candidates := []string{
		filepath.Join(dir, name),
		filepath.Join(dir, "bin", name),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: no %s in %s", ErrNotFound, name, dir)
}

func executableName() string {
	if runtime.GOOS == "windows" {
		return "java.exe"
	}
	return "java"
}
