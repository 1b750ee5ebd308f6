package javaenv

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

type envProbe struct {
	name string
}

// Env returns a probe that reads the runtime directory from an environment
// variable. The value is returned verbatim.
func Env(name string) Probe {
	return envProbe{name: name}
}

func (p envProbe) Name() string { return "env:" + p.name }

func (p envProbe) Lookup() (string, error) {
	if v := os.Getenv(p.name); v != "" {
		return v, nil
	}
	return "", ErrNotFound
}

type staticProbe struct {
	name string
	dir  string
}

// Static returns a probe that always reports dir.
func Static(name, dir string) Probe {
	return staticProbe{name: name, dir: dir}
}

func (p staticProbe) Name() string { return p.name }

func (p staticProbe) Lookup() (string, error) {
	if p.dir == "" {
		return "", ErrNotFound
	}
	return p.dir, nil
}

type pathProbe struct {
	lookPath func(string) (string, error)
}

// Path returns a probe that scans PATH for the java binary and reports the
// directory containing it, following symlinks such as /usr/bin/java.
func Path() Probe {
	return pathProbe{lookPath: exec.LookPath}
}

func (p pathProbe) Name() string { return "path" }

func (p pathProbe) Lookup() (string, error) {
	bin, err := p.lookPath(executableName())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if resolved, err := filepath.EvalSymlinks(bin); err == nil {
		bin = resolved
	}
	abs, err := filepath.Abs(bin)
	if err != nil {
		return "", err
	}
	return filepath.Dir(abs), nil
}
