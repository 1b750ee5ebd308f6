package javaenv

import (
	"fmt"
	"path/filepath"
)

// Registry locations written by the Oracle installers.
const (
	JREKey = `SOFTWARE\JavaSoft\Java Runtime Environment`
	JDKKey = `SOFTWARE\WOW6432Node\JavaSoft\Java Development Kit`
)

// RegistryKey is the subset of a registry key the probes read.
type RegistryKey interface {
	StringValue(name string) (string, error)
	OpenSubKey(path string) (RegistryKey, error)
	Close() error
}

// RegistryHive opens keys below a fixed root such as HKEY_LOCAL_MACHINE.
type RegistryHive interface {
	OpenKey(path string) (RegistryKey, error)
}

type registryProbe struct {
	name   string
	hive   RegistryHive
	path   string
	suffix string
}

// Registry returns a probe that reads path\CurrentVersion, opens the
// subkey of that name and reports its JavaHome value with suffix appended.
// Any missing key or value reports ErrNotFound.
func Registry(name string, hive RegistryHive, path, suffix string) Probe {
	return registryProbe{name: name, hive: hive, path: path, suffix: suffix}
}

func (p registryProbe) Name() string { return p.name }

func (p registryProbe) Lookup() (string, error) {
	key, err := p.hive.OpenKey(p.path)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", ErrNotFound, p.path, err)
	}
	defer key.Close()

	version, err := key.StringValue("CurrentVersion")
	if err != nil || version == "" {
		return "", fmt.Errorf("%w: %s has no CurrentVersion", ErrNotFound, p.path)
	}

	sub, err := key.OpenSubKey(version)
	if err != nil {
		return "", fmt.Errorf("%w: open %s\\%s: %v", ErrNotFound, p.path, version, err)
	}
	defer sub.Close()

	home, err := sub.StringValue("JavaHome")
	if err != nil || home == "" {
		return "", fmt.Errorf("%w: %s\\%s has no JavaHome", ErrNotFound, p.path, version)
	}
	if p.suffix != "" {
		home = filepath.Join(home, p.suffix)
	}
	return home, nil
}
