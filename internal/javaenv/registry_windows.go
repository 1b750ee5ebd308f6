//go:build windows

package javaenv

import (
	"golang.org/x/sys/windows/registry"
)

func platformProbes() []Probe {
	hive := machineHive{}
	return []Probe{
		Registry("registry:jre", hive, JREKey, ""),
		Registry("registry:jdk", hive, JDKKey, "bin"),
	}
}

type machineHive struct{}

func (machineHive) OpenKey(path string) (RegistryKey, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE|registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, err
	}
	return windowsKey{k: k}, nil
}

type windowsKey struct {
	k registry.Key
}

func (w windowsKey) StringValue(name string) (string, error) {
	v, _, err := w.k.GetStringValue(name)
	return v, err
}

func (w windowsKey) OpenSubKey(path string) (RegistryKey, error) {
	k, err := registry.OpenKey(w.k, path, registry.QUERY_VALUE)
	if err != nil {
		return nil, err
	}
	return windowsKey{k: k}, nil
}

func (w windowsKey) Close() error {
	return w.k.Close()
}
