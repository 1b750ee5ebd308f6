//go:build !windows

package javaenv

// There is no registry outside Windows; fall back to scanning PATH.
func platformProbes() []Probe {
	return []Probe{Path()}
}
