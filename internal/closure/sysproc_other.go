//go:build !windows

package closure

import "syscall"

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}
