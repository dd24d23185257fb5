//go:build !windows

package pdf

import "syscall"

// killProcessGroup sends SIGKILL to the process group of pid.
func killProcessGroup(pid int) {
	// Best effort: launcher.Kill follows.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
