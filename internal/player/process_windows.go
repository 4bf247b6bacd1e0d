//go:build windows

package player

import (
	"os/exec"
	"syscall"
)

// setupPlayerProcess puts the player in its own process group so console signals aimed at us don't reach it
func setupPlayerProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}
