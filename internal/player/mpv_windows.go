//go:build windows

package player

import (
	"context"
	"fmt"

	"gopkg.in/natefinch/npipe.v2"
)

// Connect establishes a connection with MPV for Windows
func (c *MPVIPCClient) Connect(ctx context.Context) error {
	c.logger.Debug("Connecting to Windows named pipe", "path", c.socketPath)

	conn, err := npipe.Dial(c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to MPV pipe: %w", err)
	}

	c.attach(conn)
	return nil
}

// defaultSocketPath returns a per-instance named pipe
func defaultSocketPath(id string) string {
	return `\\.\pipe\playstate-mpv-` + id
}
