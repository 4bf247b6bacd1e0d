//go:build !windows

package player

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

// Connect establishes a connection with MPV for Unix systems
func (c *MPVIPCClient) Connect(ctx context.Context) error {
	c.logger.Debug("Connecting to Unix socket", "path", c.socketPath)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to MPV socket: %w", err)
	}

	c.attach(conn)
	return nil
}

// defaultSocketPath returns a per-instance socket path in the temp directory
func defaultSocketPath(id string) string {
	return filepath.Join(os.TempDir(), "playstate-mpv-"+id+".sock")
}
