package player

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/PizzaHomicide/playstate/internal/log"
	"github.com/PizzaHomicide/playstate/internal/mediaerr"
)

// MPVIPCClient provides communication with a running MPV instance over its JSON IPC socket
type MPVIPCClient struct {
	socketPath string
	conn       net.Conn
	events     chan MPVEvent
	logger     *log.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// MPVEvent represents a line received from MPV.  Command replies carry RequestID/Error and no Event.
type MPVEvent struct {
	Event     string          `json:"event,omitempty"`
	ID        int             `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	FileError string          `json:"file_error,omitempty"`
	RequestID int             `json:"request_id,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// NewMPVIPCClient creates a new MPV IPC client
func NewMPVIPCClient(socketPath string, logger *log.Logger) *MPVIPCClient {
	if logger == nil {
		logger = log.Discard()
	}
	return &MPVIPCClient{
		socketPath: socketPath,
		events:     make(chan MPVEvent, 100),
		logger:     logger,
	}
}

// WaitForConnection attempts to connect to MPV with retries
func (c *MPVIPCClient) WaitForConnection(ctx context.Context, maxAttempts int, retryDelay time.Duration) error {
	c.logger.Debug("Waiting for MPV to create socket", "socket_path", c.socketPath, "max_attempts", maxAttempts)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		// Check if socket file exists for unix sockets
		if runtime.GOOS != "windows" {
			if _, err := os.Stat(c.socketPath); os.IsNotExist(err) {
				c.logger.Debug("MPV socket does not exist yet", "attempt", attempt, "path", c.socketPath)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(retryDelay):
					continue
				}
			}
		}

		err := c.Connect(ctx)
		if err == nil {
			c.logger.Info("Successfully connected to MPV", "attempt", attempt)
			return nil
		}

		c.logger.Debug("Failed to connect to MPV", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return fmt.Errorf("failed to connect to MPV after %d attempts", maxAttempts)
}

// attach starts reading from an established connection
func (c *MPVIPCClient) attach(conn net.Conn) {
	c.conn = conn
	go c.readEvents()
}

// Close closes the connection to MPV
func (c *MPVIPCClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

// readEvents continuously reads events from MPV until the connection closes, then closes the events channel
func (c *MPVIPCClient) readEvents() {
	defer close(c.events)

	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		line := scanner.Bytes()
		c.logger.Trace("Raw MPV event", "data", string(line))

		var event MPVEvent
		if err := json.Unmarshal(line, &event); err != nil {
			c.logger.Error("Failed to unmarshal MPV event", "error", err)
			continue
		}

		if event.Event == "" {
			if event.Error != "" && event.Error != "success" {
				c.logger.Warn("MPV command failed", "request_id", event.RequestID, "error", event.Error)
			}
			continue
		}

		c.events <- event
	}

	if err := scanner.Err(); err != nil {
		c.logger.Debug("MPV event reader stopped", "error", err)
		return
	}
	c.logger.Debug("MPV event reader stopped")
}

// Events returns the channel for MPV events.  It is closed when the connection ends.
func (c *MPVIPCClient) Events() <-chan MPVEvent {
	return c.events
}

// SendCommand sends a command to MPV without waiting for the reply
func (c *MPVIPCClient) SendCommand(cmd ...any) error {
	if c.conn == nil {
		return fmt.Errorf("failed to send command to MPV: %w", mediaerr.ErrNotConnected)
	}

	data, err := json.Marshal(map[string]any{
		"command": cmd,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}

	data = append(data, '\n')

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err = c.conn.Write(data); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}

	return nil
}

// ObserveProperty starts observing an MPV property
func (c *MPVIPCClient) ObserveProperty(id int, name string) error {
	return c.SendCommand("observe_property", id, name)
}

// SetProperty sets an MPV property
func (c *MPVIPCClient) SetProperty(name string, value any) error {
	return c.SendCommand("set_property", name, value)
}
