package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/appshell/internal/runtimepath"
	"github.com/1broseidon/appshell/internal/settings"
)

// Client handles IPC communication with a running appshell instance
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithPath(socketPath)
}

// NewClientWithPath creates a client for an explicit socket path
func NewClientWithPath(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to appshell: %w (is it running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("appshell error: %s", resp.Error)
	}

	return &resp, nil
}

// GetStatus retrieves instance status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetSettings retrieves the current settings snapshot
func (c *Client) GetSettings() (*settings.Settings, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetSettings})
	if err != nil {
		return nil, err
	}

	var st settings.Settings
	if err := json.Unmarshal(resp.Data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse settings data: %w", err)
	}
	return &st, nil
}

// Activate asks the running instance to show its main window
func (c *Client) Activate() error {
	_, err := c.sendRequest(&Request{Command: CommandActivate})
	return err
}

// SetFramework replaces the framework settings of the running instance
func (c *Client) SetFramework(fw settings.Framework) error {
	payload, err := json.Marshal(SetFrameworkPayload{Framework: fw})
	if err != nil {
		return fmt.Errorf("failed to marshal framework payload: %w", err)
	}

	_, err = c.sendRequest(&Request{
		Command: CommandSetFramework,
		Payload: payload,
	})
	return err
}

// Ping checks if an instance is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
