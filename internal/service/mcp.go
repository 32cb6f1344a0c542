package service

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/appshell/internal/settings"
)

const ServerName = "appshell"

// GetWindowStateInput takes no arguments.
type GetWindowStateInput struct{}

// GetSettingsInput takes no arguments.
type GetSettingsInput struct{}

// ActivateWindowInput takes no arguments.
type ActivateWindowInput struct{}

// SettingsOutput wraps the settings snapshot.
type SettingsOutput struct {
	Settings settings.Settings `json:"settings"`
}

// ActivateWindowOutput acknowledges an activation request.
type ActivateWindowOutput struct {
	Requested bool `json:"requested"`
}

type mcpTools struct {
	app *App
}

// NewMCPServer builds the MCP server exposing the shell's tools.
func NewMCPServer(app *App) *mcpsdk.Server {
	server := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: app.Info().Version,
		},
		nil,
	)

	t := &mcpTools{app: app}

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "get_window_state",
		Description: "Report whether the main window is open, its current bounds, and the geometry remembered in settings.",
	}, t.handleGetWindowState)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "get_settings",
		Description: "Return the current settings snapshot (framework settings and remembered window geometry).",
	}, t.handleGetSettings)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "activate_window",
		Description: "Activate the application. Recreates the main window if none exists; otherwise does nothing.",
	}, t.handleActivateWindow)

	return server
}

func (t *mcpTools) handleGetWindowState(ctx context.Context, _ *mcpsdk.CallToolRequest, _ GetWindowStateInput) (*mcpsdk.CallToolResult, WindowStateOutput, error) {
	out, err := t.app.WindowState(ctx)
	if err != nil {
		return nil, WindowStateOutput{}, err
	}
	return nil, out, nil
}

func (t *mcpTools) handleGetSettings(ctx context.Context, _ *mcpsdk.CallToolRequest, _ GetSettingsInput) (*mcpsdk.CallToolResult, SettingsOutput, error) {
	st, err := t.app.Settings(ctx)
	if err != nil {
		return nil, SettingsOutput{}, err
	}
	return nil, SettingsOutput{Settings: st}, nil
}

func (t *mcpTools) handleActivateWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ActivateWindowInput) (*mcpsdk.CallToolResult, ActivateWindowOutput, error) {
	if err := t.app.Activate(ctx); err != nil {
		return nil, ActivateWindowOutput{}, err
	}
	return nil, ActivateWindowOutput{Requested: true}, nil
}
