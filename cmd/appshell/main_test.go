package main

import (
	"bytes"
	"flag"
	"strings"
	"testing"

	"github.com/1broseidon/appshell/internal/config"
	"github.com/1broseidon/appshell/internal/ipc"
	"github.com/1broseidon/appshell/internal/settings"
)

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceEnv, Name: "APPSHELL_LISTEN"}, "env:APPSHELL_LISTEN"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &ipc.StatusData{
		InstanceID:    "id-1",
		ProductName:   "Bot Framework Emulator",
		Version:       "3.5.0",
		Platform:      "linux",
		WindowPresent: true,
		UptimeSeconds: 42,
	})
	out := buf.String()
	for _, want := range []string{"instance_id:", "id-1", "window_present:", "true", "uptime_seconds:", "42"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestApplyFrameworkFlags_OnlySetFlags(t *testing.T) {
	fs := flag.NewFlagSet("framework", flag.ContinueOnError)
	ngrokPath := fs.String("ngrok-path", "", "")
	bypass := fs.Bool("bypass-ngrok-localhost", false, "")
	limit := fs.Int("state-size-limit-kb", 0, "")
	locale := fs.String("locale", "", "")
	if err := fs.Parse([]string{"--locale", "de-DE"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	current := settings.Framework{NgrokPath: "/bin/ngrok", BypassNgrokLocalhost: true, StateSizeLimitKB: 64, Locale: "en-US"}
	got := applyFrameworkFlags(fs, current, *ngrokPath, *bypass, *limit, *locale)

	want := current
	want.Locale = "de-DE"
	if got != want {
		t.Fatalf("framework = %+v, want %+v", got, want)
	}
}
