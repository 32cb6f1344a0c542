package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/appshell/internal/ipc"
	"github.com/1broseidon/appshell/internal/settings"
)

type fakeSource struct {
	status      *ipc.StatusData
	err         error
	activations int
}

func (f *fakeSource) GetStatus() (*ipc.StatusData, error) { return f.status, f.err }

func (f *fakeSource) Activate() error {
	f.activations++
	return nil
}

func TestFrameworkForm_ApplyConvertsValues(t *testing.T) {
	fw := settings.Framework{NgrokPath: "/old", BypassNgrokLocalhost: true, StateSizeLimitKB: 64, Locale: "en-US"}
	f := newFrameworkForm(fw)
	if f.sizeLimit != "64" {
		t.Fatalf("sizeLimit = %q, want 64", f.sizeLimit)
	}

	f.ngrokPath = " /usr/local/bin/ngrok "
	f.bypass = false
	f.sizeLimit = "128"
	f.locale = "de-DE"

	got := f.apply(fw)
	want := settings.Framework{NgrokPath: "/usr/local/bin/ngrok", StateSizeLimitKB: 128, Locale: "de-DE"}
	if got != want {
		t.Fatalf("apply = %+v, want %+v", got, want)
	}
}

func TestFrameworkForm_InvalidLimitKeepsPrevious(t *testing.T) {
	fw := settings.Framework{StateSizeLimitKB: 64}
	f := newFrameworkForm(fw)
	f.sizeLimit = "lots"

	if got := f.apply(fw); got.StateSizeLimitKB != 64 {
		t.Fatalf("StateSizeLimitKB = %d, want 64", got.StateSizeLimitKB)
	}
}

func TestValidateSizeLimit(t *testing.T) {
	if err := validateSizeLimit("12"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validateSizeLimit("-1"); err == nil {
		t.Fatal("expected error for negative limit")
	}
	if err := validateSizeLimit("x"); err == nil {
		t.Fatal("expected error for non-number")
	}
}

func TestWatchModel_RendersStatus(t *testing.T) {
	src := &fakeSource{status: &ipc.StatusData{
		ProductName:   "Bot Framework Emulator",
		Version:       "3.5.0",
		Platform:      "linux",
		WindowPresent: true,
		UptimeSeconds: 90,
	}}
	m := newWatchModel(src, time.Second)

	msg := m.fetch()()
	next, _ := m.Update(msg)
	view := next.View()

	for _, want := range []string{"Bot Framework Emulator", "3.5.0", "open", "1m30s"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestWatchModel_ErrorKeepsLastStatus(t *testing.T) {
	m := newWatchModel(&fakeSource{}, time.Second)
	next, _ := m.Update(statusMsg{status: &ipc.StatusData{Version: "1.0.0"}})
	next, _ = next.Update(statusMsg{err: errors.New("connection refused")})

	wm := next.(watchModel)
	if wm.status == nil || wm.status.Version != "1.0.0" {
		t.Fatalf("expected last status kept, got %+v", wm.status)
	}
	if !strings.Contains(wm.View(), "not running") {
		t.Fatalf("expected error in view:\n%s", wm.View())
	}
}

func TestWatchModel_ActivateKey(t *testing.T) {
	src := &fakeSource{status: &ipc.StatusData{}}
	m := newWatchModel(src, time.Second)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if cmd == nil {
		t.Fatal("expected activate command")
	}
	msg := cmd()
	if src.activations != 1 {
		t.Fatalf("activations = %d, want 1", src.activations)
	}
	next, _ := m.Update(msg)
	if !strings.Contains(next.View(), "activate sent") {
		t.Fatalf("expected notice in view:\n%s", next.View())
	}
}

func TestWatchModel_QuitKey(t *testing.T) {
	m := newWatchModel(&fakeSource{}, 0)
	if m.interval != time.Second {
		t.Fatalf("interval = %v, want 1s default", m.interval)
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}
