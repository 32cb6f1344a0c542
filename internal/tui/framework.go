// Package tui holds the interactive terminal views of the appshell CLI.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/appshell/internal/settings"
)

// frameworkForm binds form fields to strings; huh inputs are string-valued.
type frameworkForm struct {
	ngrokPath string
	bypass    bool
	sizeLimit string
	locale    string
}

func newFrameworkForm(fw settings.Framework) *frameworkForm {
	return &frameworkForm{
		ngrokPath: fw.NgrokPath,
		bypass:    fw.BypassNgrokLocalhost,
		sizeLimit: strconv.Itoa(fw.StateSizeLimitKB),
		locale:    fw.Locale,
	}
}

func validateSizeLimit(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if v < 0 {
		return fmt.Errorf("must be >= 0")
	}
	return nil
}

func (f *frameworkForm) build() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("ngrok_path").
				Title("ngrok Path").
				Description("Path to the ngrok binary used for tunnelling").
				Value(&f.ngrokPath),

			huh.NewConfirm().
				Key("bypass_ngrok_localhost").
				Title("Bypass ngrok for localhost").
				Value(&f.bypass),

			huh.NewInput().
				Key("state_size_limit_kb").
				Title("State Size Limit (KB)").
				Validate(validateSizeLimit).
				Value(&f.sizeLimit),

			huh.NewInput().
				Key("locale").
				Title("Locale").
				Description("UI locale, e.g. en-US").
				Value(&f.locale),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

// apply returns fw with the form values applied.
func (f *frameworkForm) apply(fw settings.Framework) settings.Framework {
	fw.NgrokPath = strings.TrimSpace(f.ngrokPath)
	fw.BypassNgrokLocalhost = f.bypass
	if v, err := strconv.Atoi(strings.TrimSpace(f.sizeLimit)); err == nil && v >= 0 {
		fw.StateSizeLimitKB = v
	}
	fw.Locale = strings.TrimSpace(f.locale)
	return fw
}

// EditFramework runs an interactive form prefilled with fw and returns the
// edited values. huh.ErrUserAborted is returned when the user cancels.
func EditFramework(fw settings.Framework) (settings.Framework, error) {
	f := newFrameworkForm(fw)
	if err := f.build().Run(); err != nil {
		return fw, err
	}
	return f.apply(fw), nil
}
