package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/appshell/internal/config"
	"github.com/1broseidon/appshell/internal/ipc"
	"github.com/1broseidon/appshell/internal/settings"
	"github.com/1broseidon/appshell/internal/tui"
)

// wantJSON reports whether output should be JSON: when asked explicitly or
// when stdout is not a terminal.
func wantJSON(flagged bool) bool {
	return flagged || !term.IsTerminal(int(os.Stdout.Fd()))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: appshell status [--json] [--watch [--interval D]]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the running instance's status via IPC.")
	}
	jsonOut := fs.Bool("json", false, "Output JSON")
	watch := fs.Bool("watch", false, "Show a live status view")
	interval := fs.Duration("interval", time.Second, "Refresh interval for --watch")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	if *watch {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "--watch requires a terminal")
			return 2
		}
		if err := tui.Watch(ipc.NewClient(), *interval); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if wantJSON(*jsonOut) {
		if err := writeJSON(os.Stdout, status); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "instance_id:\t%s\n", status.InstanceID)
	fmt.Fprintf(tw, "product:\t%s\n", status.ProductName)
	fmt.Fprintf(tw, "version:\t%s\n", status.Version)
	fmt.Fprintf(tw, "platform:\t%s\n", status.Platform)
	fmt.Fprintf(tw, "window_present:\t%v\n", status.WindowPresent)
	fmt.Fprintf(tw, "uptime_seconds:\t%d\n", status.UptimeSeconds)
	tw.Flush()
}

func runActivate(args []string) int {
	fs := flag.NewFlagSet("activate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: appshell activate")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Recreate the main window of the running instance if it has none.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "activate takes no arguments")
		fs.Usage()
		return 2
	}

	if err := ipc.NewClient().Activate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printSettingsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  appshell settings get [--json] [--file]")
	fmt.Fprintln(w, "  appshell settings edit")
	fmt.Fprintln(w, "  appshell settings framework [--ngrok-path P] [--bypass-ngrok-localhost=BOOL] [--state-size-limit-kb N] [--locale L]")
}

func runSettings(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printSettingsUsage(os.Stderr)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	switch args[0] {
	case "get":
		fs := flag.NewFlagSet("get", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		jsonOut := fs.Bool("json", false, "Output JSON")
		fromFile := fs.Bool("file", false, "Read the settings file instead of asking the running instance")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		var st *settings.Settings
		if *fromFile {
			loaded, err := loadSettingsFile()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			st = &loaded
		} else {
			var err error
			st, err = ipc.NewClient().GetSettings()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}

		if wantJSON(*jsonOut) {
			if err := writeJSON(os.Stdout, st); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			return 0
		}
		out, err := yaml.Marshal(st)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(out))
		return 0

	case "edit":
		if len(args) > 1 {
			fmt.Fprintln(os.Stderr, "settings edit takes no arguments")
			return 2
		}
		client := ipc.NewClient()
		current, err := client.GetSettings()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fw, err := tui.EditFramework(current.Framework)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return 0
			}
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if fw == current.Framework {
			return 0
		}
		if err := client.SetFramework(fw); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "framework":
		fs := flag.NewFlagSet("framework", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		ngrokPath := fs.String("ngrok-path", "", "Path to the ngrok binary")
		bypass := fs.Bool("bypass-ngrok-localhost", false, "Bypass ngrok for localhost endpoints")
		limit := fs.Int("state-size-limit-kb", 0, "Bot state size limit in KB")
		locale := fs.String("locale", "", "UI locale")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		client := ipc.NewClient()
		current, err := client.GetSettings()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fw := applyFrameworkFlags(fs, current.Framework, *ngrokPath, *bypass, *limit, *locale)
		if err := client.SetFramework(fw); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown settings command: %s\n\n", args[0])
		printSettingsUsage(os.Stderr)
		return 2
	}
}

// applyFrameworkFlags overlays only the flags that were set on fw.
func applyFrameworkFlags(fs *flag.FlagSet, fw settings.Framework, ngrokPath string, bypass bool, limit int, locale string) settings.Framework {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ngrok-path":
			fw.NgrokPath = ngrokPath
		case "bypass-ngrok-localhost":
			fw.BypassNgrokLocalhost = bypass
		case "state-size-limit-kb":
			fw.StateSizeLimitKB = limit
		case "locale":
			fw.Locale = locale
		}
	})
	return fw
}

func loadSettingsFile() (settings.Settings, error) {
	cfg, err := config.Load()
	if err != nil {
		return settings.Settings{}, err
	}
	path := cfg.SettingsFile
	if path == "" {
		if path, err = settings.DefaultPath(); err != nil {
			return settings.Settings{}, err
		}
	}
	return (&settings.FileStorage{Path: path}).Load()
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  appshell config init [--force]")
		fmt.Fprintln(os.Stderr, "  appshell config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  appshell config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  appshell config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "init":
		fs := flag.NewFlagSet("init", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		force := fs.Bool("force", false, "Overwrite an existing config file")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if _, err := os.Stat(path); err == nil && !*force {
			fmt.Fprintf(os.Stderr, "%s already exists (use --force to overwrite)\n", path)
			return 1
		}
		if err := config.DefaultConfig().Save(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("wrote %s\n", path)
		return 0

	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/appshell/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfigWithSources(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/appshell/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printEffective := fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			_ = printEffective // default
			res, err := loadConfigWithSources(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/appshell/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfigWithSources(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value: %s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}

func loadConfigWithSources(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceEnv:
		if src.Name != "" {
			return "env:" + src.Name
		}
		return "env"
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
