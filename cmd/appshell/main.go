package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1broseidon/appshell/internal/version"
)

func main() {
	args := os.Args[1:]
	cmd := "run"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "run":
		os.Exit(runApp(args))
	case "status":
		os.Exit(runStatus(args))
	case "activate":
		os.Exit(runActivate(args))
	case "settings":
		os.Exit(runSettings(args))
	case "config":
		os.Exit(runConfig(args))
	case "version":
		info := version.Get()
		fmt.Printf("appshell %s (commit %s, %s)\n", info.Version, info.Commit, info.GoVersion)
		os.Exit(0)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: appshell [command] [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the application (default)")
	fmt.Fprintln(w, "  status              Show the running instance's status (--watch for live view)")
	fmt.Fprintln(w, "  activate            Show the main window of the running instance")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  settings get        Print current settings")
	fmt.Fprintln(w, "  settings edit       Edit framework settings interactively")
	fmt.Fprintln(w, "  settings framework  Update framework settings")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config init         Write the default configuration file")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  version             Print build information")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'appshell <command> --help' for command-specific options.")
}
