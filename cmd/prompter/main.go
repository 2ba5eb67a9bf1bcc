// Package main is the entry point for the prompter CLI.
//
// Usage:
//
//	prompter [flags] <command> [subcommand] [args]
//
// Commands:
//
//	run        - Start a live interview session
//	devices    - List audio capture/playback devices
//	resume     - Manage the stored résumé (set, show, import, clear)
//	history    - Inspect archived sessions (list, show, export, delete)
//	brief      - Generate a debrief for an archived session
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/hintwire/prompter/cmd/prompter/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
