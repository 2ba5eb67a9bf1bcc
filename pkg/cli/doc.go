// Package cli provides terminal plumbing shared by prompter commands.
//
// This package includes:
//   - Structured output (JSON, YAML, raw) to stdout or a file
//   - Human formatting helpers (durations, byte sizes)
//   - A log-capturing writer that feeds the full-screen UI
//   - The bordered frame renderer the live session UI is drawn with
//
// Example usage:
//
//	// Print a result in the format the user asked for
//	cli.Output(sessions, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	})
//
//	// Capture slog output for display inside the UI
//	w := cli.NewLogWriter(200)
//	logger := slog.New(slog.NewTextHandler(w, nil))
package cli
