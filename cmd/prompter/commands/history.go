package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/hintwire/prompter/pkg/archive"
	"github.com/hintwire/prompter/pkg/cli"
	"github.com/hintwire/prompter/pkg/storage"
)

var (
	flagHistoryOutput string
	flagHistoryFilter string
	flagExportFormat  string
	flagExportOut     string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect archived sessions",
	Long: `Inspect the sessions recorded by 'prompter run'.

Session IDs may be abbreviated to any unique prefix:

  prompter history list
  prompter history show 7f3a
  prompter history show 7f3a --filter '.turns[] | {q: .question, a: .answer}'
  prompter history export 7f3a --format json --out ./exports
  prompter history export 7f3a --out s3://my-bucket/interviews
  prompter history delete 7f3a`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		arc, closeArc, err := openArchive()
		if err != nil {
			return err
		}
		defer closeArc()

		metas, err := arc.List(cmd.Context())
		if err != nil {
			return err
		}

		if flagHistoryOutput != "" {
			format, err := cli.ParseOutputFormat(flagHistoryOutput)
			if err != nil {
				return err
			}
			return cli.Output(metas, cli.OutputOptions{Format: format})
		}

		if len(metas) == 0 {
			cli.PrintInfo("no sessions recorded yet")
			return nil
		}
		fmt.Printf("%-10s  %-16s  %-9s  %5s  %-7s  %s\n",
			"ID", "STARTED", "DURATION", "TURNS", "SOURCE", "MODEL")
		for _, m := range metas {
			fmt.Printf("%-10s  %-16s  %-9s  %5d  %-7s  %s\n",
				shortID(m.ID),
				m.StartedAt.Local().Format("2006-01-02 15:04"),
				sessionDuration(m),
				m.Turns,
				m.Source,
				m.Model)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Show one session with its turns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arc, closeArc, err := openArchive()
		if err != nil {
			return err
		}
		defer closeArc()

		sess, err := loadSession(cmd.Context(), arc, args[0])
		if err != nil {
			return err
		}

		if flagHistoryFilter != "" {
			return runFilter(os.Stdout, flagHistoryFilter, sess)
		}

		format, err := cli.ParseOutputFormat(flagHistoryOutput)
		if err != nil {
			return err
		}
		return cli.Output(sess, cli.OutputOptions{Format: format})
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <session>",
	Short: "Export a session to a file or S3",
	Long: `Export a session as JSON or YAML.

The destination is a local directory or an s3://bucket[/prefix] URL;
it defaults to the configured export target, then the current
directory. The file is named <session-id>.<format>. S3 credentials and
region come from the usual AWS environment/config chain.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		arc, closeArc, err := openArchive()
		if err != nil {
			return err
		}
		defer closeArc()

		sess, err := loadSession(cmd.Context(), arc, args[0])
		if err != nil {
			return err
		}

		formatName := flagExportFormat
		if formatName == "" {
			formatName = cfg.Export.Format
		}
		if formatName == "" {
			formatName = string(archive.FormatJSON)
		}
		format, err := archive.ParseFormat(formatName)
		if err != nil {
			return err
		}

		target := flagExportOut
		if target == "" {
			target = cfg.Export.Target
		}
		if target == "" {
			target = "."
		}

		fs, err := openExportStore(cmd.Context(), target)
		if err != nil {
			return err
		}

		name := sess.Meta.ID + "." + string(format)
		if err := archive.Export(cmd.Context(), fs, name, sess, format); err != nil {
			return err
		}
		cli.PrintSuccess("exported %s to %s", name, target)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <session>",
	Short: "Delete a session from the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arc, closeArc, err := openArchive()
		if err != nil {
			return err
		}
		defer closeArc()

		id, err := resolveSessionID(cmd.Context(), arc, args[0])
		if err != nil {
			return err
		}
		if err := arc.Delete(cmd.Context(), id); err != nil {
			return err
		}
		cli.PrintSuccess("deleted session %s", shortID(id))
		return nil
	},
}

// openArchive opens the archive over the shared badger data store.
// The returned func closes the underlying store.
func openArchive() (*archive.Archive, func(), error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return archive.New(db), func() { db.Close() }, nil
}

// loadSession resolves a possibly-abbreviated session ID and loads it.
func loadSession(ctx context.Context, arc *archive.Archive, arg string) (*archive.Session, error) {
	id, err := resolveSessionID(ctx, arc, arg)
	if err != nil {
		return nil, err
	}
	return arc.Load(ctx, id)
}

// resolveSessionID expands a session ID prefix to the full ID.
func resolveSessionID(ctx context.Context, arc *archive.Archive, arg string) (string, error) {
	metas, err := arc.List(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, m := range metas {
		if m.ID == arg {
			return arg, nil
		}
		if strings.HasPrefix(m.ID, arg) {
			matches = append(matches, m.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("%w: %s", archive.ErrNotFound, arg)
	default:
		return "", fmt.Errorf("session ID %q is ambiguous (%d matches)", arg, len(matches))
	}
}

// runFilter applies a gojq expression to the session's JSON form and
// prints each result as a JSON line, like jq.
func runFilter(w io.Writer, expr string, sess *archive.Session) error {
	query, err := gojq.Parse(expr)
	if err != nil {
		return fmt.Errorf("parse filter: %w", err)
	}

	// Round-trip through JSON so gojq sees plain maps and slices.
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return err
	}

	iter := query.Run(input)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return fmt.Errorf("filter: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

// openExportStore builds a FileStore for a local directory or an
// s3://bucket[/prefix] URL.
func openExportStore(ctx context.Context, target string) (storage.FileStore, error) {
	if bucket, prefix, ok := splitS3URL(target); ok {
		awscfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		return storage.NewS3(s3.NewFromConfig(awscfg), bucket, prefix), nil
	}
	return storage.NewLocal(target)
}

// splitS3URL splits "s3://bucket/prefix" into its parts.
func splitS3URL(target string) (bucket, prefix string, ok bool) {
	rest, found := strings.CutPrefix(target, "s3://")
	if !found || rest == "" {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	return bucket, strings.TrimSuffix(prefix, "/"), true
}

// shortID abbreviates a session UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// sessionDuration formats the wall time of a session.
func sessionDuration(m archive.Meta) string {
	if m.EndedAt.IsZero() {
		return "-"
	}
	return cli.FormatDuration(m.EndedAt.Sub(m.StartedAt).Round(100 * time.Millisecond))
}

func init() {
	historyListCmd.Flags().StringVarP(&flagHistoryOutput, "output", "o", "", "output format (json, yaml)")
	historyShowCmd.Flags().StringVarP(&flagHistoryOutput, "output", "o", "", "output format (json, yaml)")
	historyShowCmd.Flags().StringVar(&flagHistoryFilter, "filter", "", "gojq expression applied to the session")
	historyExportCmd.Flags().StringVar(&flagExportFormat, "format", "", "export format (json, yaml)")
	historyExportCmd.Flags().StringVar(&flagExportOut, "out", "", "destination directory or s3://bucket[/prefix]")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}
