package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hintwire/prompter/pkg/cli"
	"github.com/hintwire/prompter/pkg/resume"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Manage the stored résumé",
	Long: `Manage the résumé the copilot grounds its answers in.

The résumé is stored locally and injected into the session prompt;
finalized answers cite the snippets they drew from it.`,
}

var resumeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored résumé",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openResumeStore()
		if err != nil {
			return err
		}
		defer closeStore()

		text, err := store.Load(cmd.Context())
		if err != nil {
			return err
		}
		if text == "" {
			cli.PrintInfo("no résumé stored; use 'prompter resume import <file>'")
			return nil
		}
		fmt.Println(text)
		return nil
	},
}

var resumeImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a résumé from a text or markdown file",
	Long: `Import a résumé from a local file.

Accepts .txt, .md and .markdown files up to 1 MiB of UTF-8 text. The
imported text replaces any previously stored résumé.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openResumeStore()
		if err != nil {
			return err
		}
		defer closeStore()

		text, err := store.ImportFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		cli.PrintSuccess("imported %s (%s)", args[0], cli.FormatBytes(int64(len(text))))
		return nil
	},
}

var resumeSetCmd = &cobra.Command{
	Use:   "set [text]",
	Short: "Store résumé text directly",
	Long: `Store résumé text passed as an argument, or from stdin when no
argument is given:

  prompter resume set "Senior Go engineer, 8 years ..."
  pbpaste | prompter resume set`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) == 1 {
			text = args[0]
		} else {
			data, err := io.ReadAll(io.LimitReader(os.Stdin, resume.MaxImportSize+1))
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			if len(data) > resume.MaxImportSize {
				return resume.ErrTooLarge
			}
			text = string(data)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("résumé text is empty")
		}

		store, closeStore, err := openResumeStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := store.Save(cmd.Context(), text); err != nil {
			return err
		}
		cli.PrintSuccess("stored résumé (%s)", cli.FormatBytes(int64(len(text))))
		return nil
	},
}

var resumeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored résumé",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openResumeStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		cli.PrintSuccess("résumé cleared")
		return nil
	},
}

// openResumeStore opens the résumé store over the shared badger data
// store. The returned func closes the underlying store.
func openResumeStore() (*resume.Store, func(), error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return resume.NewStore(db), func() { db.Close() }, nil
}

func init() {
	resumeCmd.AddCommand(resumeShowCmd)
	resumeCmd.AddCommand(resumeImportCmd)
	resumeCmd.AddCommand(resumeSetCmd)
	resumeCmd.AddCommand(resumeClearCmd)
	rootCmd.AddCommand(resumeCmd)
}
