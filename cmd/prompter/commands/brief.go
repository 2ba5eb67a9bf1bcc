package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hintwire/prompter/pkg/brief"
	"github.com/hintwire/prompter/pkg/cli"
)

var (
	flagBriefModel  string
	flagBriefOutput string
)

var briefCmd = &cobra.Command{
	Use:   "brief <session>",
	Short: "Generate a debrief for an archived session",
	Long: `Generate a post-interview debrief: a summary of how the session
went, with strengths, risks, and follow-up preparation advice.

The debrief is produced by the Gemini API from the archived transcript;
it needs the same API key as 'prompter run'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		key := cfg.GeminiKey()
		if key == "" {
			return fmt.Errorf("no API key in $%s", cfg.Gemini.APIKeyEnv)
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

		gen, err := brief.NewGenerator(cmd.Context(), brief.Config{
			APIKey: key,
			Model:  flagBriefModel,
		})
		if err != nil {
			return err
		}

		d, err := gen.Generate(cmd.Context(), sess)
		if err != nil {
			return err
		}

		if flagBriefOutput != "" {
			format, err := cli.ParseOutputFormat(flagBriefOutput)
			if err != nil {
				return err
			}
			return cli.Output(d, cli.OutputOptions{Format: format})
		}

		printDebrief(sess.Meta.ID, d)
		return nil
	},
}

func printDebrief(id string, d *brief.Debrief) {
	fmt.Printf("Debrief for session %s\n\n", shortID(id))
	fmt.Println(d.Summary)
	printList("Strengths", d.Strengths)
	printList("Risks", d.Risks)
	printList("Follow-ups", d.FollowUps)
}

func printList(label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", label)
	for _, it := range items {
		fmt.Printf("  - %s\n", it)
	}
}

func init() {
	briefCmd.Flags().StringVar(&flagBriefModel, "model", "", "debrief model (default: "+brief.DefaultModel+")")
	briefCmd.Flags().StringVarP(&flagBriefOutput, "output", "o", "", "output format (json, yaml)")
	rootCmd.AddCommand(briefCmd)
}
