package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hintwire/prompter/cmd/prompter/internal/config"
	"github.com/hintwire/prompter/pkg/archive"
	"github.com/hintwire/prompter/pkg/audio/capture"
	"github.com/hintwire/prompter/pkg/audio/pcm"
	"github.com/hintwire/prompter/pkg/cli"
	"github.com/hintwire/prompter/pkg/copilot"
	"github.com/hintwire/prompter/pkg/kv"
	"github.com/hintwire/prompter/pkg/live"
	"github.com/hintwire/prompter/pkg/resume"
	"github.com/hintwire/prompter/pkg/speak"
)

var (
	// Command-line overrides
	flagRunSource  string
	flagRunDevice  string
	flagRunModel   string
	flagRunVoice   string
	flagRunNoVoice bool
	flagRunSpeak   bool
	flagRunPlain   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a live interview session",
	Long: `Start a live interview session.

Audio from the selected source streams to the live model, which
transcribes the interviewer and drafts first-person answers grounded in
your stored résumé. The session renders as a full-screen frame:

  l   toggle listening
  a   analyze now (answer what has been heard so far)
  n   next question (discard the current transcript)
  v   toggle the AI voice
  s   toggle speaking finalized answers aloud
  q   quit

Finished turns are archived; inspect them later with 'prompter history'
and 'prompter brief'.`,
	RunE: runSession,
}

func init() {
	runCmd.Flags().StringVar(&flagRunSource, "source", "", "audio source: mic or system")
	runCmd.Flags().StringVar(&flagRunDevice, "device", "", "input device for system capture (name substring)")
	runCmd.Flags().StringVar(&flagRunModel, "model", "", "live model (default: "+live.DefaultModel+")")
	runCmd.Flags().StringVar(&flagRunVoice, "voice", "", "AI voice name")
	runCmd.Flags().BoolVar(&flagRunNoVoice, "no-voice", false, "start with the AI voice muted")
	runCmd.Flags().BoolVar(&flagRunSpeak, "speak-answers", false, "speak finalized answers aloud via TTS")
	runCmd.Flags().BoolVar(&flagRunPlain, "plain", false, "line output instead of the full-screen frame")
	rootCmd.AddCommand(runCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}
	if cfg.GeminiKey() == "" {
		return fmt.Errorf("no API key in $%s; export it, or point gemini.api_key_env at another variable in %s",
			cfg.Gemini.APIKeyEnv, cfg.Path)
	}

	source, err := capture.ParseSource(firstNonEmpty(flagRunSource, cfg.Capture.Source, string(capture.SourceMic)))
	if err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := runOptions{
		source:       source,
		systemDevice: firstNonEmpty(flagRunDevice, cfg.Capture.SystemDevice),
		model:        firstNonEmpty(flagRunModel, cfg.Gemini.Model),
		voice:        firstNonEmpty(flagRunVoice, cfg.Gemini.Voice),
		speakAnswers: flagRunSpeak || cfg.SpeakAnswers,
		noVoice:      flagRunNoVoice,
	}

	if flagRunPlain {
		logger := newLogger(os.Stderr)
		pilot, cleanup, err := buildPilot(cfg, db, logger, opts)
		if err != nil {
			return err
		}
		defer cleanup()
		return runPlain(pilot)
	}

	logWriter := cli.NewLogWriter(200)
	logger := newLogger(logWriter)
	pilot, cleanup, err := buildPilot(cfg, db, logger, opts)
	if err != nil {
		return err
	}
	defer cleanup()
	return runTUI(pilot, logWriter, logger)
}

// runOptions is the merged flag/config session configuration.
type runOptions struct {
	source       capture.Source
	systemDevice string
	model        string
	voice        string
	speakAnswers bool
	noVoice      bool
}

// buildPilot wires the copilot: live client, résumé store, archive,
// answer speech, and the playback sink. The returned func releases the
// speech sink.
func buildPilot(cfg *config.Config, db kv.Store, logger *slog.Logger, opts runOptions) (*copilot.Copilot, func(), error) {
	cleanup := func() {}

	var speaker *speak.Speaker
	if key := cfg.TTSKey(); key != "" {
		synth, err := speak.NewOpenAISynthesizer(speak.OpenAIConfig{
			APIKey:  key,
			BaseURL: cfg.TTS.BaseURL,
			Model:   cfg.TTS.Model,
			Voice:   cfg.TTS.Voice,
		})
		if err != nil {
			return nil, nil, err
		}
		sink := newLazySink(speak.Format)
		speaker = speak.NewSpeaker(synth, sink, logger)
		cleanup = func() { sink.Close() }
	} else if opts.speakAnswers {
		logger.Warn("speak-answers requested but no TTS key set", "env", cfg.TTS.APIKeyEnv)
	}

	pilot, err := copilot.New(copilot.Config{
		Client:       live.NewClient(cfg.GeminiKey(), live.WithLogger(logger)),
		Model:        opts.model,
		Voice:        opts.voice,
		Source:       opts.source,
		SystemDevice: opts.systemDevice,
		Resume:       resume.NewStore(db),
		Archive:      archive.New(db),
		Speaker:      speaker,
		NewSink: func() (pcm.WriteCloser, error) {
			return openPlaybackSink(pcm.L16Mono24K)
		},
		Logger: logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	pilot.SetVoiceOutput(!opts.noVoice)
	pilot.SetSpeakAnswers(opts.speakAnswers && speaker != nil)
	return pilot, cleanup, nil
}

// runPlain runs the session with line output, until Ctrl+C.
func runPlain(pilot *copilot.Copilot) error {
	if err := pilot.Start(context.Background()); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	fmt.Println("Session open. Press Ctrl+C to stop.")

	p := plainPrinter{w: os.Stdout}
	for {
		select {
		case <-sigCh:
			pilot.Stop()
		case ev := <-pilot.Events():
			p.print(ev)
			if ev.Type == copilot.EventState {
				switch ev.State {
				case copilot.StateClosed:
					return nil
				case copilot.StateErrored:
					return pilot.Err()
				}
			}
		}
	}
}

// plainPrinter renders copilot events as lines, labeling speaker
// changes in the interleaved delta stream.
type plainPrinter struct {
	w    io.Writer
	last copilot.EventType
}

func (p *plainPrinter) print(ev copilot.Event) {
	switch ev.Type {
	case copilot.EventQuestion:
		if p.last != copilot.EventQuestion {
			fmt.Fprintf(p.w, "\n[interviewer] ")
		}
		fmt.Fprint(p.w, ev.Delta)
	case copilot.EventAnswer:
		if p.last != copilot.EventAnswer {
			fmt.Fprintf(p.w, "\n[answer] ")
		}
		fmt.Fprint(p.w, ev.Delta)
	case copilot.EventTurn:
		fmt.Fprintln(p.w)
		if len(ev.Turn.Citations) > 0 {
			fmt.Fprintf(p.w, "(cites: %q)\n", ev.Turn.Citations)
		}
		fmt.Fprintf(p.w, "✓ turn saved (%s)\n", shortID(ev.Turn.ID))
	case copilot.EventInterrupted:
		fmt.Fprintf(p.w, "\n-- interrupted\n")
	case copilot.EventCleared:
		fmt.Fprintf(p.w, "\n-- cleared\n")
	case copilot.EventListening:
		if ev.Listening {
			fmt.Fprintf(p.w, "\n-- listening\n")
		} else {
			fmt.Fprintf(p.w, "\n-- paused\n")
		}
	case copilot.EventState:
		fmt.Fprintf(p.w, "\n-- %s\n", ev.State)
	case copilot.EventError:
		fmt.Fprintf(p.w, "\nerror: %v\n", ev.Err)
	}
	p.last = ev.Type
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
