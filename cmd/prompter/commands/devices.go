package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hintwire/prompter/pkg/audio/capture"
	"github.com/hintwire/prompter/pkg/audio/portaudio"
	"github.com/hintwire/prompter/pkg/cli"
)

var flagDevicesOutput string

// deviceRow is the serializable view of one audio device.
type deviceRow struct {
	Index         int     `json:"index" yaml:"index"`
	Name          string  `json:"name" yaml:"name"`
	Inputs        int     `json:"inputs" yaml:"inputs"`
	Outputs       int     `json:"outputs" yaml:"outputs"`
	SampleRate    float64 `json:"sample_rate" yaml:"sample_rate"`
	DefaultInput  bool    `json:"default_input,omitempty" yaml:"default_input,omitempty"`
	DefaultOutput bool    `json:"default_output,omitempty" yaml:"default_output,omitempty"`
	Loopback      bool    `json:"loopback,omitempty" yaml:"loopback,omitempty"`
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio capture and playback devices",
	Long: `List the audio devices PortAudio can open.

Devices marked [loopback] carry system audio and can serve
'run --source system'. If no loopback device is listed, enable one
first (a PulseAudio/PipeWire monitor source, BlackHole, or Stereo Mix)
or pin a device by name with 'run --device'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := portaudio.Devices()
		if err != nil {
			return fmt.Errorf("list devices: %w", err)
		}

		rows := make([]deviceRow, 0, len(devices))
		for _, d := range devices {
			rows = append(rows, deviceRow{
				Index:         d.Index,
				Name:          d.Name,
				Inputs:        d.MaxInputChannels,
				Outputs:       d.MaxOutputChannels,
				SampleRate:    d.DefaultSampleRate,
				DefaultInput:  d.IsDefaultInput,
				DefaultOutput: d.IsDefaultOutput,
				Loopback:      capture.IsLoopback(d),
			})
		}

		if flagDevicesOutput != "" {
			format, err := cli.ParseOutputFormat(flagDevicesOutput)
			if err != nil {
				return err
			}
			return cli.Output(rows, cli.OutputOptions{Format: format})
		}

		printDevices(rows)
		return nil
	},
}

func printDevices(rows []deviceRow) {
	fmt.Println("Capture devices:")
	n := 0
	for _, r := range rows {
		if r.Inputs == 0 {
			continue
		}
		fmt.Printf("  %s\n", deviceLine(r, r.DefaultInput))
		n++
	}
	if n == 0 {
		fmt.Println("  (none)")
	}

	fmt.Println("Playback devices:")
	n = 0
	for _, r := range rows {
		if r.Outputs == 0 {
			continue
		}
		fmt.Printf("  %s\n", deviceLine(r, r.DefaultOutput))
		n++
	}
	if n == 0 {
		fmt.Println("  (none)")
	}
}

func deviceLine(r deviceRow, isDefault bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%2d] %s  (%din/%dout @ %.0f Hz)", r.Index, r.Name, r.Inputs, r.Outputs, r.SampleRate)
	if isDefault {
		sb.WriteString("  [default]")
	}
	if r.Loopback {
		sb.WriteString("  [loopback]")
	}
	return sb.String()
}

func init() {
	devicesCmd.Flags().StringVarP(&flagDevicesOutput, "output", "o", "", "output format (json, yaml)")
	rootCmd.AddCommand(devicesCmd)
}
