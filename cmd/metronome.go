package cmd

import (
	"fmt"

	"github.com/Conceptual-Machines/maestro-api/internal/theory"
	"github.com/Conceptual-Machines/maestro-api/internal/timing"
	"github.com/Conceptual-Machines/maestro-api/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	metronomeBPM   float64
	metronomeMeter string
	metronomeKey   string
	metronomeScale string
)

var metronomeCmd = &cobra.Command{
	Use:   "metronome",
	Short: "Run a terminal metronome",
	Long: `Run a terminal metronome with an accented downbeat.

Keys:
  space  start/stop
  + / -  tempo up/down by 5 BPM (60-200)
  q      quit
`,
	Args: cobra.NoArgs,
	RunE: runMetronome,
}

func init() {
	metronomeCmd.Flags().Float64VarP(&metronomeBPM, "bpm", "b", timing.DefaultTempo, "Starting tempo")
	metronomeCmd.Flags().StringVarP(&metronomeMeter, "meter", "m", "4/4", "Time signature")
	metronomeCmd.Flags().StringVarP(&metronomeKey, "key", "k", "", "Key to display alongside the count")
	metronomeCmd.Flags().StringVarP(&metronomeScale, "scale", "s", theory.DefaultScale, "Scale to display with --key")
	rootCmd.AddCommand(metronomeCmd)
}

func runMetronome(cmd *cobra.Command, args []string) error {
	meter, err := timing.ParseMeter(metronomeMeter)
	if err != nil {
		return err
	}

	var key theory.Note
	if metronomeKey != "" {
		parsed, ok := theory.ParseNote(metronomeKey)
		if !ok {
			return fmt.Errorf("%w: %q", theory.ErrUnknownKey, metronomeKey)
		}
		key = parsed
	}

	m := tui.NewMetronome(metronomeBPM, meter, key, metronomeScale)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running metronome: %w", err)
	}
	return nil
}
