package cmd

import (
	"fmt"
	"os"

	"github.com/Conceptual-Machines/maestro-api/internal/midifile"
	"github.com/Conceptual-Machines/maestro-api/internal/theory"
	"github.com/Conceptual-Machines/maestro-api/internal/timing"
	"github.com/spf13/cobra"
)

var (
	exportOut    string
	exportBPM    float64
	exportBars   int
	exportMeter  string
	exportOctave int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write practice material as Standard MIDI Files",
}

var exportClickCmd = &cobra.Command{
	Use:   "click",
	Short: "Write a metronome click track",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		meter, err := timing.ParseMeter(exportMeter)
		if err != nil {
			return err
		}
		return writeMIDIFile(cmd, exportOut, func(f *os.File) error {
			return midifile.WriteClickTrack(f, timing.ClampTempo(exportBPM), exportBars, meter)
		})
	},
}

var exportScaleCmd = &cobra.Command{
	Use:   "scale <key> [scale]",
	Short: "Write an ascending scale run",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := theory.Note(args[0])
		if parsed, ok := theory.ParseNote(args[0]); ok {
			key = parsed
		}
		scaleName := theory.DefaultScale
		if len(args) > 1 {
			scaleName = args[1]
		}

		notes, err := theory.ResolveScaleStrict(key, scaleName, "")
		if err != nil {
			return err
		}
		return writeMIDIFile(cmd, exportOut, func(f *os.File) error {
			return midifile.WriteScale(f, notes, exportOctave, timing.ClampTempo(exportBPM))
		})
	},
}

func init() {
	exportCmd.PersistentFlags().StringVarP(&exportOut, "out", "o", "", "Output .mid file (required)")
	exportCmd.PersistentFlags().Float64Var(&exportBPM, "bpm", timing.DefaultTempo, "Tempo in beats per minute")
	_ = exportCmd.MarkPersistentFlagRequired("out")

	exportClickCmd.Flags().IntVar(&exportBars, "bars", 4, "Number of bars")
	exportClickCmd.Flags().StringVar(&exportMeter, "meter", "4/4", "Time signature")
	exportScaleCmd.Flags().IntVar(&exportOctave, "octave", 4, "Octave of the root note")

	exportCmd.AddCommand(exportClickCmd, exportScaleCmd)
	rootCmd.AddCommand(exportCmd)
}

// writeMIDIFile creates path and removes it again if write fails
func writeMIDIFile(cmd *cobra.Command, path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
