package cmd

import (
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/maestro-api/internal/theory"
	"github.com/spf13/cobra"
)

var (
	scaleMode   string
	scaleStrict bool
	scaleChords bool
)

var scaleCmd = &cobra.Command{
	Use:   "scale <key> [scale]",
	Short: "Print the notes of a scale",
	Long: `Print the notes of a scale, spelled with sharps.

Unknown scale names fall back to major unless --strict is given.

Example:
  maestro scale Bb minor --chords
`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runScale,
}

func init() {
	scaleCmd.Flags().StringVarP(&scaleMode, "mode", "m", "", "Mode name (accepted, does not change spelling)")
	scaleCmd.Flags().BoolVar(&scaleStrict, "strict", false, "Fail on unknown key or scale")
	scaleCmd.Flags().BoolVarP(&scaleChords, "chords", "c", false, "Also print the diatonic triads")
	rootCmd.AddCommand(scaleCmd)
}

func runScale(cmd *cobra.Command, args []string) error {
	key := theory.Note(args[0])
	if parsed, ok := theory.ParseNote(args[0]); ok {
		key = parsed
	}

	scaleName := theory.DefaultScale
	if len(args) > 1 {
		scaleName = args[1]
	}

	var notes []theory.Note
	if scaleStrict {
		resolved, err := theory.ResolveScaleStrict(key, scaleName, scaleMode)
		if err != nil {
			return err
		}
		notes = resolved
	} else {
		notes = theory.ResolveScale(key, scaleName, scaleMode)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, joinNotes(notes))

	if scaleChords {
		chords, err := theory.DiatonicTriads(key, scaleName)
		if err != nil {
			return err
		}
		for _, chord := range chords {
			fmt.Fprintf(out, "%-5s %-6s %s\n", chord.Numeral, chord.Symbol, joinNotes(chord.Notes))
		}
	}
	return nil
}

func joinNotes(notes []theory.Note) string {
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = string(n)
	}
	return strings.Join(names, " ")
}
