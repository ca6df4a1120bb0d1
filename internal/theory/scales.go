package theory

import (
	"sort"
	"strings"
)

// ScaleTemplate is a named interval pattern. Intervals are semitone offsets
// from the root, strictly increasing and starting at 0.
type ScaleTemplate struct {
	Name      string `json:"name"`
	Intervals []int  `json:"intervals"`
}

// DefaultScale is used when a scale name is not recognised
const DefaultScale = "major"

var majorIntervals = []int{0, 2, 4, 5, 7, 9, 11}

var scaleTemplates = map[string]ScaleTemplate{
	"major":      {Name: "major", Intervals: majorIntervals},
	"minor":      {Name: "minor", Intervals: []int{0, 2, 3, 5, 7, 8, 10}},
	"diatonic":   {Name: "diatonic", Intervals: majorIntervals},
	"mixolydian": {Name: "mixolydian", Intervals: []int{0, 2, 4, 5, 7, 9, 10}},
	"dorian":     {Name: "dorian", Intervals: []int{0, 2, 3, 5, 7, 9, 10}},
	"blues":      {Name: "blues", Intervals: []int{0, 3, 5, 6, 7, 10}},
	"pentatonic": {Name: "pentatonic", Intervals: []int{0, 2, 4, 7, 9}},
}

// LookupScale finds a built-in template by name, ignoring case
func LookupScale(name string) (ScaleTemplate, bool) {
	tmpl, ok := scaleTemplates[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ScaleTemplate{}, false
	}
	// Callers get their own copy of the intervals
	tmpl.Intervals = append([]int(nil), tmpl.Intervals...)
	return tmpl, true
}

// ScaleNames returns the built-in scale names in alphabetical order
func ScaleNames() []string {
	names := make([]string, 0, len(scaleTemplates))
	for name := range scaleTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scales returns every built-in template, ordered by name
func Scales() []ScaleTemplate {
	names := ScaleNames()
	templates := make([]ScaleTemplate, 0, len(names))
	for _, name := range names {
		tmpl, _ := LookupScale(name)
		templates = append(templates, tmpl)
	}
	return templates
}
