package handlers

const (
	// Upper bounds that keep generated slices and files small
	maxMeasureBoundaries = 10000
	maxScheduleBars      = 256
	maxExportBars        = 256

	defaultExportBars   = 4
	defaultScaleOctave  = 4
	midiContentType     = "audio/midi"
	errInvalidMeterText = "Invalid time signature"
)
