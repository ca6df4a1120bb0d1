package handlers

import (
	"math"
	"net/http"
	"strings"

	"github.com/Conceptual-Machines/maestro-api/internal/theory"
	"github.com/Conceptual-Machines/maestro-api/internal/timing"
	"github.com/gin-gonic/gin"
)

// parseMeter reads an optional "N/D" time signature, defaulting to 4/4
func parseMeter(value string) (timing.Meter, error) {
	if strings.TrimSpace(value) == "" {
		return timing.CommonTime, nil
	}
	return timing.ParseMeter(value)
}

// normalizeKey respells flats and lowercase letters. Unparseable input is
// passed through so the resolver decides how to treat it.
func normalizeKey(value string) theory.Note {
	if note, ok := theory.ParseNote(value); ok {
		return note
	}
	return theory.Note(strings.TrimSpace(value))
}

// scaleOrDefault selects major when no scale name was given
func scaleOrDefault(value string) string {
	if strings.TrimSpace(value) == "" {
		return theory.DefaultScale
	}
	return value
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func badRequest(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
