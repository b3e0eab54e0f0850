// Package features turns the claim-level table into the per-patient
// feature/label table the models train on.
package features

import (
	"regexp"
	"strings"
)

// Category classifies a claim by its primary diagnosis code.
type Category int

const (
	NonRespiratory Category = iota
	RespiratoryNonCOPD
	COPD
)

func (c Category) String() string {
	switch c {
	case COPD:
		return "COPD"
	case RespiratoryNonCOPD:
		return "RespiratoryNonCOPD"
	default:
		return "NonRespiratory"
	}
}

var (
	copdRe = regexp.MustCompile(`^J4[0-7]`)
	// Injury and external-cause chapters (S, T, V, W, X, Y) are excluded
	// from the analysis entirely.
	excludedRe = regexp.MustCompile(`^[STVWXY]`)
)

// Categorize assigns the claim category from the diagnosis code prefix:
// J40–J47 are COPD, other J codes are respiratory, everything else is
// non-respiratory.
func Categorize(code string) Category {
	code = strings.ToUpper(strings.TrimSpace(code))
	switch {
	case copdRe.MatchString(code):
		return COPD
	case strings.HasPrefix(code, "J"):
		return RespiratoryNonCOPD
	default:
		return NonRespiratory
	}
}

// Excluded reports whether a diagnosis code falls in an excluded chapter.
func Excluded(code string) bool {
	return excludedRe.MatchString(strings.ToUpper(strings.TrimSpace(code)))
}
