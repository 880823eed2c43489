// Package features turns transaction records into the standardized numeric
// matrix used for clustering and classification.
package features

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Veraticus/shopper-segments/internal/common"
)

// LabelEncoder maps categorical values to integers. Classes are sorted
// lexicographically so the encoding does not depend on row order; for the
// Gender column this yields Female=0, Male=1.
type LabelEncoder struct {
	codes   map[string]int
	classes []string
}

// FitLabelEncoder learns the classes present in values.
func FitLabelEncoder(values []string) *LabelEncoder {
	seen := make(map[string]bool, len(values))
	var classes []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			classes = append(classes, v)
		}
	}
	sort.Strings(classes)

	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		codes[c] = i
	}
	return &LabelEncoder{codes: codes, classes: classes}
}

// Transform returns the fitted code of value.
func (e *LabelEncoder) Transform(value string) (int, error) {
	if e == nil {
		return 0, common.ErrNotFitted
	}
	code, ok := e.codes[value]
	if !ok {
		return 0, fmt.Errorf("%w: %q", common.ErrUnknownCategory, value)
	}
	return code, nil
}

// Classes returns the fitted classes; the index of each class is its code.
func (e *LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// Code returns the code of value matched case-insensitively.
func (e *LabelEncoder) Code(value string) (int, bool) {
	for i, c := range e.classes {
		if strings.EqualFold(c, strings.TrimSpace(value)) {
			return i, true
		}
	}
	return 0, false
}

var frequencyDays = map[string]float64{
	"Daily":       1,
	"Weekly":      7,
	"Fortnightly": 14,
	"Monthly":     30,
	"Annually":    365,
}

// FrequencyDays converts a purchase frequency label into its cadence in days.
// Unrecognized labels yield NaN so they are imputed later.
func FrequencyDays(label string) float64 {
	if days, ok := frequencyDays[strings.TrimSpace(label)]; ok {
		return days
	}
	return math.NaN()
}
