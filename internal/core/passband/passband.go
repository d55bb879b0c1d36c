// Package passband maps raw survey vocabulary onto the canonical schema
package passband

// canonical band labels used across the dataset
const (
	ZTFg = "ztfg"
	ZTFr = "ztfr"
	ZTFi = "ztfi"
)

// survey tags as they appear in raw alert records
const (
	tagDetection    = 1
	tagNonDetection = 2
)

var bands = map[string]string{
	"g": ZTFg,
	"G": ZTFg,
	"r": ZTFr,
	"R": ZTFr,
	"i": ZTFi,
	"I": ZTFi,
}

// Normalize maps a raw passband letter to its canonical label
// unknown letters return ok=false and must be rejected by callers
func Normalize(raw string) (string, bool) {
	b, ok := bands[raw]
	return b, ok
}

// NonDetection maps a raw survey tag to the non_detection flag
// tag 1 marks a detection, tag 2 a non detection, anything else is out of vocabulary
func NonDetection(tag int64) (nonDetection, ok bool) {
	switch tag {
	case tagDetection:
		return false, true
	case tagNonDetection:
		return true, true
	default:
		return false, false
	}
}

// Known reports whether label is one of the canonical band labels
func Known(label string) bool {
	switch label {
	case ZTFg, ZTFr, ZTFi:
		return true
	}
	return false
}
