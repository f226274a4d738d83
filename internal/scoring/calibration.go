package scoring

import (
	"math"
	"sync"

	"vocilia/internal/business"
	dErrors "vocilia/pkg/domain-errors"
)

// DefaultRefitThreshold is the validation correlation below which a
// calibration should be refit from fresh expert samples.
const DefaultRefitThreshold = 0.85

// Sample pairs a raw engine score with an expert-assigned score for the
// same session. Fitting and validation both consume these.
type Sample struct {
	Raw    float64
	Expert float64
}

// Calibration is a linear adjustment applied to the raw total for one
// (business type, language) segment. Applying it never mutates the base
// scorer; it is post-processing only.
type Calibration struct {
	BusinessType business.Type
	Language     string
	Slope        float64
	Intercept    float64
	Version      string
	SampleSize   int
}

// Apply maps a raw total through the linear adjustment, clamped to [0,100].
func (c Calibration) Apply(raw float64) float64 {
	return clamp(c.Slope*raw + c.Intercept)
}

// FitCalibration least-squares fits expert scores against raw scores.
// At least two samples with raw-score variance are required.
func FitCalibration(businessType business.Type, language, version string, samples []Sample) (Calibration, error) {
	if len(samples) < 2 {
		return Calibration{}, dErrors.New(dErrors.CodeInvalidInput, "calibration fit needs at least two samples")
	}

	var sumRaw, sumExpert float64
	for _, s := range samples {
		sumRaw += s.Raw
		sumExpert += s.Expert
	}
	n := float64(len(samples))
	meanRaw := sumRaw / n
	meanExpert := sumExpert / n

	var covar, varRaw float64
	for _, s := range samples {
		covar += (s.Raw - meanRaw) * (s.Expert - meanExpert)
		varRaw += (s.Raw - meanRaw) * (s.Raw - meanRaw)
	}
	if varRaw == 0 {
		return Calibration{}, dErrors.New(dErrors.CodeInvalidInput, "calibration fit needs raw score variance")
	}

	slope := covar / varRaw
	return Calibration{
		BusinessType: businessType,
		Language:     language,
		Slope:        slope,
		Intercept:    meanExpert - slope*meanRaw,
		Version:      version,
		SampleSize:   len(samples),
	}, nil
}

// Pearson computes the correlation coefficient of a validation set.
// Returns 0 when either side has no variance.
func Pearson(samples []Sample) float64 {
	if len(samples) < 2 {
		return 0
	}

	var sumRaw, sumExpert float64
	for _, s := range samples {
		sumRaw += s.Raw
		sumExpert += s.Expert
	}
	n := float64(len(samples))
	meanRaw := sumRaw / n
	meanExpert := sumExpert / n

	var covar, varRaw, varExpert float64
	for _, s := range samples {
		covar += (s.Raw - meanRaw) * (s.Expert - meanExpert)
		varRaw += (s.Raw - meanRaw) * (s.Raw - meanRaw)
		varExpert += (s.Expert - meanExpert) * (s.Expert - meanExpert)
	}
	if varRaw == 0 || varExpert == 0 {
		return 0
	}
	return covar / math.Sqrt(varRaw*varExpert)
}

// NeedsRefit reports whether validation correlation has dropped below the
// threshold. Refitting itself is an operator action; the engine never swaps
// a live calibration on its own.
func NeedsRefit(validation []Sample, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultRefitThreshold
	}
	return Pearson(validation) < threshold
}

type calibrationKey struct {
	businessType business.Type
	language     string
}

// CalibrationRegistry holds the live calibration per segment. Reads happen
// on every scored session; writes only when an operator promotes a new fit.
type CalibrationRegistry struct {
	mu      sync.RWMutex
	entries map[calibrationKey]Calibration
}

// NewCalibrationRegistry creates an empty registry.
func NewCalibrationRegistry() *CalibrationRegistry {
	return &CalibrationRegistry{entries: make(map[calibrationKey]Calibration)}
}

// Lookup returns the calibration for a segment, if one is registered.
func (r *CalibrationRegistry) Lookup(businessType business.Type, language string) (Calibration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cal, ok := r.entries[calibrationKey{businessType: businessType, language: language}]
	return cal, ok
}

// Set registers or replaces the calibration for its segment.
func (r *CalibrationRegistry) Set(cal Calibration) error {
	if cal.Version == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "calibration version is required")
	}
	if math.IsNaN(cal.Slope) || math.IsInf(cal.Slope, 0) || math.IsNaN(cal.Intercept) || math.IsInf(cal.Intercept, 0) {
		return dErrors.New(dErrors.CodeInvalidInput, "calibration coefficients must be finite")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[calibrationKey{businessType: cal.BusinessType, language: cal.Language}] = cal
	return nil
}
