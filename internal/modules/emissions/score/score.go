// Package score derives the composite emission score and its status band
// from raw pollutant concentrations.
package score

// Reference concentrations used to normalize each pollutant before
// averaging. A reading at exactly these levels scores 0.
const (
	refCO   = 5.0
	refC6H6 = 15.0
	refNOx  = 400.0
	refNO2  = 200.0
)

// AlertThreshold is the score below which the dashboard raises the
// high-emissions alert. Fixed business rule; strictly exclusive.
const AlertThreshold = 4.0

// Composite converts pollutant concentrations into the 0-10 emission score.
// Lower is worse: 10 means clean air, 0 means every pollutant at or above
// its reference level.
func Composite(co, c6h6, nox, no2 float64) float64 {
	pollutantAvg := (co/refCO + c6h6/refC6H6 + nox/refNOx + no2/refNO2) / 4
	return Clamp(10 * (1 - pollutantAvg))
}

// Clamp bounds a score to the 0-10 scale.
func Clamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 10 {
		return 10
	}
	return s
}

// Band maps a score to its status label and color class.
// Bands: >= 6.5 Safe, >= 4.0 Moderate, below High Emissions.
func Band(s float64) (status, color string) {
	switch {
	case s >= 6.5:
		return "Safe", "green"
	case s >= AlertThreshold:
		return "Moderate", "yellow"
	default:
		return "High Emissions", "red"
	}
}
