package models

import "time"

// TopicLevelStatistics holds population mean and standard deviation of
// all learners' best-record points for one (level, topic).
//
// When fewer than two learners contribute, Mean and Sigma are zero and
// InsufficientData is set; consumers must check the flag instead of
// reading sigma=0 as "no variance".
type TopicLevelStatistics struct {
	LevelID          uint      `json:"level_id"`
	TopicID          uint      `json:"topic_id"`
	Mean             float64   `json:"mean"`
	Sigma            float64   `json:"sigma"`
	SampleCount      int       `json:"sample_count"`
	InsufficientData bool      `json:"insufficient_data"`
	ComputedAt       time.Time `json:"computed_at"`
}

// PerformanceBand is the six-band sigma classification of a score
// against its cohort.
type PerformanceBand string

const (
	BandWellAboveAverage PerformanceBand = "well_above_average"
	BandAboveAverage     PerformanceBand = "above_average"
	BandHighAverage      PerformanceBand = "high_average"
	BandLowAverage       PerformanceBand = "low_average"
	BandBelowAverage     PerformanceBand = "below_average"
	BandWellBelowAverage PerformanceBand = "well_below_average"
)

// Band classifies points against the cohort using boundaries at the mean
// and mean ± 1σ, ± 2σ. Returns false when the statistics carry the
// insufficient-data flag; the caller must not band in that case.
func (s *TopicLevelStatistics) Band(points float64) (PerformanceBand, bool) {
	if s.InsufficientData {
		return "", false
	}
	switch {
	case points >= s.Mean+2*s.Sigma:
		return BandWellAboveAverage, true
	case points >= s.Mean+s.Sigma:
		return BandAboveAverage, true
	case points >= s.Mean:
		return BandHighAverage, true
	case points >= s.Mean-s.Sigma:
		return BandLowAverage, true
	case points >= s.Mean-2*s.Sigma:
		return BandBelowAverage, true
	default:
		return BandWellBelowAverage, true
	}
}
