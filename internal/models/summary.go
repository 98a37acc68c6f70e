package models

import "gorm.io/gorm"

// Summary is the per-file quantile digest of the streamed spectral features.
// One row per analyzed recording; rows are replaced wholesale on re-analysis,
// never patched field by field.
type Summary struct {
	gorm.Model

	Filename string `gorm:"uniqueIndex;not null" json:"filename"`

	// Tech Details
	SampleRate int     `json:"sample_rate"` // Native rate in Hz
	Duration   float64 `json:"duration"`    // In seconds
	FrameCount int     `json:"frame_count"` // Analysis frames across all blocks

	// Roll-off quantiles (Hz): frequency below which 95% of frame energy sits
	Rolloff05 float64 `json:"rolloff_05"`
	Rolloff25 float64 `json:"rolloff_25"`
	Rolloff50 float64 `json:"rolloff_50"`
	Rolloff75 float64 `json:"rolloff_75"`
	Rolloff95 float64 `json:"rolloff_95"`

	// Contrast quantiles (dB): band-averaged octave contrast per frame
	Contrast05 float64 `json:"contrast_05"`
	Contrast25 float64 `json:"contrast_25"`
	Contrast50 float64 `json:"contrast_50"`
	Contrast75 float64 `json:"contrast_75"`
	Contrast95 float64 `json:"contrast_95"`
}

// RolloffQuantiles returns the roll-off fields in ascending quantile order.
func (s *Summary) RolloffQuantiles() [5]float64 {
	return [5]float64{s.Rolloff05, s.Rolloff25, s.Rolloff50, s.Rolloff75, s.Rolloff95}
}

// ContrastQuantiles returns the contrast fields in ascending quantile order.
func (s *Summary) ContrastQuantiles() [5]float64 {
	return [5]float64{s.Contrast05, s.Contrast25, s.Contrast50, s.Contrast75, s.Contrast95}
}
