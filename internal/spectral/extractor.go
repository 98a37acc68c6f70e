// Package spectral turns sample blocks into per-frame roll-off and
// octave-band contrast measurements. The transform itself is delegated to
// algo-fft; windowing and roll-off come from algo-dsp.
package spectral

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/spectrum"
	"github.com/cwbudde/algo-dsp/dsp/window"
	"github.com/cwbudde/algo-dsp/stats/frequency"
	algofft "github.com/MeKo-Christian/algo-fft"
)

// Params configures an Extractor. FrameLength and HopLength are already
// rescaled to the file's native sample rate.
type Params struct {
	SampleRate       float64
	FrameLength      int
	HopLength        int
	RolloffPercent   float64 // Energy fraction, e.g. 0.95
	ContrastBands    int     // Octave bands above Fmin
	ContrastFmin     float64 // Lower edge of the first kept band (Hz)
	ContrastQuantile float64 // Fraction of bins for robust peak/valley
}

// Extractor computes framewise features from sample blocks. One Extractor
// serves one file; it is stateless across blocks, so block order does not
// matter to it (the stream guarantees order).
type Extractor struct {
	params Params
	win    []float64
	fftLen int
	plan   *algofft.Plan[complex128]
	in     []complex128
	out    []complex128
	bands  []bandRange
}

// NewExtractor validates params and prepares the window, FFT plan, and
// octave band layout.
func NewExtractor(p Params) (*Extractor, error) {
	if p.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %g", p.SampleRate)
	}
	if p.FrameLength < 1 || p.HopLength < 1 {
		return nil, fmt.Errorf("frame/hop lengths must be >= 1, got %d/%d", p.FrameLength, p.HopLength)
	}
	if p.RolloffPercent <= 0 || p.RolloffPercent > 1 {
		return nil, fmt.Errorf("rolloff percent must be in (0,1], got %g", p.RolloffPercent)
	}
	if p.ContrastBands < 1 {
		return nil, fmt.Errorf("contrast bands must be >= 1, got %d", p.ContrastBands)
	}
	if p.ContrastFmin <= 0 || p.ContrastFmin >= p.SampleRate/2 {
		return nil, fmt.Errorf("contrast fmin %g outside (0, nyquist)", p.ContrastFmin)
	}

	// Rescaled frame lengths are rarely powers of two, so frames are
	// zero-padded up to the plan size.
	fftLen := nextPowerOf2(p.FrameLength)
	plan, err := algofft.NewPlan64(fftLen)
	if err != nil {
		return nil, fmt.Errorf("fft plan (size %d): %w", fftLen, err)
	}

	binCount := fftLen/2 + 1
	bands := octaveBands(p.ContrastFmin, p.ContrastBands, p.SampleRate, binCount)

	return &Extractor{
		params: p,
		win:    window.Generate(window.TypeHann, p.FrameLength, window.WithPeriodic()),
		fftLen: fftLen,
		plan:   plan,
		in:     make([]complex128, fftLen),
		out:    make([]complex128, fftLen),
		bands:  bands,
	}, nil
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p *= 2
	}

	return p
}

// Bands returns the number of contrast bands per frame (the sub-Fmin band is
// already dropped).
func (e *Extractor) Bands() int { return len(e.bands) - 1 }

// FrameCount returns how many uncentered frames a block of n samples yields.
func (e *Extractor) FrameCount(n int) int {
	if n < e.params.FrameLength {
		return 0
	}
	return 1 + (n-e.params.FrameLength)/e.params.HopLength
}

// ProcessBlock frames the block without padding, computes a magnitude
// spectrum per frame, and returns the per-frame roll-off values and the
// contrast matrix (bands x frames, sub-Fmin band dropped). A block shorter
// than one frame yields empty results.
func (e *Extractor) ProcessBlock(samples []float64) ([]float64, [][]float64, error) {
	frames := e.FrameCount(len(samples))

	rolloffs := make([]float64, 0, frames)
	contrast := make([][]float64, e.Bands())
	for b := range contrast {
		contrast[b] = make([]float64, 0, frames)
	}

	for f := 0; f < frames; f++ {
		off := f * e.params.HopLength
		for i := 0; i < e.params.FrameLength; i++ {
			e.in[i] = complex(samples[off+i]*e.win[i], 0)
		}
		if err := e.plan.Forward(e.out, e.in); err != nil {
			return nil, nil, fmt.Errorf("fft frame %d: %w", f, err)
		}

		mag := spectrum.Magnitude(e.out[:e.fftLen/2+1])

		rolloffs = append(rolloffs, frequency.Rolloff(mag, e.params.SampleRate, e.params.RolloffPercent))

		bc := e.bandContrast(mag)
		for b := range bc {
			contrast[b] = append(contrast[b], bc[b])
		}
	}

	return rolloffs, contrast, nil
}
