package spectral

import (
	"math"
	"math/rand"
	"testing"
)

func testParams(sampleRate float64) Params {
	return Params{
		SampleRate:       sampleRate,
		FrameLength:      2048,
		HopLength:        512,
		RolloffPercent:   0.95,
		ContrastBands:    5,
		ContrastFmin:     80,
		ContrastQuantile: 0.02,
	}
}

// tone synthesizes a pure sine at freq Hz.
func tone(freq, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.8 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return out
}

// noise synthesizes deterministic white noise.
func noise(n int) []float64 {
	rng := rand.New(rand.NewSource(42))
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * (2*rng.Float64() - 1)
	}
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] < sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	return sorted[len(sorted)/2]
}

func TestFrameCount(t *testing.T) {
	e, err := NewExtractor(testParams(22050))
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	tests := []struct {
		samples int
		want    int
	}{
		{0, 0},
		{2047, 0},
		{2048, 1},
		{2048 + 511, 1},
		{2048 + 512, 2},
		{2048 + 512*9, 10},
	}

	for _, tt := range tests {
		if got := e.FrameCount(tt.samples); got != tt.want {
			t.Errorf("FrameCount(%d) = %d; want %d", tt.samples, got, tt.want)
		}
	}
}

func TestBandLayout(t *testing.T) {
	e, err := NewExtractor(testParams(22050))
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	if e.Bands() != 5 {
		t.Errorf("Bands() = %d; want 5", e.Bands())
	}

	// Bands must tile the spectrum without gaps or overlap.
	for i := 1; i < len(e.bands); i++ {
		if e.bands[i].lo != e.bands[i-1].hi {
			t.Errorf("band %d starts at %d; previous ends at %d", i, e.bands[i].lo, e.bands[i-1].hi)
		}
	}
	last := e.bands[len(e.bands)-1]
	if last.hi != 2048/2+1 {
		t.Errorf("last band ends at %d; want %d", last.hi, 2048/2+1)
	}
}

func TestRolloffPureTone(t *testing.T) {
	e, err := NewExtractor(testParams(22050))
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	// 1kHz tone: 95% of the energy sits right at the tone, so every
	// frame's roll-off should land near 1000 Hz.
	block := tone(1000, 22050, 2048+512*19)
	rolloffs, _, err := e.ProcessBlock(block)
	if err != nil {
		t.Fatalf("ProcessBlock failed: %v", err)
	}

	if len(rolloffs) != 20 {
		t.Fatalf("got %d roll-off values; want 20", len(rolloffs))
	}

	m := median(rolloffs)
	if m < 800 || m > 1300 {
		t.Errorf("tone roll-off median = %.1f Hz; want near 1000", m)
	}
}

func TestRolloffWhiteNoise(t *testing.T) {
	e, err := NewExtractor(testParams(22050))
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	block := noise(2048 + 512*19)
	rolloffs, _, err := e.ProcessBlock(block)
	if err != nil {
		t.Fatalf("ProcessBlock failed: %v", err)
	}

	// Flat spectrum: the 95%-energy point sits near 95% of Nyquist.
	nyquist := 22050.0 / 2
	m := median(rolloffs)
	if m < 0.85*nyquist {
		t.Errorf("noise roll-off median = %.1f Hz; want above %.1f", m, 0.85*nyquist)
	}
}

func TestContrastToneVsNoise(t *testing.T) {
	e, err := NewExtractor(testParams(22050))
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	n := 2048 + 512*19
	_, toneContrast, err := e.ProcessBlock(tone(1000, 22050, n))
	if err != nil {
		t.Fatalf("ProcessBlock(tone) failed: %v", err)
	}
	_, noiseContrast, err := e.ProcessBlock(noise(n))
	if err != nil {
		t.Fatalf("ProcessBlock(noise) failed: %v", err)
	}

	if len(toneContrast) != 5 || len(noiseContrast) != 5 {
		t.Fatalf("contrast bands = %d/%d; want 5/5", len(toneContrast), len(noiseContrast))
	}

	// 1 kHz falls in the [640, 1280) band (index 3). A sinusoid has a huge
	// peak-to-valley spread there; broadband noise does not.
	toneBand := median(toneContrast[3])
	noiseBand := median(noiseContrast[3])

	if toneBand < 20 {
		t.Errorf("tone contrast in 640-1280 band = %.1f dB; want > 20", toneBand)
	}
	if noiseBand >= toneBand {
		t.Errorf("noise contrast %.1f dB >= tone contrast %.1f dB", noiseBand, toneBand)
	}
}

func TestNonPowerOfTwoFrameLength(t *testing.T) {
	// A 48 kHz file rescales 2048/512 to 4458/1114, which is not a power of
	// two; frames are zero-padded up to the plan size.
	p := testParams(48000)
	p.FrameLength = 4458
	p.HopLength = 1114

	e, err := NewExtractor(p)
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	if e.fftLen != 8192 {
		t.Errorf("fftLen = %d; want 8192", e.fftLen)
	}
	last := e.bands[len(e.bands)-1]
	if last.hi != 8192/2+1 {
		t.Errorf("last band ends at %d; want %d", last.hi, 8192/2+1)
	}

	block := tone(1000, 48000, 4458+1114*9)
	rolloffs, contrast, err := e.ProcessBlock(block)
	if err != nil {
		t.Fatalf("ProcessBlock failed: %v", err)
	}
	if len(rolloffs) != 10 {
		t.Fatalf("got %d roll-off values; want 10", len(rolloffs))
	}

	m := median(rolloffs)
	if m < 800 || m > 1300 {
		t.Errorf("tone roll-off median = %.1f Hz; want near 1000", m)
	}
	for b, row := range contrast {
		if len(row) != 10 {
			t.Errorf("band %d has %d contrast values; want 10", b, len(row))
		}
	}
}

func TestNextPowerOf2(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{743, 1024},
		{2048, 2048},
		{4458, 8192},
	}
	for _, tt := range tests {
		if got := nextPowerOf2(tt.n); got != tt.want {
			t.Errorf("nextPowerOf2(%d) = %d; want %d", tt.n, got, tt.want)
		}
	}
}

func TestShortBlockYieldsNothing(t *testing.T) {
	e, err := NewExtractor(testParams(22050))
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	rolloffs, contrast, err := e.ProcessBlock(make([]float64, 100))
	if err != nil {
		t.Fatalf("ProcessBlock failed: %v", err)
	}
	if len(rolloffs) != 0 {
		t.Errorf("short block produced %d roll-off values; want 0", len(rolloffs))
	}
	for b, row := range contrast {
		if len(row) != 0 {
			t.Errorf("short block produced %d contrast values in band %d; want 0", len(row), b)
		}
	}
}

func TestNewExtractorValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero sample rate", func(p *Params) { p.SampleRate = 0 }},
		{"zero frame length", func(p *Params) { p.FrameLength = 0 }},
		{"rolloff above one", func(p *Params) { p.RolloffPercent = 1.5 }},
		{"zero bands", func(p *Params) { p.ContrastBands = 0 }},
		{"fmin above nyquist", func(p *Params) { p.ContrastFmin = 20000 }},
	}

	for _, tt := range tests {
		p := testParams(22050)
		tt.mutate(&p)
		if _, err := NewExtractor(p); err == nil {
			t.Errorf("%s: NewExtractor accepted bad params", tt.name)
		}
	}
}
