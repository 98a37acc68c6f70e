package wav

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeFixture drops an encoded mono WAV into dir and returns its path.
func writeFixture(t *testing.T, dir, name string, samples []int16, sampleRate int) string {
	t.Helper()
	data, err := Encode(samples, sampleRate)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

// ramp produces a deterministic, exactly-representable test signal.
func ramp(n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(i % 2000)
	}
	return out
}

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "one_second.wav", ramp(22050), 22050)

	info, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	if info.SampleRate != 22050 {
		t.Errorf("SampleRate = %d; want 22050", info.SampleRate)
	}
	if info.Channels != 1 {
		t.Errorf("Channels = %d; want 1", info.Channels)
	}
	if info.SampleCount != 22050 {
		t.Errorf("SampleCount = %d; want 22050", info.SampleCount)
	}
	if math.Abs(info.Duration()-1.0) > 1e-9 {
		t.Errorf("Duration = %f; want 1.0", info.Duration())
	}
}

func TestProbeFailures(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.wav")
	os.WriteFile(garbage, []byte("this is not audio at all, sorry"), 0644)

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "does_not_exist.wav")},
		{"garbage header", garbage},
	}

	for _, tt := range tests {
		_, err := Probe(tt.path)
		var pe *ProbeError
		if !errors.As(err, &pe) {
			t.Errorf("%s: Probe error = %v; want *ProbeError", tt.name, err)
		}
	}
}

// frames counts uncentered frames in a block, mirroring the extractor.
func frames(n, frameLen, hop int) int {
	if n < frameLen {
		return 0
	}
	return 1 + (n-frameLen)/hop
}

func TestStreamMatchesWholeFileFraming(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name        string
		samples     int
		frameLen    int
		hop         int
		blockFrames int
	}{
		{"even blocks", 8192, 512, 128, 8},
		{"ragged tail", 10000, 512, 128, 8},
		{"hop equals frame", 4096, 256, 256, 4},
		{"single block file", 700, 512, 128, 64},
		{"shorter than one frame", 300, 512, 128, 8},
	}

	for _, tt := range tests {
		signal := ramp(tt.samples)
		path := writeFixture(t, dir, tt.name+".wav", signal, 22050)

		s, err := NewStream(path, StreamParams{
			BlockFrames: tt.blockFrames,
			FrameLength: tt.frameLen,
			HopLength:   tt.hop,
		})
		if err != nil {
			t.Fatalf("%s: NewStream failed: %v", tt.name, err)
		}

		total := 0
		var gotFrames [][]float64
		for {
			block, err := s.Next()
			if err != nil {
				break
			}
			n := frames(len(block), tt.frameLen, tt.hop)
			total += n
			for f := 0; f < n; f++ {
				frame := make([]float64, tt.frameLen)
				copy(frame, block[f*tt.hop:f*tt.hop+tt.frameLen])
				gotFrames = append(gotFrames, frame)
			}
		}
		s.Close()

		want := frames(tt.samples, tt.frameLen, tt.hop)
		if total != want {
			t.Errorf("%s: streamed frame count = %d; want %d", tt.name, total, want)
		}

		// Every streamed frame must be byte-identical to the frame a
		// whole-file pass would produce at the same index.
		const scale = 1.0 / 32768.0
		for fi, frame := range gotFrames {
			off := fi * tt.hop
			for i, v := range frame {
				direct := float64(signal[off+i]) * scale
				if v != direct {
					t.Errorf("%s: frame %d sample %d = %v; want %v", tt.name, fi, i, v, direct)
					break
				}
			}
		}
	}
}

func TestStreamTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "truncated.wav", ramp(8192), 22050)

	// Chop off half the declared sample data.
	if err := os.Truncate(path, 44+8192); err != nil {
		t.Fatalf("Truncate failed: %v", err)
	}

	s, err := NewStream(path, StreamParams{BlockFrames: 8, FrameLength: 512, HopLength: 128})
	if err != nil {
		t.Fatalf("NewStream failed: %v", err)
	}
	defer s.Close()

	var de *DecodeError
	for {
		_, err := s.Next()
		if err == nil {
			continue
		}
		if !errors.As(err, &de) {
			t.Errorf("Next error = %v; want *DecodeError", err)
		}
		break
	}
}

func TestStreamEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "empty.wav", nil, 22050)

	s, err := NewStream(path, StreamParams{BlockFrames: 8, FrameLength: 512, HopLength: 128})
	if err != nil {
		t.Fatalf("NewStream failed: %v", err)
	}
	defer s.Close()

	block, err := s.Next()
	if err == nil {
		t.Errorf("Next on empty file returned block of %d samples; want EOF", len(block))
	}
}

func TestStreamParamsValidation(t *testing.T) {
	tests := []struct {
		name   string
		params StreamParams
	}{
		{"zero frame", StreamParams{BlockFrames: 8, FrameLength: 0, HopLength: 128}},
		{"zero hop", StreamParams{BlockFrames: 8, FrameLength: 512, HopLength: 0}},
		{"hop beyond frame", StreamParams{BlockFrames: 8, FrameLength: 128, HopLength: 512}},
		{"zero block frames", StreamParams{BlockFrames: 0, FrameLength: 512, HopLength: 128}},
	}

	for _, tt := range tests {
		if err := tt.params.validate(); err == nil {
			t.Errorf("%s: validate accepted bad params %+v", tt.name, tt.params)
		}
	}
}
