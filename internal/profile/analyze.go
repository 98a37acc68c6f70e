// Package profile implements the streaming feature aggregator: one WAV file
// in, one quantile summary out, without ever holding the full-resolution
// signal in memory.
package profile

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fdch/spokenweb/internal/config"
	"github.com/fdch/spokenweb/internal/models"
	"github.com/fdch/spokenweb/internal/spectral"
	"github.com/fdch/spokenweb/internal/stats"
	"github.com/fdch/spokenweb/internal/wav"
)

// ErrNoFrames means the file decoded cleanly but is too short to produce a
// single analysis frame; no summary row is emitted for it.
var ErrNoFrames = errors.New("no analysis frames produced")

// Rescale adapts an analysis constant from the reference sample rate to a
// file's native rate, keeping the window duration in seconds constant:
// floor(value * rate / refRate).
func Rescale(value, rate, refRate int) (int, error) {
	if refRate <= 0 {
		return 0, fmt.Errorf("reference sample rate must be positive, got %d", refRate)
	}
	scaled := value * rate / refRate
	if scaled < 1 {
		return 0, fmt.Errorf("rescaled value %d*%d/%d rounds below 1", value, rate, refRate)
	}
	return scaled, nil
}

// Analyze streams path block by block, accumulates per-frame roll-off and
// contrast measurements, and reduces them to a Summary once the stream is
// exhausted. On any probe or decode failure no partial summary is returned.
func Analyze(path string, cfg *config.Config) (*models.Summary, error) {
	info, err := wav.Probe(path)
	if err != nil {
		return nil, err
	}

	frameLen, err := Rescale(cfg.Analysis.FrameLength, info.SampleRate, cfg.Analysis.ReferenceSampleRate)
	if err != nil {
		return nil, err
	}
	hopLen, err := Rescale(cfg.Analysis.HopLength, info.SampleRate, cfg.Analysis.ReferenceSampleRate)
	if err != nil {
		return nil, err
	}

	extractor, err := spectral.NewExtractor(spectral.Params{
		SampleRate:       float64(info.SampleRate),
		FrameLength:      frameLen,
		HopLength:        hopLen,
		RolloffPercent:   cfg.Analysis.RolloffPercent,
		ContrastBands:    cfg.Analysis.ContrastBands,
		ContrastFmin:     cfg.Analysis.ContrastFmin,
		ContrastQuantile: cfg.Analysis.ContrastQuantile,
	})
	if err != nil {
		return nil, err
	}

	stream, err := wav.NewStream(path, wav.StreamParams{
		BlockFrames: cfg.Analysis.BlockFrames,
		FrameLength: frameLen,
		HopLength:   hopLen,
	})
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var rolloffs []float64
	contrast := make([][]float64, extractor.Bands())

	for {
		block, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		r, c, err := extractor.ProcessBlock(block)
		if err != nil {
			return nil, err
		}
		rolloffs = append(rolloffs, r...)
		for b := range c {
			contrast[b] = append(contrast[b], c[b]...)
		}
	}

	if len(rolloffs) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoFrames)
	}

	rq := stats.Percentiles(rolloffs)
	cq := stats.Percentiles(stats.BandMean(contrast))

	return &models.Summary{
		Filename:   filepath.Base(path),
		SampleRate: info.SampleRate,
		Duration:   info.Duration(),
		FrameCount: len(rolloffs),

		Rolloff05: rq[0], Rolloff25: rq[1], Rolloff50: rq[2], Rolloff75: rq[3], Rolloff95: rq[4],
		Contrast05: cq[0], Contrast25: cq[1], Contrast50: cq[2], Contrast75: cq[3], Contrast95: cq[4],
	}, nil
}
