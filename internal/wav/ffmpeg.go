package wav

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Transcode converts any ffmpeg-readable audio file into a mono 16-bit PCM
// WAV at its native sample rate, written under tempDir. The caller owns the
// returned path and must remove it after analysis.
func Transcode(path, tempDir string) (string, error) {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return "", err
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	out := filepath.Join(tempDir, strings.TrimSuffix(base, ext)+".safe.wav")

	log.Printf("🧪 Pre-transcoding to safe WAV for analysis: %s", base)

	// Keep the native rate (-ar omitted): the profiler rescales its frame
	// and hop lengths per file instead of resampling the audio.
	cmd := exec.Command("ffmpeg", "-y", "-i", path,
		"-vn", "-map", "0:a:0",
		"-ac", "1",
		"-acodec", "pcm_s16le",
		"-f", "wav",
		out)
	if output, err := cmd.CombinedOutput(); err != nil {
		os.Remove(out)
		return "", &DecodeError{Path: path, Err: fmt.Errorf("ffmpeg: %v | %s", err, string(output))}
	}

	return out, nil
}

// IsNative reports whether path can be streamed directly without an ffmpeg
// pre-transcode.
func IsNative(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}
