// Package wav provides sampling-rate probing, PCM encoding, and a lazy
// block stream over RIFF/WAVE files. Non-WAV formats are handled upstream by
// pre-transcoding through ffmpeg (see Transcode).
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ProbeError means the file header could not be read or understood; the
// recording cannot be analyzed at all.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// DecodeError means the header was valid but the sample data ended early or
// could not be read; the recording yields no (partial) result.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Info describes a probed WAV file. Probing reads only the header chunks,
// never the sample data.
type Info struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	DataOffset    int64 // Byte offset of the first sample
	DataBytes     int64 // Declared size of the data chunk
	SampleCount   int   // Samples per channel
}

// Duration returns the recording length in seconds.
func (i Info) Duration() float64 {
	if i.SampleRate <= 0 {
		return 0
	}
	return float64(i.SampleCount) / float64(i.SampleRate)
}

// Probe reads the RIFF header and chunk list of a WAV file and returns its
// format without decoding any audio. Only 16-bit PCM, mono or stereo, is
// supported.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, &ProbeError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := probe(f)
	if err != nil {
		return Info{}, &ProbeError{Path: path, Err: err}
	}
	return info, nil
}

func probe(f *os.File) (Info, error) {
	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return Info{}, fmt.Errorf("short RIFF header: %w", err)
	}
	if !bytes.Equal(riff[0:4], []byte("RIFF")) || !bytes.Equal(riff[8:12], []byte("WAVE")) {
		return Info{}, errors.New("not a RIFF/WAVE file")
	}

	var info Info
	haveFmt, haveData := false, false
	offset := int64(12)

	// Walk the chunk list; real-world files carry LIST/fact/cue chunks
	// between fmt and data, so we cannot assume a fixed 44-byte layout.
	for !(haveFmt && haveData) {
		var hdr [8]byte
		if _, err := f.ReadAt(hdr[:], offset); err != nil {
			return Info{}, fmt.Errorf("chunk header at %d: %w", offset, err)
		}
		id := string(hdr[0:4])
		size := int64(binary.LittleEndian.Uint32(hdr[4:8]))

		switch id {
		case "fmt ":
			var fmtChunk [16]byte
			if size < 16 {
				return Info{}, fmt.Errorf("fmt chunk too small: %d bytes", size)
			}
			if _, err := f.ReadAt(fmtChunk[:], offset+8); err != nil {
				return Info{}, fmt.Errorf("fmt chunk: %w", err)
			}
			audioFormat := binary.LittleEndian.Uint16(fmtChunk[0:2])
			if audioFormat != 1 {
				return Info{}, fmt.Errorf("unsupported audio format %d (only PCM)", audioFormat)
			}
			info.Channels = int(binary.LittleEndian.Uint16(fmtChunk[2:4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(fmtChunk[4:8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(fmtChunk[14:16]))
			haveFmt = true
		case "data":
			info.DataOffset = offset + 8
			info.DataBytes = size
			haveData = true
		}

		// Chunks are word-aligned
		offset += 8 + size + (size & 1)
	}

	if info.SampleRate <= 0 {
		return Info{}, fmt.Errorf("invalid sample rate %d", info.SampleRate)
	}
	if info.BitsPerSample != 16 {
		return Info{}, fmt.Errorf("unsupported bit depth %d (only 16-bit)", info.BitsPerSample)
	}
	if info.Channels != 1 && info.Channels != 2 {
		return Info{}, fmt.Errorf("unsupported channel count %d", info.Channels)
	}

	// Clamp the declared data size to what is actually on disk so a
	// truncated file is caught during streaming, not here.
	info.SampleCount = int(info.DataBytes) / (2 * info.Channels)

	return info, nil
}

// Encode writes mono PCM-16 samples as a minimal WAV file. Used to produce
// fixture recordings and intermediate buffers.
func Encode(samples []int16, sampleRate int) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	dataSize := uint32(len(samples) * 2)
	buf := bytes.NewBuffer(make([]byte, 0, 44+len(samples)*2))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // Mono
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2)) // Byte rate
	binary.Write(buf, binary.LittleEndian, uint16(2))            // Block align
	binary.Write(buf, binary.LittleEndian, uint16(16))           // Bits per sample
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	if err := binary.Write(buf, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("failed to write audio data: %w", err)
	}

	return buf.Bytes(), nil
}
