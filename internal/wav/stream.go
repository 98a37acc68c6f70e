package wav

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// StreamParams fixes the framing of a block stream. FrameLength and
// HopLength are in samples, BlockFrames is the number of analysis frames
// carried per block.
type StreamParams struct {
	BlockFrames int
	FrameLength int
	HopLength   int
}

func (p StreamParams) validate() error {
	if p.FrameLength < 1 {
		return fmt.Errorf("frame length must be >= 1, got %d", p.FrameLength)
	}
	if p.HopLength < 1 {
		return fmt.Errorf("hop length must be >= 1, got %d", p.HopLength)
	}
	if p.HopLength > p.FrameLength {
		return fmt.Errorf("hop length %d exceeds frame length %d", p.HopLength, p.FrameLength)
	}
	if p.BlockFrames < 1 {
		return fmt.Errorf("block frames must be >= 1, got %d", p.BlockFrames)
	}
	return nil
}

// Stream is a finite, forward-only sequence of sample blocks over one WAV
// file. Blocks overlap by FrameLength-HopLength samples so that uncentered
// framing across block boundaries is identical to framing the whole file in
// one pass. Not restartable; Close releases the underlying file.
type Stream struct {
	path    string
	info    Info
	params  StreamParams
	file    *os.File
	reader  *bufio.Reader
	carry   []float64
	remain  int64 // Sample data bytes still expected on disk
	started bool
	done    bool
}

// NewStream probes path and opens a block stream over its sample data.
func NewStream(path string, params StreamParams) (*Stream, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	info, err := Probe(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &ProbeError{Path: path, Err: err}
	}
	if _, err := f.Seek(info.DataOffset, io.SeekStart); err != nil {
		f.Close()
		return nil, &ProbeError{Path: path, Err: err}
	}

	return &Stream{
		path:   path,
		info:   info,
		params: params,
		file:   f,
		reader: bufio.NewReaderSize(f, 1<<16),
		remain: info.DataBytes,
	}, nil
}

// Info returns the probed format of the streamed file.
func (s *Stream) Info() Info { return s.info }

// Next returns the next block of mono samples, or io.EOF once the file is
// exhausted. The returned slice is owned by the caller; the stream keeps no
// reference to it. The final block may carry fewer frames than BlockFrames,
// or none at all.
func (s *Stream) Next() ([]float64, error) {
	if s.done {
		return nil, io.EOF
	}

	want := s.params.HopLength * s.params.BlockFrames
	if !s.started {
		// First block has no carry, so it needs the full leading frame.
		want += s.params.FrameLength - s.params.HopLength
		s.started = true
	}

	fresh, err := s.readMono(want)
	if err != nil {
		s.done = true
		return nil, err
	}

	block := make([]float64, 0, len(s.carry)+len(fresh))
	block = append(block, s.carry...)
	block = append(block, fresh...)

	if len(fresh) < want {
		// Data exhausted: this is the final block.
		s.done = true
		if len(block) == 0 {
			return nil, io.EOF
		}
		s.carry = nil
		return block, nil
	}

	// Keep the samples that belong to frames spanning the block boundary.
	frames := 0
	if len(block) >= s.params.FrameLength {
		frames = 1 + (len(block)-s.params.FrameLength)/s.params.HopLength
	}
	consumed := frames * s.params.HopLength
	s.carry = append(s.carry[:0], block[consumed:]...)

	return block, nil
}

// readMono reads up to n mono samples, downmixing stereo by averaging.
// Returns fewer than n only when the data chunk ends; a data chunk that ends
// before its declared size is a DecodeError.
func (s *Stream) readMono(n int) ([]float64, error) {
	bytesPerFrame := 2 * s.info.Channels
	if s.remain < int64(bytesPerFrame) {
		return nil, nil
	}

	avail := int(s.remain) / bytesPerFrame
	if n > avail {
		n = avail
	}

	raw := make([]byte, n*bytesPerFrame)
	if _, err := io.ReadFull(s.reader, raw); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &DecodeError{Path: s.path, Err: io.ErrUnexpectedEOF}
		}
		return nil, &DecodeError{Path: s.path, Err: err}
	}
	s.remain -= int64(len(raw))

	out := make([]float64, n)
	const scale = 1.0 / 32768.0
	if s.info.Channels == 1 {
		for i := range out {
			v := int16(binary.LittleEndian.Uint16(raw[2*i:]))
			out[i] = float64(v) * scale
		}
	} else {
		for i := range out {
			l := int16(binary.LittleEndian.Uint16(raw[4*i:]))
			r := int16(binary.LittleEndian.Uint16(raw[4*i+2:]))
			out[i] = (float64(l) + float64(r)) * 0.5 * scale
		}
	}

	return out, nil
}

// Close releases the underlying file. Safe to call more than once.
func (s *Stream) Close() error {
	s.done = true
	if s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil
	return f.Close()
}
