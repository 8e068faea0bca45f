package recorder

import (
	"encoding/binary"
	"errors"
	"io"
)

// pcmStreamer decodes raw mono signed 16-bit little-endian PCM into beep
// stereo frames, duplicating the channel. Stream blocks until at least one
// frame is available or the source ends.
type pcmStreamer struct {
	src  io.Reader
	buf  []byte
	left []byte // odd trailing byte from the previous read
	err  error
}

func newPCMStreamer(src io.Reader) *pcmStreamer {
	return &pcmStreamer{src: src}
}

func (s *pcmStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil || len(samples) == 0 {
		return 0, false
	}

	need := 2 * len(samples)
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	buf := s.buf[:need]
	n := copy(buf, s.left)
	s.left = s.left[:0]

	for n < 2 {
		m, err := s.src.Read(buf[n:])
		n += m
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.err = err
			}
			if n < 2 {
				return 0, false
			}
			break
		}
	}
	frames := n / 2
	if n%2 == 1 {
		s.left = append(s.left, buf[n-1])
	}
	for i := 0; i < frames; i++ {
		v := float64(int16(binary.LittleEndian.Uint16(buf[2*i:]))) / 32768
		samples[i] = [2]float64{v, v}
	}
	return frames, true
}

func (s *pcmStreamer) Err() error { return s.err }
