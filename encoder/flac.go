package encoder

import (
	"bytes"
	"fmt"
	"math"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// FlacEncoder writes a 16-bit mono FLAC archive of a float recording.
type FlacEncoder struct {
	buf         bytes.Buffer
	enc         *flac.Encoder
	sampleRate  uint32
	pending     []int32
	totalFrames uint64
}

func NewFlac(sampleRate uint32) (*FlacEncoder, error) {
	if sampleRate == 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive", ErrEncoding)
	}
	e := &FlacEncoder{sampleRate: sampleRate}
	info := &meta.StreamInfo{
		BlockSizeMin:  BlockSize,
		BlockSizeMax:  BlockSize,
		SampleRate:    sampleRate,
		NChannels:     Channels,
		BitsPerSample: FLACBitsPerSample,
	}
	enc, err := flac.NewEncoder(&e.buf, info)
	if err != nil {
		return nil, fmt.Errorf("%w: creating flac encoder: %v", ErrEncoding, err)
	}
	enc.EnablePredictionAnalysis(true)
	e.enc = enc
	return e, nil
}

func toInt16(s float32) int32 {
	v := math.Round(float64(s) * math.MaxInt16)
	return int32(max(math.MinInt16, min(math.MaxInt16, v)))
}

// Write buffers samples and emits full blocks.
func (e *FlacEncoder) Write(samples []float32) error {
	for _, s := range samples {
		e.pending = append(e.pending, toInt16(s))
	}
	for len(e.pending) >= BlockSize {
		if err := e.writeFrame(e.pending[:BlockSize]); err != nil {
			return err
		}
		e.pending = append(e.pending[:0], e.pending[BlockSize:]...)
	}
	return nil
}

func (e *FlacEncoder) writeFrame(block []int32) error {
	samples := make([]int32, len(block))
	copy(samples, block)

	subframe := &frame.Subframe{
		SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
		Samples:   samples,
		NSamples:  len(samples),
	}
	f := &frame.Frame{
		Header: frame.Header{
			BlockSize:     uint16(len(samples)),
			SampleRate:    e.sampleRate,
			Channels:      frame.ChannelsMono,
			BitsPerSample: FLACBitsPerSample,
		},
		Subframes: []*frame.Subframe{subframe},
	}
	if err := e.enc.WriteFrame(f); err != nil {
		return fmt.Errorf("%w: writing flac frame: %v", ErrEncoding, err)
	}
	e.totalFrames += uint64(len(samples))
	return nil
}

// Close flushes the trailing partial block.
func (e *FlacEncoder) Close() error {
	if len(e.pending) > 0 {
		if err := e.writeFrame(e.pending); err != nil {
			return err
		}
		e.pending = nil
	}
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("%w: closing flac encoder: %v", ErrEncoding, err)
	}
	return nil
}

func (e *FlacEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

func (e *FlacEncoder) TotalFrames() uint64 {
	return e.totalFrames
}

func EncodeFLAC(samples []float32, sampleRate uint32) ([]byte, error) {
	enc, err := NewFlac(sampleRate)
	if err != nil {
		return nil, err
	}
	return Encode(enc, samples)
}
