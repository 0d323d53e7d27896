package encoder

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

type WavEncoder struct {
	buf         seekBuffer
	enc         *wav.Encoder
	format      *audio.Format
	totalFrames uint64
	started     bool
	closed      bool
}

func NewWav(sampleRate uint32) (*WavEncoder, error) {
	if sampleRate == 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive", ErrEncoding)
	}
	e := &WavEncoder{
		format: &audio.Format{NumChannels: Channels, SampleRate: int(sampleRate)},
	}
	e.enc = wav.NewEncoder(&e.buf, int(sampleRate), WAVBitsPerSample, Channels, WAVFormatFloat)
	return e, nil
}

// Write appends samples. Each float is stored by its IEEE bit pattern so the
// 32-bit integer writer emits the float bytes unchanged.
func (e *WavEncoder) Write(samples []float32) error {
	if e.closed {
		return fmt.Errorf("%w: write after close", ErrEncoding)
	}
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(int32(math.Float32bits(s)))
	}
	buf := &audio.IntBuffer{Format: e.format, Data: data, SourceBitDepth: WAVBitsPerSample}
	if err := e.enc.Write(buf); err != nil {
		return fmt.Errorf("%w: writing samples: %v", ErrEncoding, err)
	}
	e.started = true
	e.totalFrames += uint64(len(samples))
	return nil
}

// Close finalizes the RIFF and data chunk sizes.
func (e *WavEncoder) Close() error {
	if e.closed {
		return nil
	}
	// The header is only emitted by the first write.
	if !e.started {
		if err := e.Write(nil); err != nil {
			return err
		}
	}
	e.closed = true
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("%w: finalizing: %v", ErrEncoding, err)
	}
	return nil
}

func (e *WavEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

func (e *WavEncoder) TotalFrames() uint64 {
	return e.totalFrames
}

// EncodeWAV renders mono float samples as a 32-bit IEEE float WAV file.
func EncodeWAV(samples []float32, sampleRate uint32) ([]byte, error) {
	enc, err := NewWav(sampleRate)
	if err != nil {
		return nil, err
	}
	return Encode(enc, samples)
}

// DecodeWAV reads back a file produced by EncodeWAV.
func DecodeWAV(data []byte) ([]float32, uint32, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	// IsValidFile rejects zero-length audio, so read the headers directly.
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: reading header: %v", ErrEncoding, err)
	}
	if d.WavAudioFormat != WAVFormatFloat || d.BitDepth != WAVBitsPerSample || d.NumChans != Channels {
		return nil, 0, fmt.Errorf("%w: want mono 32-bit float, got format %d with %d channels at %d bits",
			ErrEncoding, d.WavAudioFormat, d.NumChans, d.BitDepth)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: reading samples: %v", ErrEncoding, err)
	}
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = math.Float32frombits(uint32(v))
	}
	return samples, d.SampleRate, nil
}
