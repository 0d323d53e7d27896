package encoder

import "errors"

const (
	Channels = 1

	// WAV output is always mono 32-bit IEEE float.
	WAVBitsPerSample = 32
	WAVFormatFloat   = 3
	WAVHeaderSize    = 44

	// FLAC archives are 16-bit since FLAC has no float samples.
	FLACBitsPerSample = 16
	BlockSize         = 4096
)

var ErrEncoding = errors.New("audio encoding failed")

// Encoder renders a mono float stream into a container.
type Encoder interface {
	Write(samples []float32) error
	Close() error
	Bytes() []byte
	TotalFrames() uint64
}

// Encode feeds samples through enc in blocks and finalizes it.
func Encode(enc Encoder, samples []float32) ([]byte, error) {
	for pos := 0; pos < len(samples); pos += BlockSize {
		end := min(pos+BlockSize, len(samples))
		if err := enc.Write(samples[pos:end]); err != nil {
			return nil, err
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}
