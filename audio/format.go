package audio

import (
	"encoding/binary"
	"math"
)

// SampleFormat is the native encoding of one sample. Multi-byte formats are
// little-endian; 24-bit formats are packed in 3 bytes.
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	FormatI8
	FormatU8
	FormatI16
	FormatU16
	FormatI24
	FormatU24
	FormatI32
	FormatU32
	FormatI64
	FormatU64
	FormatF32
	FormatF64
)

var formatNames = map[SampleFormat]string{
	FormatUnknown: "unknown",
	FormatI8:      "i8",
	FormatU8:      "u8",
	FormatI16:     "i16",
	FormatU16:     "u16",
	FormatI24:     "i24",
	FormatU24:     "u24",
	FormatI32:     "i32",
	FormatU32:     "u32",
	FormatI64:     "i64",
	FormatU64:     "u64",
	FormatF32:     "f32",
	FormatF64:     "f64",
}

func (f SampleFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// BytesPerSample returns 0 for unsupported formats.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case FormatI8, FormatU8:
		return 1
	case FormatI16, FormatU16:
		return 2
	case FormatI24, FormatU24:
		return 3
	case FormatI32, FormatU32, FormatF32:
		return 4
	case FormatI64, FormatU64, FormatF64:
		return 8
	}
	return 0
}

func (f SampleFormat) Supported() bool {
	return f.BytesPerSample() > 0
}

const (
	scale8  = 1 << 7
	scale16 = 1 << 15
	scale24 = 1 << 23
	scale32 = 1 << 31
	scale64 = 1 << 63
)

// sampleToFloat converts the sample at the start of b to [-1, 1).
// Unsigned formats are centred on their midpoint.
func sampleToFloat(b []byte, f SampleFormat) float32 {
	switch f {
	case FormatI8:
		return float32(int8(b[0])) / scale8
	case FormatU8:
		return (float32(b[0]) - scale8) / scale8
	case FormatI16:
		return float32(int16(binary.LittleEndian.Uint16(b))) / scale16
	case FormatU16:
		return (float32(binary.LittleEndian.Uint16(b)) - scale16) / scale16
	case FormatI24:
		v := int32(uint32(b[0])|uint32(b[1])<<8|uint32(b[2])<<16) << 8 >> 8
		return float32(v) / scale24
	case FormatU24:
		v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
		return (float32(v) - scale24) / scale24
	case FormatI32:
		return float32(float64(int32(binary.LittleEndian.Uint32(b))) / scale32)
	case FormatU32:
		return float32((float64(binary.LittleEndian.Uint32(b)) - scale32) / scale32)
	case FormatI64:
		return float32(float64(int64(binary.LittleEndian.Uint64(b))) / scale64)
	case FormatU64:
		return float32((float64(binary.LittleEndian.Uint64(b)) - scale64) / scale64)
	case FormatF32:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case FormatF64:
		return float32(math.Float64frombits(binary.LittleEndian.Uint64(b)))
	}
	return 0
}

// FirstChannel reduces interleaved native frames to mono by keeping the first
// channel of every frame. Channels are not averaged. A trailing partial frame
// is ignored.
func FirstChannel(data []byte, format SampleFormat, channels uint32) []float32 {
	width := format.BytesPerSample()
	if width == 0 || channels == 0 {
		return nil
	}
	stride := width * int(channels)
	frames := len(data) / stride
	if frames == 0 {
		return nil
	}
	out := make([]float32, frames)
	for i := range out {
		out[i] = sampleToFloat(data[i*stride:], format)
	}
	return out
}

// Float32Bytes packs float samples as little-endian f32, the inverse of
// FirstChannel for FormatF32 mono.
func Float32Bytes(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}
	return out
}
