package encoder

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestEncodeWAVEmpty(t *testing.T) {
	data, err := EncodeWAV(nil, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}
	if len(data) != WAVHeaderSize {
		t.Fatalf("len = %d, want %d", len(data), WAVHeaderSize)
	}
	checkHeader(t, data, 16000, 0)

	samples, rate, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if len(samples) != 0 || rate != 16000 {
		t.Fatalf("decoded %d samples at %d Hz", len(samples), rate)
	}
}

func TestEncodeWAVHeader(t *testing.T) {
	samples := make([]float32, 1000)
	data, err := EncodeWAV(samples, 48000)
	if err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}
	if len(data) != WAVHeaderSize+4*len(samples) {
		t.Fatalf("len = %d, want %d", len(data), WAVHeaderSize+4*len(samples))
	}
	checkHeader(t, data, 48000, len(samples))
}

func checkHeader(t *testing.T, data []byte, rate uint32, frames int) {
	t.Helper()
	le := binary.LittleEndian
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE magic: %q", data[:12])
	}
	if got := le.Uint32(data[4:]); got != uint32(len(data)-8) {
		t.Errorf("RIFF size = %d, want %d", got, len(data)-8)
	}
	if string(data[12:16]) != "fmt " {
		t.Fatalf("fmt chunk at %q", data[12:16])
	}
	if got := le.Uint16(data[20:]); got != WAVFormatFloat {
		t.Errorf("format tag = %d, want %d", got, WAVFormatFloat)
	}
	if got := le.Uint16(data[22:]); got != 1 {
		t.Errorf("channels = %d, want 1", got)
	}
	if got := le.Uint32(data[24:]); got != rate {
		t.Errorf("sample rate = %d, want %d", got, rate)
	}
	if got := le.Uint32(data[28:]); got != rate*4 {
		t.Errorf("byte rate = %d, want %d", got, rate*4)
	}
	if got := le.Uint16(data[32:]); got != 4 {
		t.Errorf("block align = %d, want 4", got)
	}
	if got := le.Uint16(data[34:]); got != 32 {
		t.Errorf("bits per sample = %d, want 32", got)
	}
	if string(data[36:40]) != "data" {
		t.Fatalf("data chunk at %q", data[36:40])
	}
	if got := le.Uint32(data[40:]); got != uint32(4*frames) {
		t.Errorf("data size = %d, want %d", got, 4*frames)
	}
}

func TestWAVRoundTripBitExact(t *testing.T) {
	samples := []float32{
		0, 1, -1, 0.5, -0.25,
		math.SmallestNonzeroFloat32,
		-math.MaxFloat32,
		float32(math.Inf(1)),
		float32(math.Copysign(0, -1)),
		0.1234567,
	}
	// Cross a block boundary too.
	for i := 0; i < BlockSize+17; i++ {
		samples = append(samples, float32(math.Sin(float64(i)*0.01)))
	}

	data, err := EncodeWAV(samples, 44100)
	if err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}
	got, rate, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if rate != 44100 {
		t.Errorf("rate = %d, want 44100", rate)
	}
	if len(got) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(samples))
	}
	for i := range samples {
		if math.Float32bits(got[i]) != math.Float32bits(samples[i]) {
			t.Fatalf("sample %d = %v, want %v", i, got[i], samples[i])
		}
	}
}

func TestWAVPayloadIsLittleEndianFloat(t *testing.T) {
	data, err := EncodeWAV([]float32{0.5, -2}, 8000)
	if err != nil {
		t.Fatal(err)
	}
	payload := data[WAVHeaderSize:]
	if got := math.Float32frombits(binary.LittleEndian.Uint32(payload)); got != 0.5 {
		t.Errorf("first sample = %v", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(payload[4:])); got != -2 {
		t.Errorf("second sample = %v", got)
	}
}

func TestEncodeWAVZeroRate(t *testing.T) {
	_, err := EncodeWAV([]float32{0}, 0)
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("err = %v, want ErrEncoding", err)
	}
}

func TestWavEncoderWriteAfterClose(t *testing.T) {
	enc, err := NewWav(16000)
	if err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := enc.Write([]float32{1}); !errors.Is(err, ErrEncoding) {
		t.Fatalf("err = %v, want ErrEncoding", err)
	}
}

func TestSeekBufferPatch(t *testing.T) {
	var b seekBuffer
	b.Write([]byte("abcdef"))
	b.Seek(2, 0)
	b.Write([]byte("XY"))
	b.Seek(0, 2)
	b.Write([]byte("!"))
	if got := string(b.Bytes()); got != "abXYef!" {
		t.Fatalf("got %q", got)
	}
	if _, err := b.Seek(-1, 0); err == nil {
		t.Fatal("expected error for negative seek")
	}
}
