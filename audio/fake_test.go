package audio

import (
	"testing"
	"time"
)

func TestReplayStream(t *testing.T) {
	in := make([]float32, 2*fakeChunkFrames+5)
	for i := range in {
		in[i] = float32(i)
	}
	f := NewReplayContext(in, 16000, false)

	dev, err := NewCatalog(f).DefaultDevice()
	if err != nil {
		t.Fatal(err)
	}
	st, err := f.Open(dev)
	if err != nil {
		t.Fatal(err)
	}

	var got []float32
	if err := st.Start(func(data []byte, frames uint32) {
		chunk := FirstChannel(data, FormatF32, 1)
		if uint32(len(chunk)) != frames {
			t.Errorf("frameCount %d for %d samples", frames, len(chunk))
		}
		got = append(got, chunk...)
	}); err != nil {
		t.Fatal(err)
	}

	select {
	case <-f.LastStream().Done():
	case <-time.After(time.Second):
		t.Fatal("replay did not finish")
	}
	st.Close()

	if len(got) != len(in) {
		t.Fatalf("got %d samples, want %d", len(got), len(in))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Fatalf("sample %d = %v, want %v", i, got[i], in[i])
		}
	}
}

func TestFakeStreamIgnoresPushOutsideStart(t *testing.T) {
	f := NewFakeContext(DeviceInfo{ID: "a", Name: "A"})
	st, _ := f.Open(DeviceInfo{ID: "a", Name: "A"})
	fs := st.(*FakeStream)

	calls := 0
	fs.PushFloat32([]float32{1})
	if err := fs.Start(func([]byte, uint32) { calls++ }); err != nil {
		t.Fatal(err)
	}
	fs.PushFloat32([]float32{1})
	fs.Close()
	fs.PushFloat32([]float32{1})
	fs.Close()

	if calls != 1 {
		t.Fatalf("callback ran %d times, want 1", calls)
	}
	if err := fs.Start(func([]byte, uint32) {}); err == nil {
		t.Fatal("Start after Close succeeded")
	}
}
