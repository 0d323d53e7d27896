//go:build !linux

package beep

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
)

// malgo allows one playback device per context; cues do not overlap.
var playMu sync.Mutex

func play(samples []float32) {
	if len(samples) == 0 {
		return
	}
	playMu.Lock()
	defer playMu.Unlock()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return
	}
	defer func() {
		ctx.Uninit()
		ctx.Free()
	}()

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatF32
	cfg.Playback.Channels = 1
	cfg.SampleRate = sampleRate

	done := make(chan struct{})
	var once sync.Once
	pos := 0
	onData := func(out, _ []byte, frameCount uint32) {
		n := 0
		for ; n < int(frameCount) && pos < len(samples); n++ {
			binary.LittleEndian.PutUint32(out[n*4:], math.Float32bits(samples[pos]))
			pos++
		}
		clear(out[n*4:])
		if pos >= len(samples) {
			once.Do(func() { close(done) })
		}
	}

	dev, err := malgo.InitDevice(ctx.Context, cfg, malgo.DeviceCallbacks{Data: onData})
	if err != nil {
		return
	}
	defer dev.Uninit()
	if err := dev.Start(); err != nil {
		return
	}
	<-done
	dev.Stop()
}
