package capture

import (
	"time"

	"clawvoice/audio"
)

var primeHold = 100 * time.Millisecond

// PrimePermission briefly opens the default input so the OS can show its
// microphone permission prompt before the first real recording. Errors are
// ignored and no Session is touched.
func PrimePermission(ctx audio.Context) {
	def, err := audio.NewCatalog(ctx).DefaultDevice()
	if err != nil {
		return
	}
	stream, err := ctx.Open(def)
	if err != nil {
		return
	}
	defer stream.Close()
	if err := stream.Start(func([]byte, uint32) {}); err != nil {
		return
	}
	time.Sleep(primeHold)
}
