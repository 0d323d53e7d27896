package doctor

import (
	"fmt"
	"io"
	"os"
	"time"

	"clawvoice/audio"
	"clawvoice/capture"
	"clawvoice/clipboard"
	"clawvoice/encoder"
	"clawvoice/hotkey"
	"clawvoice/shutdown"
)

type Options struct {
	Audio audio.Context
	// Device is a configured selector; empty checks the OS default.
	Device     string
	CaptureFor time.Duration

	// Combo is checked when set. With Hotkey also set, the check waits up to
	// PressTimeout for a real press.
	Combo        *hotkey.Combo
	Hotkey       hotkey.Hotkey
	PressTimeout time.Duration

	Clipboard bool

	// LogDir is shown in the header when logging is on.
	LogDir string
}

type check struct {
	name string
	run  func(o Options, out io.Writer) bool
}

// Run executes the diagnostic checks in order, stopping at the first failure,
// and returns an exit code (0 all pass, 1 any fail).
func Run(o Options, out io.Writer) int {
	checks := []check{
		{"Audio devices", checkDevices},
		{"Input device", checkInputDevice},
		{"Capture round-trip", checkCapture},
	}
	if o.Combo != nil {
		checks = append(checks, check{"Push-to-talk hotkey", checkHotkey})
	}
	if o.Clipboard {
		checks = append(checks, check{"Clipboard", checkClipboard})
	}

	fmt.Fprintln(out, "clawvoice doctor - system diagnostics")
	fmt.Fprintln(out, "=====================================")
	if o.LogDir != "" {
		fmt.Fprintf(out, "Logs: %s\n", o.LogDir)
	}

	allPass := true
	for i, c := range checks {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "[%d/%d] %s\n", i+1, len(checks), c.name)
		if !c.run(o, out) {
			allPass = false
			break
		}
	}

	fmt.Fprintln(out)
	if allPass {
		fmt.Fprintln(out, "All checks passed!")
		return 0
	}
	fmt.Fprintln(out, "Some checks failed. See details above.")
	return 1
}

// InterruptExits makes Ctrl+C end an interactive doctor run immediately.
func InterruptExits() {
	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		resetTerminal()
		println("\nInterrupted")
		os.Exit(1)
	}()
}

func checkDevices(o Options, out io.Writer) bool {
	devices, err := audio.NewCatalog(o.Audio).ListInputDevices()
	if err != nil {
		fmt.Fprintf(out, "  FAIL: %v\n", err)
		return false
	}
	if len(devices) == 0 {
		fmt.Fprintln(out, "  FAIL: no capture devices found")
		return false
	}
	for _, d := range devices {
		mark := " "
		if d.IsDefault {
			mark = "*"
		}
		fmt.Fprintf(out, "  %s %s\n", mark, d.Name)
	}
	fmt.Fprintf(out, "  PASS: %d input device(s)\n", len(devices))
	return true
}

func checkInputDevice(o Options, out io.Writer) bool {
	dev, err := audio.NewCatalog(o.Audio).Resolve(o.Device)
	if err != nil {
		fmt.Fprintf(out, "  FAIL: %v\n", err)
		return false
	}
	if audio.IsBluetooth(dev.Name) {
		fmt.Fprintf(out, "  Warning: %s looks like a Bluetooth headset; capture quality may be reduced\n", dev.Name)
	}
	fmt.Fprintf(out, "  PASS: using %s\n", dev.Name)
	return true
}

func checkCapture(o Options, out io.Writer) bool {
	dur := o.CaptureFor
	if dur <= 0 {
		dur = time.Second
	}

	sess := capture.NewSession(o.Audio)
	if err := sess.Start(o.Device); err != nil {
		fmt.Fprintf(out, "  FAIL: cannot start capture: %v\n", err)
		return false
	}
	fmt.Fprintf(out, "  Recording %s...\n", dur)
	time.Sleep(dur)

	wav, err := sess.Stop()
	if err != nil {
		fmt.Fprintf(out, "  FAIL: cannot stop capture: %v\n", err)
		return false
	}
	samples, rate, err := encoder.DecodeWAV(wav)
	if err != nil {
		fmt.Fprintf(out, "  FAIL: WAV round-trip: %v\n", err)
		return false
	}
	if len(samples) == 0 {
		fmt.Fprintln(out, "  FAIL: no audio captured")
		return false
	}
	if audio.MostlySilent(samples, rate) {
		fmt.Fprintln(out, "  Warning: recording is mostly silent; check the microphone level")
	}
	fmt.Fprintf(out, "  PASS: %d frames at %d Hz (%.1f KB WAV)\n", len(samples), rate, float64(len(wav))/1024)
	return true
}

func checkHotkey(o Options, out io.Writer) bool {
	msg, err := hotkey.Diagnose(*o.Combo)
	if err != nil {
		fmt.Fprintf(out, "  FAIL: %v\n", err)
		return false
	}
	fmt.Fprintf(out, "  %s\n", msg)
	if o.Hotkey == nil {
		fmt.Fprintln(out, "  PASS: hotkey available")
		return true
	}

	timeout := o.PressTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if err := o.Hotkey.Register(); err != nil {
		fmt.Fprintf(out, "  FAIL: could not register hotkey: %v\n", err)
		return false
	}
	defer o.Hotkey.Unregister()

	fmt.Fprintf(out, "Press %s...\n", o.Combo)
	select {
	case <-o.Hotkey.Keydown():
		select {
		case <-o.Hotkey.Keyup():
		case <-time.After(5 * time.Second):
		}
		// The key press may leave the terminal in raw mode.
		resetTerminal()
		fmt.Fprintln(out, "  PASS: hotkey detected")
		return true
	case <-time.After(timeout):
		fmt.Fprintln(out, "  FAIL: timeout waiting for hotkey")
		return false
	}
}

func checkClipboard(_ Options, out io.Writer) bool {
	if clipboard.Unsupported() {
		fmt.Fprintln(out, "  FAIL: no clipboard utility found (install xclip, xsel or wl-clipboard)")
		return false
	}
	msg, err := clipboard.Verify()
	if err != nil {
		fmt.Fprintf(out, "  FAIL: %v\n", err)
		return false
	}
	fmt.Fprintf(out, "  PASS: %s\n", msg)
	return true
}
