package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"clawvoice/audio"
	"clawvoice/beep"
	"clawvoice/capture"
	"clawvoice/encoder"
	"clawvoice/hotkey"
	"clawvoice/log"
	"clawvoice/shutdown"
)

type recordOptions struct {
	device     string
	setup      bool
	output     string
	flac       bool
	pushToTalk bool
	hybrid     bool
	longPress  time.Duration
	duration   time.Duration
	quiet      bool
	fake       string
}

func newRecordCmd(a *app) *cobra.Command {
	var o recordOptions
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record the microphone to a WAV file",
		Long: "Record until Ctrl+C (or --duration) and write a 32-bit float mono WAV.\n" +
			"With --push-to-talk the configured hotkey starts and stops the recording.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("flac") {
				a.cfg.ArchiveFLAC = o.flac
			}
			return a.record(o, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.device, "device", "d", "", "input device ID or name (default: configured microphone, then system default)")
	f.BoolVar(&o.setup, "setup", false, "pick the input device interactively first")
	f.StringVarP(&o.output, "output", "o", "", "WAV path (default: recordings_dir/recording-<id>.wav)")
	f.BoolVar(&o.flac, "flac", false, "also archive a 16-bit FLAC copy")
	f.BoolVar(&o.pushToTalk, "push-to-talk", false, "hold the hotkey to record")
	f.BoolVar(&o.hybrid, "hybrid", false, "push-to-talk with tap-to-toggle: tap starts, next press stops")
	f.DurationVar(&o.longPress, "longpress", 350*time.Millisecond, "hold threshold separating a tap from push-to-talk")
	f.DurationVar(&o.duration, "duration", 0, "stop after this long (0: until stopped)")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "no cue tones")
	f.StringVar(&o.fake, "fake", "", "replay a WAV file instead of the microphone")
	f.MarkHidden("fake")
	return cmd
}

func (a *app) openAudio(o recordOptions) (audio.Context, error) {
	if o.fake == "" {
		return newAudioContext()
	}
	data, err := os.ReadFile(o.fake)
	if err != nil {
		return nil, err
	}
	samples, rate, err := encoder.DecodeWAV(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", o.fake, err)
	}
	return audio.NewReplayContext(samples, rate, true), nil
}

func (a *app) record(o recordOptions, out io.Writer) error {
	if o.quiet || o.fake != "" {
		beep.Disable()
	}
	ctx, err := a.openAudio(o)
	if err != nil {
		return fmt.Errorf("initializing audio: %w", err)
	}
	defer ctx.Close()

	catalog := audio.NewCatalog(ctx)
	selector := o.device
	if selector == "" {
		selector = a.cfg.MicrophoneDeviceID
	}
	if o.setup {
		devices, err := catalog.ListInputDevices()
		if err != nil {
			return err
		}
		if err := a.pickDevice(devices, out); err != nil {
			return err
		}
		selector = a.cfg.MicrophoneDeviceID
	}
	dev, err := catalog.Resolve(selector)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, deviceLineText(dev))

	var (
		keyStop  <-chan struct{}
		isToggle = func() bool { return false }
		hybrid   *hotkey.Hybrid
		mode     = "manual"
	)
	if o.pushToTalk || o.hybrid {
		combo, err := hotkey.ParseCombo(a.cfg.PushToTalkHotkey)
		if err != nil {
			return err
		}
		hk, err := newHotkey(combo)
		if err != nil {
			return err
		}
		if err := hk.Register(); err != nil {
			return fmt.Errorf("registering %s: %w", combo, err)
		}
		defer hk.Unregister()

		capture.PrimePermission(ctx)

		if o.hybrid {
			hybrid = hotkey.NewHybrid(hk, o.longPress)
			fmt.Fprintf(out, "Tap or hold %s to record...\n", combo)
			mode = string((<-hybrid.Start()).Mode)
			keyStop = hybrid.StopChan()
			isToggle = hybrid.IsToggle
		} else {
			fmt.Fprintf(out, "Hold %s to record...\n", combo)
			<-hk.Keydown()
			keyStop = hk.Keyup()
			mode = string(hotkey.ModePTT)
		}
	}

	sess := capture.NewSession(ctx)
	vad, err := audio.NewVAD()
	if err != nil {
		log.Warnf("voice detection unavailable, silence check off: %v", err)
	} else {
		reported := false
		sess.SetTap(func(mono []float32, rate uint32) {
			if err := vad.Process(mono, rate); err != nil && !reported {
				reported = true
				log.Warnf("voice detection: %v", err)
			}
		})
	}
	if err := sess.Start(dev.ID); err != nil {
		return err
	}
	if cfg, ok := sess.StreamConfig(); ok {
		log.RecordingStart(dev.Name, cfg.Format.String(), cfg.Channels, cfg.SampleRate, mode)
	}
	beep.Play(beep.CueStart)
	if keyStop == nil {
		fmt.Fprintln(out, "Recording... press Ctrl+C to stop")
	} else {
		fmt.Fprintln(out, "Recording...")
	}

	sigStop, release := shutdown.Requested()
	defer release()

	var timerStop chan struct{}
	if o.duration > 0 {
		timerStop = make(chan struct{})
		t := time.AfterFunc(o.duration, func() { close(timerStop) })
		defer t.Stop()
	}

	done := make(chan struct{})
	autoClose := make(chan struct{})
	if vad != nil {
		go watchSilence(vad.HasSpeechTick, isToggle, done, autoClose, out)
	}

	<-mergeStop(keyStop, sigStop, timerStop, autoClose)
	close(done)

	select {
	case <-autoClose:
		if hybrid != nil {
			hybrid.Cancel()
		}
	default:
	}

	rec, err := sess.StopRecording()
	if err != nil {
		return err
	}
	beep.Play(beep.CueStop)
	return a.saveRecording(rec, o.output, out)
}

// watchSilence ticks the silence monitor from voice detection until done.
func watchSilence(hasSpeech func() bool, isToggle func() bool, done <-chan struct{}, autoClose chan<- struct{}, out io.Writer) {
	mon := audio.NewSilenceMonitor(isToggle)
	ticker := time.NewTicker(audio.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			switch ev := mon.Tick(hasSpeech()); ev {
			case audio.SilenceWarn, audio.SilenceRepeat:
				log.Infof("silence_%s", ev)
				fmt.Fprintln(out, "  no voice detected")
				beep.Play(beep.CueSilence)
			case audio.SilenceWarnClear:
				log.Debugf("silence_%s", ev)
			case audio.SilenceAutoClose:
				log.Info("silence_auto_close")
				fmt.Fprintln(out, "  silent for 30s, stopping")
				close(autoClose)
				return
			}
		}
	}
}

func (a *app) saveRecording(rec capture.Recording, output string, out io.Writer) error {
	wav, err := encoder.EncodeWAV(rec.Samples, rec.SampleRate)
	if err != nil {
		return err
	}
	id := uuid.NewString()
	path := output
	if path == "" {
		path = filepath.Join(a.cfg.RecordingsDir, "recording-"+id+".wav")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, wav, 0644); err != nil {
		return fmt.Errorf("writing recording: %w", err)
	}

	ratio, err := audio.SpeechRatio(rec.Samples, rec.SampleRate)
	if err != nil {
		log.Debugf("speech ratio: %v", err)
	}
	stats := log.RecordingStats{
		ID:          id,
		Frames:      len(rec.Samples),
		SampleRate:  rec.SampleRate,
		AudioS:      rec.Duration().Seconds(),
		WavKB:       float64(len(wav)) / 1024,
		SpeechRatio: ratio,
		Path:        path,
	}

	if a.cfg.ArchiveFLAC && len(rec.Samples) > 0 {
		flac, err := encoder.EncodeFLAC(rec.Samples, rec.SampleRate)
		if err != nil {
			return err
		}
		flacPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".flac"
		if err := os.WriteFile(flacPath, flac, 0644); err != nil {
			return fmt.Errorf("writing archive: %w", err)
		}
		stats.FlacKB = float64(len(flac)) / 1024
		fmt.Fprintf(out, "Archived %s (%.1f KB)\n", flacPath, stats.FlacKB)
	}
	log.RecordingStop(stats)

	fmt.Fprintf(out, "Saved %s: %.1fs, %d Hz, %.1f KB\n", path, stats.AudioS, rec.SampleRate, stats.WavKB)
	if len(rec.Samples) > 0 && audio.MostlySilent(rec.Samples, rec.SampleRate) {
		log.Warn("recording_mostly_silent")
		fmt.Fprintln(out, "Warning: recording is mostly silent; check the microphone level")
	}
	return nil
}

func deviceLineText(dev audio.DeviceInfo) string {
	suffix := ""
	if audio.IsBluetooth(dev.Name) {
		suffix = " (BT!)"
	}
	return "mic: " + dev.Name + suffix
}
