package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"clawvoice/doctor"
	"clawvoice/hotkey"
	"clawvoice/log"
)

func newDoctorCmd(a *app) *cobra.Command {
	var (
		captureFor time.Duration
		skipKey    bool
		clip       bool
	)
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run system diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doctor.InterruptExits()

			ctx, err := newAudioContext()
			if err != nil {
				return err
			}
			defer ctx.Close()

			o := doctor.Options{
				Audio:      ctx,
				Device:     a.cfg.MicrophoneDeviceID,
				CaptureFor: captureFor,
				Clipboard:  clip || a.cfg.CopyFinalResponse,
				LogDir:     log.Dir(),
			}
			if !skipKey {
				combo, err := hotkey.ParseCombo(a.cfg.PushToTalkHotkey)
				if err != nil {
					return err
				}
				o.Combo = &combo
				if hk, err := newHotkey(combo); err == nil {
					o.Hotkey = hk
				}
			}
			if code := doctor.Run(o, cmd.OutOrStdout()); code != 0 {
				exitWith(code)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&captureFor, "capture", time.Second, "length of the test recording")
	cmd.Flags().BoolVar(&skipKey, "skip-hotkey", false, "skip the push-to-talk check")
	cmd.Flags().BoolVar(&clip, "clipboard", false, "check clipboard access")
	return cmd
}

// exitWith ends the process with code after flushing the logs.
func exitWith(code int) {
	log.Close()
	os.Exit(code)
}
