package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"clawvoice/audio"
	"clawvoice/encoder"
)

func newInspectCmd(*app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.wav>",
		Short: "Decode a recording and report its length and speech ratio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			samples, rate, err := encoder.DecodeWAV(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if rate == 0 {
				return fmt.Errorf("%s: %w: zero sample rate", args[0], encoder.ErrEncoding)
			}
			dur := time.Duration(len(samples)) * time.Second / time.Duration(rate)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:     %s (%.1f KB)\n", args[0], float64(len(data))/1024)
			fmt.Fprintf(out, "format:   %d-bit float, mono, %d Hz\n", encoder.WAVBitsPerSample, rate)
			fmt.Fprintf(out, "frames:   %d\n", len(samples))
			fmt.Fprintf(out, "duration: %s\n", dur.Round(time.Millisecond))
			fmt.Fprintf(out, "level:    %.4f RMS\n", audio.RMS(samples))
			if ratio, err := audio.SpeechRatio(samples, rate); err != nil {
				fmt.Fprintf(out, "speech:   n/a (%v)\n", err)
			} else {
				fmt.Fprintf(out, "speech:   %.0f%%\n", ratio*100)
			}
			return nil
		},
	}
}
