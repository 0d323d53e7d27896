package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"clawvoice/audio"
	"clawvoice/log"
)

func newDevicesCmd(a *app) *cobra.Command {
	var setup, asJSON bool
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List capture devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := newAudioContext()
			if err != nil {
				return fmt.Errorf("initializing audio: %w", err)
			}
			defer ctx.Close()

			devices, err := audio.NewCatalog(ctx).ListInputDevices()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if setup {
				return a.pickDevice(devices, out)
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(devices)
			}
			printDevices(out, devices, a.cfg.MicrophoneDeviceID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&setup, "setup", false, "pick a microphone and save it to the settings file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the device list as JSON")
	return cmd
}

func printDevices(out io.Writer, devices []audio.InputDevice, selected string) {
	if len(devices) == 0 {
		fmt.Fprintln(out, "No capture devices found.")
		return
	}
	for _, d := range devices {
		mark := " "
		if d.IsDefault {
			mark = "*"
		}
		var tags string
		if selected != "" && (d.ID == selected || d.Name == selected) {
			tags += " (selected)"
		}
		if audio.IsBluetooth(d.Name) {
			tags += " (BT!)"
		}
		fmt.Fprintf(out, "%s %s%s\n", mark, d.Name, tags)
		fmt.Fprintf(out, "    id: %s\n", d.ID)
	}
}

// pickDevice runs the interactive picker and persists the choice by ID.
func (a *app) pickDevice(devices []audio.InputDevice, out io.Writer) error {
	dev, err := audio.SelectDevice(devices, out)
	if errors.Is(err, audio.ErrSelectionCancelled) {
		fmt.Fprintln(out, "Selection cancelled.")
		return nil
	}
	if err != nil {
		return err
	}
	a.cfg.MicrophoneDeviceID = dev.ID
	if err := a.cfg.Save(a.cfgPath); err != nil {
		return err
	}
	log.Infof("microphone set to %s (%s)", dev.Name, dev.ID)
	fmt.Fprintf(out, "Using %s (saved to %s)\n", dev.Name, a.cfgPath)
	return nil
}
