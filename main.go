package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"clawvoice/audio"
	"clawvoice/config"
	"clawvoice/hotkey"
	"clawvoice/log"
)

var version = "dev"

// Swapped by tests for fakes.
var (
	newAudioContext = audio.NewContext
	newHotkey       = hotkey.New
)

type globalFlags struct {
	configPath string
	logPath    string
	verbose    bool
	noLog      bool
}

type app struct {
	flags globalFlags
	cfg   *config.Config
	// cfgPath is where the settings were read from and where --setup saves.
	cfgPath string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "clawvoice",
		Short:         "Voice client: record the microphone, follow the gateway's event stream",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			log.Close()
		},
	}
	root.SetVersionTemplate("clawvoice {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "settings file (default: OS config dir/clawvoice/config.yaml)")
	pf.StringVar(&a.flags.logPath, "logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "debug-level diagnostics log")
	pf.BoolVar(&a.flags.noLog, "no-log", false, "do not write log files")
	pf.MarkHidden("no-log")

	root.AddCommand(
		newDevicesCmd(a),
		newRecordCmd(a),
		newListenCmd(a),
		newInspectCmd(a),
		newDoctorCmd(a),
		newConfigCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "clawvoice %s\n", version)
			},
		},
	)
	return root
}

// setup loads settings and opens the log files. Logging failures only warn.
func (a *app) setup() error {
	path := a.flags.configPath
	if path == "" {
		def, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("locating config: %w", err)
		}
		path = def
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.cfgPath = path

	if a.flags.noLog {
		return nil
	}
	logFlag := a.flags.logPath
	if logFlag == "" {
		logFlag = cfg.LogPath
	}
	dir, err := log.ResolveDir(logFlag)
	if err != nil {
		return fmt.Errorf("failed to resolve log directory: %w", err)
	}
	log.SetDir(dir)
	log.SetDebug(a.flags.verbose)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
		return nil
	}
	if err := log.InitCrashOutput(); err != nil {
		log.Warnf("crash log unavailable: %v", err)
	}
	log.Debugf("config %s, log dir %s", path, dir)
	return nil
}

// mergeStop returns a channel that closes when any source fires.
func mergeStop(sources ...<-chan struct{}) chan struct{} {
	out := make(chan struct{})
	var once sync.Once
	for _, s := range sources {
		if s == nil {
			continue
		}
		go func(ch <-chan struct{}) {
			select {
			case <-ch:
				once.Do(func() { close(out) })
			case <-out:
			}
		}(s)
	}
	return out
}

func run() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Errorf("%v", err)
		log.Close()
		os.Exit(1)
	}
}
