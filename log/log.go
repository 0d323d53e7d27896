package log

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	diagFileName       = "diagnostics_log.txt"
	transcriptFileName = "transcript_log.txt"
	crashFileName      = "crash_log.txt"
	appDir             = "clawvoice"
	timeFormat         = "2006-01-02 15:04:05"
)

var (
	diagLog        zerolog.Logger
	diagFile       *os.File
	transcriptFile *os.File
	crashFile      *os.File
	logMu          sync.Mutex
	logReady       bool
	pid            int
	dir            string
	level          = zerolog.InfoLevel
)

func absFromWd(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

// ResolveDir picks the log directory: flag, then CLAWVOICE_LOG_PATH, then the
// OS default. Relative paths are taken from the working directory.
func ResolveDir(flagPath string) (string, error) {
	if flagPath != "" {
		return absFromWd(flagPath)
	}
	if envPath := os.Getenv("CLAWVOICE_LOG_PATH"); envPath != "" {
		return absFromWd(envPath)
	}
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func ensureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

// SetDebug enables debug-level diagnostics. Call before Init.
func SetDebug(on bool) {
	if on {
		level = zerolog.DebugLevel
	} else {
		level = zerolog.InfoLevel
	}
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := ensureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagFile, err = os.OpenFile(filepath.Join(dir, diagFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	transcriptFile, err = os.OpenFile(filepath.Join(dir, transcriptFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: timeFormat,
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).Level(level).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

// InitCrashOutput routes fatal runtime errors of this process to
// crash_log.txt in the log directory.
func InitCrashOutput() error {
	logMu.Lock()
	defer logMu.Unlock()

	f, err := os.OpenFile(filepath.Join(dir, crashFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	fmt.Fprintf(f, "\n=== Session %s [pid=%d] ===\n", time.Now().Format(timeFormat), os.Getpid())
	if err := debug.SetCrashOutput(f, debug.CrashOptions{}); err != nil {
		f.Close()
		return err
	}
	crashFile = f
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if transcriptFile != nil {
		transcriptFile.Close()
		transcriptFile = nil
	}
	if crashFile != nil {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		crashFile.Close()
		crashFile = nil
	}
	logReady = false
}

func Debugf(format string, args ...any) {
	if logReady {
		diagLog.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func RecordingStart(device, format string, channels, sampleRate uint32, mode string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("device", device).
		Str("format", format).
		Uint32("channels", channels).
		Uint32("rate", sampleRate).
		Str("mode", mode).
		Msg("recording_start")
}

type RecordingStats struct {
	ID          string
	Frames      int
	SampleRate  uint32
	AudioS      float64
	WavKB       float64
	FlacKB      float64
	SpeechRatio float64
	Path        string
}

func RecordingStop(s RecordingStats) {
	if !logReady {
		return
	}
	ev := diagLog.Info().
		Str("id", s.ID).
		Int("frames", s.Frames).
		Uint32("rate", s.SampleRate).
		Float64("audio_s", s.AudioS).
		Float64("wav_kb", s.WavKB).
		Float64("speech_ratio", s.SpeechRatio)
	if s.FlacKB > 0 {
		ev = ev.Float64("flac_kb", s.FlacKB)
	}
	if s.Path != "" {
		ev = ev.Str("path", s.Path)
	}
	ev.Msg("recording_stop")
}

type StreamStats struct {
	Source    string
	Chunks    int
	Bytes     int64
	Events    int
	Skipped   int
	Pending   int
	ElapsedMs float64
}

func StreamSummary(s StreamStats) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("source", s.Source).
		Int("chunks", s.Chunks).
		Int64("bytes", s.Bytes).
		Int("events", s.Events).
		Int("skipped", s.Skipped).
		Int("pending", s.Pending).
		Float64("elapsed_ms", s.ElapsedMs).
		Msg("event_stream")
}

// TranscriptLine appends one "time [pid] who: text" line to transcript_log.txt.
func TranscriptLine(who, text string) {
	if !logReady {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	if transcriptFile == nil {
		return
	}
	line := fmt.Sprintf("%s\t[%d]\t%s: %s\n", time.Now().Format(timeFormat), pid, who, text)
	transcriptFile.WriteString(line)
}
