package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"clawvoice/clipboard"
	"clawvoice/log"
	"clawvoice/shutdown"
	"clawvoice/sse"
)

func newListenCmd(a *app) *cobra.Command {
	var (
		chunk     int
		copyFinal bool
	)
	cmd := &cobra.Command{
		Use:   "listen [file]",
		Short: "Follow a gateway event stream from a file or stdin",
		Long: "Read a server-sent event stream (event:/data: blocks separated by a blank line)\n" +
			"and print each user, openclaw and system event as it arrives.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("copy") {
				a.cfg.CopyFinalResponse = copyFinal
			}
			in := cmd.InOrStdin()
			source := "stdin"
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in, source = f, args[0]
			}

			ctx, stop := shutdown.Context(cmd.Context())
			defer stop()
			go func() {
				<-ctx.Done()
				// Unblocks a Read waiting on a pipe or terminal.
				if c, ok := in.(io.Closer); ok {
					c.Close()
				}
			}()

			return a.listen(ctx, in, source, chunk, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&chunk, "chunk", sse.DefaultChunkSize, "read size in bytes")
	cmd.Flags().BoolVar(&copyFinal, "copy", false, "copy the final assistant response to the clipboard")
	return cmd
}

func (a *app) listen(ctx context.Context, in io.Reader, source string, chunk int, out io.Writer) error {
	sink := newConsoleSink(out)
	id := uuid.NewString()
	log.Debugf("stream %s from %s", id, source)

	start := time.Now()
	stats, err := sse.Pump(ctx, in, chunk, func(ev sse.Event) {
		dispatch(sink, ev)
	})
	log.StreamSummary(log.StreamStats{
		Source:    source,
		Chunks:    stats.Chunks,
		Bytes:     stats.Bytes,
		Events:    stats.Events,
		Skipped:   stats.Skipped,
		Pending:   stats.Pending,
		ElapsedMs: float64(time.Since(start).Microseconds()) / 1000,
	})
	if stats.Skipped > 0 {
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("(%d malformed block(s) skipped)", stats.Skipped)))
	}
	if err != nil && ctx.Err() == nil {
		log.Error("event_stream_failed")
		return fmt.Errorf("reading %s: %w", source, err)
	}

	final, ok := sink.Final()
	if !ok || !a.cfg.CopyFinalResponse {
		return nil
	}
	if err := clipboard.Copy(final); err != nil {
		log.Warnf("clipboard copy failed: %v", err)
		fmt.Fprintf(out, "Warning: could not copy response: %v\n", err)
		return nil
	}
	fmt.Fprintln(out, dimStyle.Render("(response copied)"))
	return nil
}
