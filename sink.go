package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"clawvoice/log"
	"clawvoice/sse"
)

// EventSink is the display layer for gateway events.
type EventSink interface {
	User(e *sse.UserEvent)
	Assistant(e *sse.AssistantEvent)
	System(e *sse.SystemEvent)
}

func dispatch(sink EventSink, ev sse.Event) {
	switch e := ev.(type) {
	case *sse.UserEvent:
		sink.User(e)
	case *sse.AssistantEvent:
		sink.Assistant(e)
	case *sse.SystemEvent:
		sink.System(e)
	}
}

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	systemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// consoleSink prints one styled line per event and mirrors the conversation
// to the transcript log.
type consoleSink struct {
	out io.Writer

	mu    sync.Mutex
	final string
	turns int
}

func newConsoleSink(out io.Writer) *consoleSink {
	return &consoleSink{out: out}
}

func (s *consoleSink) User(e *sse.UserEvent) {
	fmt.Fprintf(s.out, "%s %s %s\n",
		userStyle.Render("you:"),
		e.Text,
		dimStyle.Render(fmt.Sprintf("(%.0f%%)", e.Confidence*100)))
	log.TranscriptLine("user", e.Text)
}

func (s *consoleSink) Assistant(e *sse.AssistantEvent) {
	fmt.Fprintf(s.out, "%s %s\n", assistantStyle.Render("openclaw:"), e.Text)
	log.TranscriptLine("openclaw", e.Text)
	if !e.Done {
		return
	}
	s.mu.Lock()
	s.final = e.Text
	s.turns++
	s.mu.Unlock()
}

func (s *consoleSink) System(e *sse.SystemEvent) {
	line := fmt.Sprintf("[%s] %s", e.Status, e.MessageOr("-"))
	if e.Status == "error" {
		fmt.Fprintln(s.out, errorStyle.Render(line))
		log.Warnf("gateway error: %s", e.MessageOr(""))
		return
	}
	fmt.Fprintln(s.out, systemStyle.Render(line))
}

// Final is the text of the last assistant message marked done, and whether
// one arrived.
func (s *consoleSink) Final() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.final, s.turns > 0
}
