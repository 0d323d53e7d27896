package main

import (
	"bytes"
	"strings"
	"testing"

	"clawvoice/sse"
)

type recordingSink struct {
	got []string
}

func (r *recordingSink) User(e *sse.UserEvent)           { r.got = append(r.got, "user:"+e.Text) }
func (r *recordingSink) Assistant(e *sse.AssistantEvent) { r.got = append(r.got, "openclaw:"+e.Text) }
func (r *recordingSink) System(e *sse.SystemEvent)       { r.got = append(r.got, "system:"+e.Status) }

func TestDispatchRoutesByType(t *testing.T) {
	var r recordingSink
	for _, ev := range []sse.Event{
		&sse.UserEvent{Text: "hello"},
		&sse.AssistantEvent{Text: "world", Done: true},
		&sse.SystemEvent{Status: "connected"},
	} {
		dispatch(&r, ev)
	}
	want := []string{"user:hello", "openclaw:world", "system:connected"}
	if strings.Join(r.got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", r.got, want)
	}
}

func TestConsoleSinkFinalResponse(t *testing.T) {
	var out bytes.Buffer
	s := newConsoleSink(&out)

	if _, ok := s.Final(); ok {
		t.Fatal("final reported before any assistant message")
	}
	s.Assistant(&sse.AssistantEvent{Text: "thinking"})
	if _, ok := s.Final(); ok {
		t.Fatal("partial message reported as final")
	}
	s.Assistant(&sse.AssistantEvent{Text: "first answer", Done: true})
	s.Assistant(&sse.AssistantEvent{Text: "second answer", Done: true})
	if got, ok := s.Final(); !ok || got != "second answer" {
		t.Errorf("Final() = %q, %v", got, ok)
	}
}

func TestConsoleSinkLines(t *testing.T) {
	var out bytes.Buffer
	s := newConsoleSink(&out)
	msg := "ready"
	s.User(&sse.UserEvent{Text: "hello", Confidence: 0.95})
	s.System(&sse.SystemEvent{Status: "connected", Message: &msg})
	s.System(&sse.SystemEvent{Status: "idle"})

	got := out.String()
	for _, want := range []string{"you:", "hello", "(95%)", "[connected] ready", "[idle] -"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
