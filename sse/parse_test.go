package sse

import (
	"errors"
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestParseBlock(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  Event
		err   error
	}{
		{
			name:  "user",
			block: `data: {"type":"user","text":"hi","confidence":0.9,"timestamp":"T"}`,
			want:  &UserEvent{Text: "hi", Confidence: 0.9, Timestamp: "T"},
		},
		{
			name:  "assistant",
			block: `data: {"type":"openclaw","text":"ok","done":true,"timestamp":"T"}`,
			want:  &AssistantEvent{Text: "ok", Done: true, Timestamp: "T"},
		},
		{
			name:  "system with message",
			block: `data: {"type":"system","status":"error","message":"gateway down","timestamp":"T"}`,
			want:  &SystemEvent{Status: "error", Message: strPtr("gateway down"), Timestamp: "T"},
		},
		{
			name:  "system null message",
			block: `data: {"type":"system","status":"idle","message":null,"timestamp":"T"}`,
			want:  &SystemEvent{Status: "idle", Timestamp: "T"},
		},
		{
			name: "last data line wins",
			block: "data: {\"type\":\"user\",\"text\":\"first\",\"confidence\":1,\"timestamp\":\"T\"}\n" +
				"data: {\"type\":\"user\",\"text\":\"second\",\"confidence\":1,\"timestamp\":\"T\"}",
			want: &UserEvent{Text: "second", Confidence: 1, Timestamp: "T"},
		},
		{
			name:  "event line does not select variant",
			block: "event: user\ndata: {\"type\":\"system\",\"status\":\"ok\",\"timestamp\":\"T\"}",
			want:  &SystemEvent{Status: "ok", Timestamp: "T"},
		},
		{
			name:  "comments and padding",
			block: "\n  : ping  \n   data:   {\"type\":\"openclaw\",\"text\":\"\",\"done\":false,\"timestamp\":\"T\"}   \n",
			want:  &AssistantEvent{Timestamp: "T"},
		},
		{
			name:  "extra fields ignored",
			block: `data: {"type":"user","text":"x","confidence":0.5,"timestamp":"T","lang":"en"}`,
			want:  &UserEvent{Text: "x", Confidence: 0.5, Timestamp: "T"},
		},
		{name: "no data line", block: "event: user\n: comment", err: ErrMissingDataLine},
		{name: "empty block", block: "", err: ErrMissingDataLine},
		{name: "invalid json", block: "data: {", err: ErrMalformedPayload},
		{name: "empty payload", block: "data:", err: ErrMalformedPayload},
		{name: "missing type", block: `data: {"text":"hi","timestamp":"T"}`, err: ErrMalformedPayload},
		{name: "unknown type", block: `data: {"type":"assistant","text":"hi","done":true,"timestamp":"T"}`, err: ErrMalformedPayload},
		{name: "missing timestamp", block: `data: {"type":"user","text":"hi","confidence":0.9}`, err: ErrMalformedPayload},
		{name: "missing done", block: `data: {"type":"openclaw","text":"hi","timestamp":"T"}`, err: ErrMalformedPayload},
		{name: "wrong field type", block: `data: {"type":"user","text":"hi","confidence":"high","timestamp":"T"}`, err: ErrMalformedPayload},
		{name: "missing status", block: `data: {"type":"system","timestamp":"T"}`, err: ErrMalformedPayload},
		{name: "miscased type key", block: `data: {"TYPE":"user","text":"hi","confidence":0.9,"timestamp":"T"}`, err: ErrMalformedPayload},
		{name: "miscased field keys", block: `data: {"type":"user","Text":"hi","CONFIDENCE":0.9,"Timestamp":"T"}`, err: ErrMalformedPayload},
		{name: "miscased done", block: `data: {"type":"openclaw","text":"hi","Done":true,"timestamp":"T"}`, err: ErrMalformedPayload},
		{name: "miscased status", block: `data: {"type":"system","Status":"idle","timestamp":"T"}`, err: ErrMalformedPayload},
		{name: "null required field", block: `data: {"type":"user","text":null,"confidence":0.9,"timestamp":"T"}`, err: ErrMalformedPayload},
		{name: "non-string type", block: `data: {"type":1,"text":"hi","timestamp":"T"}`, err: ErrMalformedPayload},
		{name: "array payload", block: `data: ["user"]`, err: ErrMalformedPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBlock(tt.block)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("err = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBlock: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSystemMessageOr(t *testing.T) {
	e := &SystemEvent{Status: "idle"}
	if got := e.MessageOr("-"); got != "-" {
		t.Errorf("got %q", got)
	}
	e.Message = strPtr("hello")
	if got := e.MessageOr("-"); got != "hello" {
		t.Errorf("got %q", got)
	}
}
