//go:build linux

package audio

import (
	"testing"

	"github.com/jfreymuth/pulse/proto"
)

func TestRecordChannels(t *testing.T) {
	tests := []struct {
		name string
		m    proto.ChannelMap
		want uint32
	}{
		{"empty", nil, 1},
		{"mono", proto.ChannelMap{0}, 1},
		{"stereo", proto.ChannelMap{1, 2}, 2},
		{"surround", proto.ChannelMap{1, 2, 3, 7}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := recordChannels(tt.m); got != tt.want {
				t.Errorf("recordChannels(%v) = %d, want %d", tt.m, got, tt.want)
			}
		})
	}
}
