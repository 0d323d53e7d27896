package hotkey

import (
	"errors"
	"testing"
)

func TestParseCombo(t *testing.T) {
	tests := []struct {
		in   string
		want Combo
		str  string
	}{
		{"Ctrl+Shift+Space", Combo{Ctrl: true, Shift: true, Key: "Space"}, "Ctrl+Shift+Space"},
		{"ctrl + shift + space", Combo{Ctrl: true, Shift: true, Key: "Space"}, "Ctrl+Shift+Space"},
		{"Shift+Ctrl+r", Combo{Ctrl: true, Shift: true, Key: "R"}, "Ctrl+Shift+R"},
		{"Control+F9", Combo{Ctrl: true, Key: "F9"}, "Ctrl+F9"},
		{"Alt+5", Combo{Alt: true, Key: "5"}, "Alt+5"},
		{"Option+Shift+f12", Combo{Shift: true, Alt: true, Key: "F12"}, "Shift+Alt+F12"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCombo(tt.in)
			if err != nil {
				t.Fatalf("ParseCombo: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
			if got.String() != tt.str {
				t.Errorf("String() = %q, want %q", got.String(), tt.str)
			}
		})
	}
}

func TestParseComboInvalid(t *testing.T) {
	for _, in := range []string{"", "Space", "Ctrl+", "Ctrl+Shift", "Meta+Space", "Ctrl+F13", "Ctrl+F0", "Ctrl+F01", "Ctrl+Enter"} {
		if _, err := ParseCombo(in); !errors.Is(err, ErrInvalidCombo) {
			t.Errorf("ParseCombo(%q) err = %v, want ErrInvalidCombo", in, err)
		}
	}
}

func TestNewRejectsUnknownKey(t *testing.T) {
	if _, err := New(Combo{Ctrl: true, Key: "Enter"}); !errors.Is(err, ErrInvalidCombo) {
		t.Fatalf("err = %v, want ErrInvalidCombo", err)
	}
}
