//go:build linux

package hotkey

import "testing"

func TestComboStateCtrlShiftSpace(t *testing.T) {
	s := comboState{combo: Combo{Ctrl: true, Shift: true, Key: "Space"}, key: keyCodes["Space"]}
	space := keyCodes["Space"]

	if down, _ := s.event(space, keyPress); down {
		t.Fatal("space alone triggered the combo")
	}
	s.event(space, keyRelease)

	s.event(keyLCtrl, keyPress)
	s.event(keyRShift, keyPress)
	if down, _ := s.event(space, keyPress); !down {
		t.Fatal("combo press not reported")
	}
	// Autorepeat (value 2) is ignored.
	if down, up := s.event(space, 2); down || up {
		t.Fatal("autorepeat reported as an edge")
	}
	// Releasing a modifier first still ends the combo on key release.
	s.event(keyLCtrl, keyRelease)
	if _, up := s.event(space, keyRelease); !up {
		t.Fatal("combo release not reported")
	}
}

func TestComboStateExtraModifierBlocks(t *testing.T) {
	s := comboState{combo: Combo{Ctrl: true, Key: "F9"}, key: keyCodes["F9"]}

	s.event(keyLCtrl, keyPress)
	s.event(keyLAlt, keyPress)
	if down, _ := s.event(keyCodes["F9"], keyPress); down {
		t.Fatal("Ctrl+Alt+F9 matched Ctrl+F9")
	}
	s.event(keyCodes["F9"], keyRelease)
	s.event(keyLAlt, keyRelease)
	if down, _ := s.event(keyCodes["F9"], keyPress); !down {
		t.Fatal("Ctrl+F9 not reported")
	}
}

func TestKeyCodesCoverCombos(t *testing.T) {
	for _, k := range []string{"Space", "A", "Z", "0", "9", "F1", "F12"} {
		if _, ok := keyCodes[k]; !ok {
			t.Errorf("no keycode for %q", k)
		}
	}
}
