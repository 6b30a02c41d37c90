package logger

import "testing"

func TestNew_Levels(t *testing.T) {
	for _, lvl := range []string{"", "debug", "info", "warn", "error"} {
		l, err := New(lvl, false)
		if err != nil {
			t.Fatalf("level %q: unexpected error: %v", lvl, err)
		}
		_ = l.Sync()
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("loud", true); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
