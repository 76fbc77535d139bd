package logging

import "testing"

func TestSanitizeRedactsSecrets(t *testing.T) {
	t.Parallel()

	out := sanitize([]any{"password", "hunter2", "bill", 7, "dangling"})
	if len(out) != 5 {
		t.Fatalf("unexpected length %d", len(out))
	}
	if out[1] != "[redacted]" {
		t.Fatalf("password not redacted: %v", out[1])
	}
	if out[3] != 7 {
		t.Fatalf("regular value changed: %v", out[3])
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	t.Parallel()

	var l *Logger
	l.Info("ignored", "k", "v")
	l.With("component", "x").Warn("still ignored")
}
