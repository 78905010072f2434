package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitWriter_Levels(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, false)
	log := New("test")
	log.Debug("hidden")
	log.Info("shown", "n", 3)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered at info level: %q", out)
	}
	if !strings.Contains(out, "component=test") || !strings.Contains(out, "n=3") {
		t.Errorf("expected component and attrs in output, got %q", out)
	}

	buf.Reset()
	InitWriter(&buf, true)
	New("test").With("run", "x").Debug("visible")
	if !strings.Contains(buf.String(), "visible") || !strings.Contains(buf.String(), "run=x") {
		t.Errorf("expected debug output when verbose, got %q", buf.String())
	}
}
