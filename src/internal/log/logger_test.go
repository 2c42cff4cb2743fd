package log

import (
	"bytes"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, f func()) (stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	defer SetOutput(nopWriter{}, nopWriter{})

	f()
	return out.String(), errOut.String()
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestSetVerbose(t *testing.T) {
	originalVerbose := IsVerbose()
	defer SetVerbose(originalVerbose)

	SetVerbose(false)
	stdout, _ := captureOutput(t, func() {
		Debugf("hidden %d", 1)
	})
	if strings.Contains(stdout, "hidden") {
		t.Errorf("Expected debug message to be suppressed, got %q", stdout)
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Fatal("Expected verbose mode to be enabled")
	}
	stdout, _ = captureOutput(t, func() {
		Debugf("visible %d", 2)
	})
	if !strings.Contains(stdout, "visible 2") {
		t.Errorf("Expected debug message in verbose mode, got %q", stdout)
	}
}

func TestLevelsGoToTheRightStream(t *testing.T) {
	tests := []struct {
		name       string
		logFn      func(string, ...interface{})
		wantStdout bool
		wantLevel  string
	}{
		{"info", Infof, true, "INFO"},
		{"warn", Warnf, true, "WARN"},
		{"error", Errorf, false, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr := captureOutput(t, func() {
				tt.logFn("message %s", tt.name)
			})

			target, other := stdout, stderr
			if !tt.wantStdout {
				target, other = stderr, stdout
			}
			if !strings.Contains(target, "message "+tt.name) {
				t.Errorf("Expected message in target stream, got %q", target)
			}
			if !strings.Contains(target, tt.wantLevel) {
				t.Errorf("Expected level %s in output, got %q", tt.wantLevel, target)
			}
			if other != "" {
				t.Errorf("Expected nothing in the other stream, got %q", other)
			}
		})
	}
}

func TestSetForceStdErr(t *testing.T) {
	SetForceStdErr(true)
	defer SetForceStdErr(false)

	stdout, stderr := captureOutput(t, func() {
		Infof("to stderr")
	})
	if stdout != "" {
		t.Errorf("Expected empty stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "to stderr") {
		t.Errorf("Expected message in stderr, got %q", stderr)
	}
}

func TestDisableLogs(t *testing.T) {
	defer func() {
		mu.Lock()
		disableLogs = false
		mu.Unlock()
	}()

	DisableLogs()
	if !IsDisabled() {
		t.Fatal("Expected logs to be disabled")
	}

	stdout, stderr := captureOutput(t, func() {
		Infof("silent")
		Errorf("silent")
		Logger().Info("silent")
	})
	if stdout != "" || stderr != "" {
		t.Errorf("Expected no output, got stdout=%q stderr=%q", stdout, stderr)
	}
}
