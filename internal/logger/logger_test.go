package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestPlainFormatter_ComponentAndFieldOrdering(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		name    string
		data    logrus.Fields
		message string
		want    string
	}{
		{
			name: "with component",
			data: logrus.Fields{
				"component": "dynlog",
				"caller":    "x.go:1",
				"lines":     3,
				"cleared":   true,
			},
			message: "rendered frame",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [dynlog] rendered frame cleared=true lines=3\n",
		},
		{
			name: "without component",
			data: logrus.Fields{
				"caller": "x.go:1",
				"foo":    "bar",
			},
			message: "hello",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] hello foo=bar\n",
		},
		{
			name:    "no fields",
			data:    logrus.Fields{},
			message: "bare",
			want:    "[2025-01-02T03:04:05Z] [INFO] bare\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := &logrus.Entry{
				Logger:  logrus.New(),
				Time:    ts,
				Level:   logrus.InfoLevel,
				Message: tc.message,
				Data:    tc.data,
			}
			out, err := (PlainFormatter{}).Format(entry)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			if got := string(out); got != tc.want {
				t.Fatalf("unexpected format:\nwant: %q\ngot:  %q", tc.want, got)
			}
		})
	}
}

func TestShortenFilePath(t *testing.T) {
	cases := map[string]string{
		"/home/u/src/dynlog/internal/dynlog/log.go": "internal/dynlog/log.go",
		"/home/u/src/dynlog/cmd/dynlog/main.go":     "cmd/dynlog/main.go",
		"/tmp/other.go":                             "other.go",
	}
	for in, want := range cases {
		if got := shortenFilePath(in); got != want {
			t.Fatalf("shortenFilePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSetLevel(t *testing.T) {
	l := logrus.New()
	useLogger(t, l)

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel(debug): %v", err)
	}
	if l.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v, want debug", l.GetLevel())
	}
	if err := SetLevel(""); err != nil {
		t.Fatalf("SetLevel(empty): %v", err)
	}
	if l.GetLevel() != logrus.DebugLevel {
		t.Fatalf("empty level changed logger level to %v", l.GetLevel())
	}
	if err := SetLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestSetupFile_WritesNamedEntries(t *testing.T) {
	l := logrus.New()
	l.SetFormatter(PlainFormatter{})
	useLogger(t, l)

	path := filepath.Join(t.TempDir(), "nested", "dynlog.log")
	closer, resolved, err := SetupFile(path)
	if err != nil {
		t.Fatalf("SetupFile: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	Named("panel").WithField("tasks", 2).Info("started")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "[INFO] [panel] started tasks=2") {
		t.Fatalf("unexpected log contents: %q", got)
	}
}

func useLogger(t *testing.T, l *logrus.Logger) {
	t.Helper()
	prev := rootLogger
	rootLogger = l
	t.Cleanup(func() { rootLogger = prev })
}
