package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"dynlog/internal/render"
	"dynlog/internal/runner"
)

func TestRunTasks_ReportsFailuresAndFinalFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping pty test in -short mode")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	specs := []runner.Spec{
		{Name: "ok", Command: "echo fine"},
		{Name: "bad", Command: "echo broken; exit 4"},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	var out bytes.Buffer
	failed, frame, err := runTasks(ctx, runOptions{
		tailLines: 3,
		refresh:   10 * time.Millisecond,
		shell:     "sh",
	}, specs, &out)
	if err != nil {
		t.Fatalf("runTasks: %v", err)
	}
	if failed != 1 {
		t.Fatalf("failed = %d, want 1", failed)
	}
	if strings.Contains(out.String(), "\x1b[J") {
		t.Fatalf("non-live run should not redraw: %q", out.String())
	}
	lines := strings.Split(frame, "\n")
	if len(lines) != 4 {
		t.Fatalf("frame = %q, want 4 lines", frame)
	}
	if !strings.HasPrefix(lines[0], "✓ ok (") {
		t.Fatalf("ok line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "✗ bad (") || !strings.HasSuffix(lines[1], "exit 4)") {
		t.Fatalf("bad line = %q", lines[1])
	}
	if lines[2] != "  │ broken" {
		t.Fatalf("bad tail = %q", lines[2])
	}
	if render.StripANSI(strings.TrimSuffix(out.String(), "\n")) != frame {
		t.Fatalf("printed frame %q differs from Frame() %q", out.String(), frame)
	}
}

func TestCollectSpecs(t *testing.T) {
	specs, err := collectSpecs([]string{"go", "test", "./..."}, "tests", nil)
	if err != nil {
		t.Fatalf("collectSpecs: %v", err)
	}
	want := []runner.Spec{{Name: "tests", Command: "go test ./..."}}
	if !reflect.DeepEqual(specs, want) {
		t.Fatalf("collectSpecs = %#v", specs)
	}

	path := filepath.Join(t.TempDir(), "tasks")
	if err := os.WriteFile(path, []byte("a,echo a\n# skip\nb,echo b\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	specs, err = collectSpecs(nil, "", f)
	if err != nil {
		t.Fatalf("collectSpecs(stdin): %v", err)
	}
	if len(specs) != 2 || specs[1].Name != "b" {
		t.Fatalf("collectSpecs(stdin) = %#v", specs)
	}
}
