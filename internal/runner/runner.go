// Package runner executes shell commands under a pty and reports their
// output as line events.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"dynlog/internal/logger"

	"github.com/creack/pty"
	"github.com/google/uuid"
)

var log = logger.Named("runner")

// drainTimeout bounds how long output is read after the process exits. A
// background grandchild holding the pty open would otherwise block forever.
const drainTimeout = 250 * time.Millisecond

type Spec struct {
	Name    string
	Command string
	Workdir string
}

// Task is a Spec with a unique id assigned before it starts.
type Task struct {
	ID string
	Spec
}

func NewTask(spec Spec) Task {
	if strings.TrimSpace(spec.Name) == "" {
		spec.Name = spec.Command
	}
	return Task{ID: uuid.NewString(), Spec: spec}
}

type EventKind int

const (
	EventStarted EventKind = iota
	EventOutput
	EventExited
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventOutput:
		return "output"
	case EventExited:
		return "exited"
	default:
		return "unknown"
	}
}

type Event struct {
	TaskID string
	Kind   EventKind
	Time   time.Time

	// Line is one line of output with control sequences removed. Partial is
	// set when the line was ended by a bare carriage return, i.e. the next
	// line overwrites it.
	Line    string
	Partial bool

	ExitCode int
	Err      error
}

type Runner struct {
	Shell string
	Cols  int
	Rows  int
	Env   []string
	Clock func() time.Time
}

// Run executes task and blocks until it exits. Every event, including the
// final EventExited, is sent on events.
func (r Runner) Run(ctx context.Context, task Task, events chan<- Event) {
	if strings.TrimSpace(task.Command) == "" {
		events <- r.event(task, Event{Kind: EventExited, ExitCode: -1, Err: errors.New("empty command")})
		return
	}
	cmd := exec.CommandContext(ctx, r.shell(), "-lc", task.Command)
	if task.Workdir != "" {
		cmd.Dir = task.Workdir
	}
	cmd.Env = append(os.Environ(), "TERM=dumb")
	cmd.Env = append(cmd.Env, r.Env...)

	ptmx, err := pty.StartWithSize(cmd, r.winsize())
	if err != nil {
		log.WithField("task", task.Name).WithError(err).Warn("failed to start task")
		events <- r.event(task, Event{Kind: EventExited, ExitCode: -1, Err: fmt.Errorf("start pty: %w", err)})
		return
	}
	log.WithField("task", task.Name).WithField("id", task.ID).Info("task started")
	events <- r.event(task, Event{Kind: EventStarted})

	split := newLineSplitter(func(line string, partial bool) {
		events <- r.event(task, Event{Kind: EventOutput, Line: line, Partial: partial})
	})
	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(split, ptmx)
		close(done)
	}()

	waitErr := cmd.Wait()
	select {
	case <-done:
	case <-time.After(drainTimeout):
	}
	_ = ptmx.Close()
	<-done
	split.Close()

	exit := Event{Kind: EventExited, ExitCode: exitCode(waitErr)}
	if waitErr != nil {
		exit.Err = waitErr
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		exit.Err = ctxErr
	}
	log.WithField("task", task.Name).WithField("code", exit.ExitCode).Info("task exited")
	events <- r.event(task, exit)
}

// RunAll runs every task concurrently and closes events once all have exited.
func (r Runner) RunAll(ctx context.Context, tasks []Task, events chan<- Event) {
	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			r.Run(ctx, t, events)
		}(t)
	}
	wg.Wait()
	close(events)
}

func (r Runner) shell() string {
	if strings.TrimSpace(r.Shell) == "" {
		return "bash"
	}
	return r.Shell
}

func (r Runner) winsize() *pty.Winsize {
	cols, rows := r.Cols, r.Rows
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}
	return &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}
}

func (r Runner) event(task Task, evt Event) Event {
	evt.TaskID = task.ID
	if r.Clock != nil {
		evt.Time = r.Clock()
	} else {
		evt.Time = time.Now()
	}
	return evt
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
