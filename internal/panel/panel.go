// Package panel draws one live status block per running task with dynlog.
//
// A Panel is the only writer of its output while a session is active.
// Runners talk to it through the event channel given to Run; nothing else may
// touch the Log.
package panel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"dynlog/internal/dynlog"
	"dynlog/internal/logger"
	"dynlog/internal/render"
	"dynlog/internal/runner"
	"dynlog/internal/status"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

var log = logger.Named("panel")

var (
	tailPrefix   = render.Span{Text: "  │ ", Style: lipgloss.NewStyle().Faint(true)}
	summaryStyle = lipgloss.NewStyle().Faint(true)
)

type Options struct {
	Out io.Writer
	// Live enables in-place redraws. When false only the final frame is
	// printed, which keeps pipes and log files free of control sequences.
	Live       bool
	Width      int
	TailLines  int
	Animations bool
	Spinner    spinner.Spinner
	Clock      func() time.Time
}

type taskView struct {
	task    runner.Task
	chunk   *dynlog.Chunk
	status  *status.Indicator
	tail    []string
	partial bool
	lines   int
}

type Panel struct {
	opts    Options
	log     *dynlog.Log
	tasks   []*taskView
	byID    map[string]*taskView
	summary *dynlog.Chunk
	started bool
	err     error
}

func New(opts Options) *Panel {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.TailLines < 0 {
		opts.TailLines = 0
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	p := &Panel{
		opts: opts,
		log:  dynlog.New(opts.Out),
		byID: map[string]*taskView{},
	}
	p.summary = p.log.PushChunk("")
	return p
}

// Add registers a task. Tasks are drawn in the order they were added, above
// the summary line.
func (p *Panel) Add(task runner.Task) {
	if _, ok := p.byID[task.ID]; ok {
		return
	}
	// 汇总行始终是最后一个 chunk：先弹出，追加任务后重建。
	if _, _, err := p.log.PopChunk(false); err != nil {
		p.setErr(err)
	}
	view := &taskView{
		task:  task,
		chunk: p.log.PushChunk(task.ID),
		status: status.New(status.Options{
			Header:            task.Name,
			AnimationsEnabled: p.opts.Animations,
			Spinner:           p.opts.Spinner,
			Clock:             p.opts.Clock,
		}),
	}
	p.tasks = append(p.tasks, view)
	p.byID[task.ID] = view
	p.summary = p.log.PushChunk("")
	p.rebuild(view)
	p.refreshSummary()
}

// Start draws the first frame.
func (p *Panel) Start() error {
	p.started = true
	if !p.opts.Live {
		return nil
	}
	return p.setErr(p.log.Render())
}

// Handle applies one runner event to the task's chunk. It does not redraw;
// Tick does.
func (p *Panel) Handle(evt runner.Event) {
	view, ok := p.byID[evt.TaskID]
	if !ok {
		log.WithField("task", evt.TaskID).Warn("event for unknown task")
		return
	}
	switch evt.Kind {
	case runner.EventStarted:
		view.status.SetState(status.Running)
	case runner.EventOutput:
		view.appendOutput(evt.Line, evt.Partial, p.opts.TailLines)
	case runner.EventExited:
		view.partial = false
		switch {
		case errors.Is(evt.Err, context.Canceled), errors.Is(evt.Err, context.DeadlineExceeded):
			view.status.SetState(status.Canceled)
			view.status.SetDetail("canceled")
		case evt.ExitCode != 0 || evt.Err != nil:
			view.status.SetState(status.Failed)
			view.status.SetDetail(exitDetail(evt))
		default:
			view.status.SetState(status.Succeeded)
			view.status.SetDetail(fmt.Sprintf("%d lines", view.lines))
			view.tail = nil
		}
		log.WithField("task", view.task.Name).WithField("state", view.status.State()).Info("task finished")
	}
	p.rebuild(view)
	p.refreshSummary()
}

// Tick refreshes timers and spinners and redraws when live.
func (p *Panel) Tick() error {
	for _, view := range p.tasks {
		if view.status.State() == status.Running {
			p.refreshStatus(view)
		}
	}
	p.refreshSummary()
	if !p.opts.Live || !p.started {
		return p.err
	}
	return p.setErr(p.log.Render())
}

// Finish draws the final frame and moves the cursor below it. The frame
// stays on screen.
func (p *Panel) Finish() error {
	for _, view := range p.tasks {
		p.refreshStatus(view)
	}
	p.refreshSummary()
	if err := p.setErr(p.log.Render()); err != nil {
		return err
	}
	if p.log.LastRenderedLineCount() > 0 {
		if _, err := io.WriteString(p.opts.Out, "\n"); err != nil {
			return p.setErr(err)
		}
	}
	return nil
}

// Run owns the panel until events is closed, then draws the final frame.
// Stream errors stop drawing but events are still drained so producers
// never block.
func (p *Panel) Run(events <-chan runner.Event, interval time.Duration) error {
	if interval <= 0 {
		interval = 120 * time.Millisecond
	}
	if err := p.Start(); err != nil {
		log.WithError(err).Error("initial render failed")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return p.Finish()
			}
			p.Handle(evt)
		case <-ticker.C:
			if err := p.Tick(); err != nil && p.log.Err() == nil {
				log.WithError(err).Warn("tick render failed")
			}
		}
	}
}

// Failed returns how many tasks ended unsuccessfully.
func (p *Panel) Failed() int {
	n := 0
	for _, view := range p.tasks {
		if s := view.status.State(); s == status.Failed || s == status.Canceled {
			n++
		}
	}
	return n
}

// Frame returns the current lines without styling, e.g. for the clipboard.
func (p *Panel) Frame() string {
	lines := p.log.Lines()
	for i, l := range lines {
		lines[i] = render.StripANSI(l)
	}
	return strings.Join(lines, "\n")
}

func (v *taskView) appendOutput(line string, partial bool, limit int) {
	if v.partial && len(v.tail) > 0 {
		v.tail[len(v.tail)-1] = line
	} else {
		v.tail = append(v.tail, line)
		v.lines++
	}
	v.partial = partial
	if limit >= 0 && len(v.tail) > limit {
		v.tail = append(v.tail[:0], v.tail[len(v.tail)-limit:]...)
	}
}

func (p *Panel) rebuild(view *taskView) {
	var buf render.Buffer
	buf.WriteLine(view.status.Line(p.opts.Width))
	tail := make([]render.Line, 0, len(view.tail))
	for _, l := range view.tail {
		tail = append(tail, render.Plain(l))
	}
	for _, l := range render.PrefixLines(tail, tailPrefix, tailPrefix) {
		buf.WriteLine(render.Fit(l, p.opts.Width))
	}
	view.chunk.ClearLines()
	view.chunk.PushLines(render.LinesToStrings(buf.Lines)...)
}

func (p *Panel) refreshStatus(view *taskView) {
	if err := view.chunk.SetLine(0, p.line(view.status.Line(p.opts.Width))); err != nil {
		p.rebuild(view)
	}
}

func (p *Panel) refreshSummary() {
	var running, ok, failed, pending int
	for _, view := range p.tasks {
		switch view.status.State() {
		case status.Running:
			running++
		case status.Succeeded:
			ok++
		case status.Failed, status.Canceled:
			failed++
		default:
			pending++
		}
	}
	parts := []string{}
	if pending > 0 {
		parts = append(parts, fmt.Sprintf("%d pending", pending))
	}
	parts = append(parts,
		fmt.Sprintf("%d running", running),
		fmt.Sprintf("%d ok", ok),
		fmt.Sprintf("%d failed", failed),
	)
	p.summary.ClearLines()
	if len(p.tasks) == 0 {
		return
	}
	line := render.Line{Spans: []render.Span{{Text: strings.Join(parts, " · "), Style: summaryStyle}}}
	p.summary.PushLine(p.line(line))
}

func (p *Panel) line(l render.Line) string {
	return render.LineToString(render.Fit(l, p.opts.Width))
}

func (p *Panel) setErr(err error) error {
	if err != nil && p.err == nil {
		p.err = err
	}
	return err
}

func exitDetail(evt runner.Event) string {
	if evt.ExitCode >= 0 {
		return fmt.Sprintf("exit %d", evt.ExitCode)
	}
	if evt.Err != nil {
		return evt.Err.Error()
	}
	return "failed"
}
