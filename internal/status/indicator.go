package status

import (
	"fmt"
	"strings"
	"time"

	"dynlog/internal/render"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// State 枚举了一个任务状态行可显示的所有状态。
type State int

const (
	// Pending 表示任务尚未启动，不计时。
	Pending State = iota
	// Running 表示任务正在进行，计时器持续累加。
	Running
	// Succeeded 表示任务以 0 退出。
	Succeeded
	// Failed 表示任务以非 0 退出或无法启动。
	Failed
	// Canceled 表示任务被中断。
	Canceled
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Succeeded:
		return "ok"
	case Failed:
		return "failed"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Done 报告状态是否为终态。
func (s State) Done() bool {
	return s == Succeeded || s == Failed || s == Canceled
}

func (s State) tracksElapsed() bool {
	return s == Running
}

func (s State) valid() bool {
	return s >= Pending && s <= Canceled
}

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// Spinners 为配置项 spinner 提供可选的 bubbles 预设。
var Spinners = map[string]spinner.Spinner{
	"line":    spinner.Line,
	"dot":     spinner.Dot,
	"minidot": spinner.MiniDot,
	"jump":    spinner.Jump,
	"pulse":   spinner.Pulse,
	"points":  spinner.Points,
	"meter":   spinner.Meter,
}

// SpinnerByName 按名称查找预设，未知名称回退到 dot。
func SpinnerByName(name string) spinner.Spinner {
	if sp, ok := Spinners[strings.ToLower(strings.TrimSpace(name))]; ok {
		return sp
	}
	return spinner.Dot
}

// Options 控制指示器的初始化行为。
type Options struct {
	State             State
	Header            string
	Detail            string
	AnimationsEnabled bool
	Spinner           spinner.Spinner
	Clock             func() time.Time
}

// Indicator 渲染与管理一个任务的状态行（spinner + 标题 + 计时/详情）。
type Indicator struct {
	header            string
	detail            string
	state             State
	animationsEnabled bool
	spinner           spinner.Spinner

	elapsedRunning time.Duration
	lastResumeAt   time.Time
	paused         bool

	clock func() time.Time
}

// New 构造状态指示器，默认处于 Pending。
func New(opts Options) *Indicator {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	state := opts.State
	if !state.valid() {
		state = Pending
	}
	sp := opts.Spinner
	if len(sp.Frames) == 0 {
		sp = spinner.Dot
	}
	w := &Indicator{
		header:            opts.Header,
		detail:            opts.Detail,
		state:             state,
		animationsEnabled: opts.AnimationsEnabled,
		spinner:           sp,
		clock:             clock,
		lastResumeAt:      clock(),
		paused:            !state.tracksElapsed(),
	}
	return w
}

func (w *Indicator) State() State {
	if w == nil {
		return Pending
	}
	return w.state
}

// SetDetail 更新标题后的附加信息（例如退出码）。
func (w *Indicator) SetDetail(detail string) {
	if w == nil {
		return
	}
	w.detail = detail
}

// SetState 更新状态并根据状态是否计时自动暂停/恢复计时器。
func (w *Indicator) SetState(state State) {
	if w == nil || !state.valid() {
		return
	}
	now := w.now()
	if state.tracksElapsed() {
		w.resumeTimerAt(now)
	} else {
		w.pauseTimerAt(now)
	}
	w.state = state
}

// Elapsed 返回累计运行时长。
func (w *Indicator) Elapsed() time.Duration {
	if w == nil {
		return 0
	}
	return w.elapsedDurationAt(w.now())
}

// Line 绘制状态行，并截断到 width 列以内。
func (w *Indicator) Line(width int) render.Line {
	if w == nil {
		return render.Line{}
	}
	now := w.now()
	spans := []render.Span{w.glyph(now)}
	if w.header != "" {
		spans = append(spans, render.Span{Text: " "}, render.Span{Text: w.header, Style: headerStyle})
	}
	hint := FormatElapsed(w.elapsedDurationAt(now))
	if w.detail != "" {
		hint += " • " + w.detail
	}
	spans = append(spans, render.Span{Text: " "}, render.Span{
		Text:  fmt.Sprintf("(%s)", hint),
		Style: faintStyle,
	})
	return render.Fit(render.Line{Spans: spans}, width)
}

func (w *Indicator) now() time.Time {
	if w.clock != nil {
		return w.clock()
	}
	return time.Now()
}

func (w *Indicator) pauseTimerAt(now time.Time) {
	if w.paused {
		return
	}
	w.elapsedRunning += now.Sub(w.lastResumeAt)
	w.paused = true
}

func (w *Indicator) resumeTimerAt(now time.Time) {
	if !w.paused {
		return
	}
	w.lastResumeAt = now
	w.paused = false
}

func (w *Indicator) elapsedDurationAt(now time.Time) time.Duration {
	if w.paused {
		return w.elapsedRunning
	}
	return w.elapsedRunning + now.Sub(w.lastResumeAt)
}

func (w *Indicator) glyph(now time.Time) render.Span {
	switch w.state {
	case Pending:
		return render.Span{Text: "·", Style: faintStyle}
	case Succeeded:
		return render.Span{Text: "✓", Style: okStyle}
	case Failed:
		return render.Span{Text: "✗", Style: failStyle}
	case Canceled:
		return render.Span{Text: "–", Style: faintStyle}
	}
	if !w.animationsEnabled {
		return render.Span{Text: "•"}
	}
	fps := w.spinner.FPS
	if fps <= 0 {
		fps = time.Second / 10
	}
	idx := int(now.UnixNano()/int64(fps)) % len(w.spinner.Frames)
	return render.Span{Text: w.spinner.Frames[idx]}
}

// FormatElapsed 将时长格式化为紧凑字符串：59s、1m 01s、1h 01m 01s。
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	elapsedSecs := uint64(d / time.Second)
	switch {
	case elapsedSecs < 60:
		return fmt.Sprintf("%ds", elapsedSecs)
	case elapsedSecs < 3600:
		minutes := elapsedSecs / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dm %02ds", minutes, seconds)
	default:
		hours := elapsedSecs / 3600
		minutes := (elapsedSecs % 3600) / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, seconds)
	}
}
