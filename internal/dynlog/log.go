// Package dynlog redraws an ordered set of line chunks in place on an ANSI
// terminal.
//
// A Log owns its output stream. Each Render erases the previous frame by
// moving the cursor back to the frame's first line and clearing to the end of
// the screen, then writes the flattened chunk lines. Anything else written to
// the same stream while a frame is on screen breaks that bookkeeping.
//
// A Log is not safe for concurrent use.
package dynlog

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"dynlog/internal/logger"
)

var log = logger.Named("dynlog")

type flusher interface {
	Flush() error
}

// Log is the live display: an ordered list of chunks plus the state of the
// frame currently on screen.
type Log struct {
	out    io.Writer
	w      *bufio.Writer
	chunks []*Chunk

	rendered              bool
	lastRenderedLineCount int

	// err 是粘性的流错误，设置后不再向终端写任何内容。
	err error
}

// New returns a Log that draws to out (os.Stdout when nil).
func New(out io.Writer) *Log {
	if out == nil {
		out = os.Stdout
	}
	return &Log{out: out, w: bufio.NewWriter(out)}
}

// Rendered reports whether the last frame is still on screen.
func (l *Log) Rendered() bool {
	return l.rendered
}

// LastRenderedLineCount is the number of lines in the frame on screen. It is
// zero when nothing is rendered.
func (l *Log) LastRenderedLineCount() int {
	return l.lastRenderedLineCount
}

// Err returns the stream error that disabled the display, if any.
func (l *Log) Err() error {
	return l.err
}

// Len returns the number of chunks.
func (l *Log) Len() int {
	return len(l.chunks)
}

// PushChunk appends a new empty chunk and returns it.
func (l *Log) PushChunk(id string) *Chunk {
	c := NewChunk(id)
	l.chunks = append(l.chunks, c)
	return c
}

// PushLine appends line to the last chunk.
func (l *Log) PushLine(line string, render bool) error {
	last := l.last()
	if last == nil {
		return ErrNoChunk
	}
	last.PushLine(line)
	return l.redraw(render)
}

// PushLines appends lines to the last chunk and redraws at most once.
func (l *Log) PushLines(lines []string, render bool) error {
	last := l.last()
	if last == nil {
		return ErrNoChunk
	}
	last.PushLines(lines...)
	return l.redraw(render)
}

// PopChunk removes and returns the last chunk. ok is false when there are no
// chunks; the redraw still happens in that case.
func (l *Log) PopChunk(render bool) (c *Chunk, ok bool, err error) {
	if n := len(l.chunks); n > 0 {
		c = l.chunks[n-1]
		l.chunks[n-1] = nil
		l.chunks = l.chunks[:n-1]
		ok = true
	}
	return c, ok, l.redraw(render)
}

// PopLine removes the last line of the last chunk. With no chunks at all it
// returns immediately without touching the terminal.
func (l *Log) PopLine(render bool) (line string, ok bool, err error) {
	last := l.last()
	if last == nil {
		return "", false, nil
	}
	line, ok = last.PopLine()
	return line, ok, l.redraw(render)
}

// SetLine replaces a line in the chunk at chunkIndex (negative counts from the
// end, as in ChunkAt).
func (l *Log) SetLine(chunkIndex, lineIndex int, line string, render bool) error {
	c, err := l.ChunkAt(chunkIndex)
	if err != nil {
		return err
	}
	if err := c.SetLine(lineIndex, line); err != nil {
		return err
	}
	return l.redraw(render)
}

// ChunkByID returns the first chunk with the given id. An empty id marks an
// anonymous chunk, so ChunkByID("") always fails, even when chunks were
// pushed with id "".
func (l *Log) ChunkByID(id string) (*Chunk, error) {
	if id != "" {
		for _, c := range l.chunks {
			if c.id == id {
				return c, nil
			}
		}
	}
	return nil, &ChunkNotFoundError{ID: id, Suggestions: suggestIDs(id, l.ids())}
}

// ChunkAt returns the chunk at index. Negative indexes count from the end:
// -1 is the last chunk.
func (l *Log) ChunkAt(index int) (*Chunk, error) {
	i, ok := resolveIndex(index, len(l.chunks))
	if !ok {
		return nil, fmt.Errorf("%w: chunk %d of %d", ErrIndexOutOfRange, index, len(l.chunks))
	}
	return l.chunks[i], nil
}

// Lines flattens every chunk's lines in chunk order.
func (l *Log) Lines() []string {
	total := 0
	for _, c := range l.chunks {
		total += len(c.lines)
	}
	out := make([]string, 0, total)
	for _, c := range l.chunks {
		out = append(out, c.lines...)
	}
	return out
}

// Render erases the frame on screen, if any, and draws the current lines.
// The last line has no trailing newline so the cursor stays on it.
func (l *Log) Render() error {
	if l.err != nil {
		return l.err
	}
	cleared := l.rendered
	if cleared {
		l.writeClear()
	}

	lines := l.Lines()
	for i, line := range lines {
		_, _ = l.w.WriteString(line)
		if i < len(lines)-1 {
			_ = l.w.WriteByte('\n')
		}
	}
	if err := l.flush(); err != nil {
		return err
	}

	l.rendered = true
	l.lastRenderedLineCount = len(lines)
	log.WithField("lines", len(lines)).WithField("cleared", cleared).Debug("rendered frame")
	return nil
}

// Clear erases the frame on screen. It does nothing when no frame is
// rendered.
func (l *Log) Clear() error {
	if l.err != nil {
		return l.err
	}
	if !l.rendered {
		return nil
	}
	l.writeClear()
	return l.flush()
}

func (l *Log) writeClear() {
	_, _ = l.w.WriteString(clearSequence(l.lastRenderedLineCount))
	l.rendered = false
	l.lastRenderedLineCount = 0
}

// redraw implements the render-on-mutate flag: only a Log that already has a
// frame on screen redraws.
func (l *Log) redraw(render bool) error {
	if !render {
		return nil
	}
	if l.err != nil {
		return l.err
	}
	if !l.rendered {
		return nil
	}
	return l.Render()
}

func (l *Log) flush() error {
	if err := l.w.Flush(); err != nil {
		return l.fail(err)
	}
	if f, ok := l.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			return l.fail(err)
		}
	}
	return nil
}

func (l *Log) fail(err error) error {
	l.err = fmt.Errorf("%w: %w", ErrStream, err)
	l.rendered = false
	l.lastRenderedLineCount = 0
	log.WithError(err).Error("output stream failed; live display disabled")
	return l.err
}

func (l *Log) last() *Chunk {
	if len(l.chunks) == 0 {
		return nil
	}
	return l.chunks[len(l.chunks)-1]
}

func (l *Log) ids() []string {
	ids := make([]string, 0, len(l.chunks))
	for _, c := range l.chunks {
		if c.id != "" {
			ids = append(ids, c.id)
		}
	}
	return ids
}

// resolveIndex maps a possibly negative index onto [0, n).
func resolveIndex(index, n int) (int, bool) {
	if index < 0 {
		index += n
	}
	if index < 0 || index >= n {
		return 0, false
	}
	return index, true
}
