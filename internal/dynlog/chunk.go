package dynlog

import "fmt"

// Chunk is an ordered, mutable group of lines inside a Log. The id is only
// used for lookup; an empty id marks an anonymous chunk.
type Chunk struct {
	id    string
	lines []string
}

func NewChunk(id string) *Chunk {
	return &Chunk{id: id}
}

func (c *Chunk) ID() string {
	return c.id
}

func (c *Chunk) Len() int {
	return len(c.lines)
}

// Lines returns a copy of the chunk's lines in display order.
func (c *Chunk) Lines() []string {
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Chunk) Line(index int) (string, error) {
	if index < 0 || index >= len(c.lines) {
		return "", fmt.Errorf("%w: line %d of %d in chunk %q", ErrIndexOutOfRange, index, len(c.lines), c.id)
	}
	return c.lines[index], nil
}

func (c *Chunk) PushLine(line string) {
	c.lines = append(c.lines, line)
}

func (c *Chunk) PushLines(lines ...string) {
	c.lines = append(c.lines, lines...)
}

// PopLine removes and returns the last line. ok is false when the chunk is empty.
func (c *Chunk) PopLine() (line string, ok bool) {
	n := len(c.lines)
	if n == 0 {
		return "", false
	}
	line = c.lines[n-1]
	c.lines = c.lines[:n-1]
	return line, true
}

func (c *Chunk) ClearLines() {
	c.lines = c.lines[:0]
}

// SetLine replaces the line at index. The chunk is left untouched when the
// index is not a valid position.
func (c *Chunk) SetLine(index int, line string) error {
	if index < 0 || index >= len(c.lines) {
		return fmt.Errorf("%w: line %d of %d in chunk %q", ErrIndexOutOfRange, index, len(c.lines), c.id)
	}
	c.lines[index] = line
	return nil
}
