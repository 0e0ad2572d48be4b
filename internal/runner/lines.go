package runner

import (
	"unicode/utf8"

	"dynlog/internal/render"
)

// maxLineBytes 超过该长度的行会被强制切断。
const maxLineBytes = 64 * 1024

// lineSplitter turns a pty byte stream into lines. "\r\n" and "\n" end a
// line; a bare "\r" ends a partial line that the next one overwrites.
type lineSplitter struct {
	buf       []byte
	pendingCR bool
	emit      func(line string, partial bool)
}

func newLineSplitter(emit func(line string, partial bool)) *lineSplitter {
	return &lineSplitter{emit: emit}
}

func (s *lineSplitter) Write(p []byte) (int, error) {
	for _, b := range p {
		if s.pendingCR {
			s.pendingCR = false
			if b != '\n' {
				s.flush(true)
			}
		}
		switch b {
		case '\r':
			s.pendingCR = true
		case '\n':
			s.flush(false)
		default:
			s.buf = append(s.buf, b)
			if len(s.buf) >= maxLineBytes {
				s.cutLong()
			}
		}
	}
	return len(p), nil
}

// Close emits whatever is left without a line terminator.
func (s *lineSplitter) Close() {
	s.pendingCR = false
	if len(s.buf) > 0 {
		s.flush(false)
	}
}

// cutLong emits an over-long line, keeping a trailing incomplete rune for
// the next line so both halves stay valid UTF-8.
func (s *lineSplitter) cutLong() {
	cut := len(s.buf)
	for i := len(s.buf) - 1; i >= 0 && i >= len(s.buf)-utf8.UTFMax; i-- {
		if utf8.RuneStart(s.buf[i]) {
			if !utf8.FullRune(s.buf[i:]) && i > 0 {
				cut = i
			}
			break
		}
	}
	rest := append([]byte(nil), s.buf[cut:]...)
	s.buf = s.buf[:cut]
	s.flush(false)
	s.buf = append(s.buf, rest...)
}

func (s *lineSplitter) flush(partial bool) {
	if partial && len(s.buf) == 0 {
		return
	}
	line := render.StripANSI(string(s.buf))
	s.buf = s.buf[:0]
	s.emit(line, partial)
}
