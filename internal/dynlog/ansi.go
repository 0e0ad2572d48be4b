package dynlog

import "strconv"

const (
	// eraseDown clears from the cursor to the end of the screen.
	eraseDown = "\x1b[J"
)

// cursorUp moves the cursor up n lines, keeping the column.
func cursorUp(n int) string {
	return "\x1b[" + strconv.Itoa(n) + "A"
}

// clearSequence returns the bytes that erase a frame of n lines, starting
// with the cursor on the frame's last line. A frame with no lines needs no
// clearing, and n-1 must not go negative.
func clearSequence(n int) string {
	if n <= 0 {
		return ""
	}
	return cursorUp(n-1) + eraseDown
}
