package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"unicode/utf8"

	"golang.org/x/term"
)

// Key is the key that ended a ReadLine call.
type Key int

const (
	KeyEnter Key = iota
	KeyTab
	KeyUp
	KeyDown
)

// ErrInterrupt is returned when the user presses Ctrl-C.
var ErrInterrupt = errors.New("interrupted")

// Editor is a minimal line editor with cursor tracking.
// It reads from /dev/tty so it works even when stdout is redirected.
type Editor struct {
	in       io.Reader
	out      io.Writer
	tty      *os.File
	oldState *term.State

	// OnEdit is called after every keystroke that changes the buffer.
	OnEdit func()

	mu     sync.Mutex
	prompt string
	buf    []byte
	pos    int // cursor byte offset into buf
}

// NewEditor opens /dev/tty and switches to raw mode.
func NewEditor() (*Editor, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open /dev/tty: %w", err)
	}

	old, err := term.MakeRaw(int(tty.Fd()))
	if err != nil {
		tty.Close()
		return nil, fmt.Errorf("raw mode: %w", err)
	}

	return &Editor{in: tty, out: tty, tty: tty, oldState: old}, nil
}

// newEditorIO returns an editor over arbitrary streams.
func newEditorIO(in io.Reader, out io.Writer) *Editor {
	return &Editor{in: in, out: out}
}

// Close restores terminal state and closes the tty fd.
func (e *Editor) Close() {
	if e.tty == nil {
		return
	}
	term.Restore(int(e.tty.Fd()), e.oldState)
	e.tty.Close()
}

// Fd returns the tty file descriptor, or -1 when not attached to one.
func (e *Editor) Fd() int {
	if e.tty == nil {
		return -1
	}
	return int(e.tty.Fd())
}

// Out returns the writer for prompts and UI.
func (e *Editor) Out() io.Writer {
	return e.out
}

// SetBuffer replaces the input buffer and moves the cursor to its end.
func (e *Editor) SetBuffer(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf = append(e.buf[:0], s...)
	e.pos = len(e.buf)
}

// Print writes output above the line being edited, then redraws it.
func (e *Editor) Print(fn func(w io.Writer)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprint(e.out, "\r\x1b[K")
	fn(e.out)
	if e.prompt != "" {
		e.redraw()
	}
}

// ReadLine displays the prompt and edits the current buffer until Enter,
// Tab, Up or Down. The buffer is kept after Tab, Up and Down so the caller
// can replace it with SetBuffer; Enter clears it.
// Returns io.EOF when the user presses Ctrl-D on empty input.
func (e *Editor) ReadLine(prompt string) (text string, key Key, err error) {
	e.mu.Lock()
	e.prompt = prompt
	e.redraw()
	e.mu.Unlock()

	var esc [8]byte // buffer for escape sequences

	for {
		var b [1]byte
		if _, err := e.in.Read(b[:]); err != nil {
			return "", KeyEnter, err
		}

		e.mu.Lock()
		before := string(e.buf)
		switch b[0] {
		case 3: // Ctrl-C
			fmt.Fprintf(e.out, "\r\n")
			e.reset()
			e.mu.Unlock()
			return "", KeyEnter, ErrInterrupt

		case 4: // Ctrl-D
			if len(e.buf) == 0 {
				fmt.Fprintf(e.out, "\r\n")
				e.reset()
				e.mu.Unlock()
				return "", KeyEnter, io.EOF
			}

		case 13, 10: // Enter
			fmt.Fprintf(e.out, "\r\n")
			text = string(e.buf)
			e.reset()
			e.mu.Unlock()
			return text, KeyEnter, nil

		case 9: // Tab
			text = string(e.buf)
			e.mu.Unlock()
			return text, KeyTab, nil

		case 127, 8: // Backspace / Ctrl-H
			if e.pos > 0 {
				_, size := prevRune(e.buf, e.pos)
				copy(e.buf[e.pos-size:], e.buf[e.pos:])
				e.buf = e.buf[:len(e.buf)-size]
				e.pos -= size
			}

		case 1: // Ctrl-A (Home)
			e.pos = 0

		case 5: // Ctrl-E (End)
			e.pos = len(e.buf)

		case 21: // Ctrl-U (clear line)
			e.buf = e.buf[:0]
			e.pos = 0

		case 27: // Escape sequence
			if n, _ := e.in.Read(esc[:1]); n == 0 || esc[0] != '[' {
				break
			}
			if n, _ := e.in.Read(esc[1:2]); n == 0 {
				break
			}
			switch esc[1] {
			case 'A': // Up
				text = string(e.buf)
				e.mu.Unlock()
				return text, KeyUp, nil
			case 'B': // Down
				text = string(e.buf)
				e.mu.Unlock()
				return text, KeyDown, nil
			case 'D': // Left
				if e.pos > 0 {
					_, size := prevRune(e.buf, e.pos)
					e.pos -= size
				}
			case 'C': // Right
				if e.pos < len(e.buf) {
					_, size := utf8.DecodeRune(e.buf[e.pos:])
					e.pos += size
				}
			case 'H': // Home
				e.pos = 0
			case 'F': // End
				e.pos = len(e.buf)
			case '3': // Delete key: \x1b[3~
				e.in.Read(esc[2:3]) // consume '~'
				if e.pos < len(e.buf) {
					_, size := utf8.DecodeRune(e.buf[e.pos:])
					copy(e.buf[e.pos:], e.buf[e.pos+size:])
					e.buf = e.buf[:len(e.buf)-size]
				}
			case '1': // Home: \x1b[1~
				e.in.Read(esc[2:3])
				e.pos = 0
			case '4': // End: \x1b[4~
				e.in.Read(esc[2:3])
				e.pos = len(e.buf)
			}

		default: // Printable character
			if b[0] >= 32 {
				// Determine full UTF-8 sequence length
				ch := []byte{b[0]}
				if b[0] >= 0xC0 {
					tmp := make([]byte, utf8RuneLen(b[0])-1)
					io.ReadFull(e.in, tmp)
					ch = append(ch, tmp...)
				}
				// Insert at cursor position
				e.buf = append(e.buf, make([]byte, len(ch))...)
				copy(e.buf[e.pos+len(ch):], e.buf[e.pos:len(e.buf)-len(ch)])
				copy(e.buf[e.pos:], ch)
				e.pos += len(ch)
			}
		}

		edited := string(e.buf) != before
		e.redraw()
		e.mu.Unlock()

		if edited && e.OnEdit != nil {
			e.OnEdit()
		}
	}
}

func (e *Editor) reset() {
	e.buf = e.buf[:0]
	e.pos = 0
	e.prompt = ""
}

// redraw clears the current line and redraws prompt + buffer with cursor.
// The caller holds e.mu.
func (e *Editor) redraw() {
	// \r = carriage return, \x1b[K = clear to end of line
	fmt.Fprintf(e.out, "\r\x1b[K%s%s", e.prompt, string(e.buf))

	// Move cursor back to the correct position
	tailLen := runeCount(e.buf[e.pos:])
	if tailLen > 0 {
		fmt.Fprintf(e.out, "\x1b[%dD", tailLen)
	}
}

// prevRune returns the rune and byte size of the rune before pos.
func prevRune(buf []byte, pos int) (rune, int) {
	if pos <= 0 {
		return 0, 0
	}
	// Walk back to find the start of the rune
	i := pos - 1
	for i > 0 && !utf8.RuneStart(buf[i]) {
		i--
	}
	r, size := utf8.DecodeRune(buf[i:pos])
	return r, size
}

// runeCount returns the number of runes in b.
func runeCount(b []byte) int {
	return utf8.RuneCount(b)
}

// utf8RuneLen returns the expected byte length of a UTF-8 sequence
// from its leading byte.
func utf8RuneLen(lead byte) int {
	if lead < 0xC0 {
		return 1
	}
	if lead < 0xE0 {
		return 2
	}
	if lead < 0xF0 {
		return 3
	}
	return 4
}
