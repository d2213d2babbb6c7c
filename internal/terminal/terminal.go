// Package terminal reads single keystrokes and whole lines from the user's
// terminal. Keystrokes are read in raw mode so no Enter is needed; when
// stdin is not a terminal (pipes, tests) input is read as plain text.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// ErrInterrupted is returned when the user presses Ctrl-C while a key is read in raw mode
var ErrInterrupted = errors.New("interrupted")

const (
	keyCtrlC = 0x03
	keyCtrlD = 0x04
)

// Terminal reads keys and lines from one input file through a shared buffer
type Terminal struct {
	in     *os.File
	reader *bufio.Reader
	isTTY  bool
}

// New creates a Terminal reading from in
func New(in *os.File) *Terminal {
	return &Terminal{
		in:     in,
		reader: bufio.NewReader(in),
		isTTY:  isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()),
	}
}

// NewReader creates a Terminal over a plain reader, never using raw mode
func NewReader(r io.Reader) *Terminal {
	return &Terminal{reader: bufio.NewReader(r)}
}

// IsTTY reports whether keys are read in raw mode
func (t *Terminal) IsTTY() bool {
	return t.isTTY
}

// ReadKey reads a single keystroke
func (t *Terminal) ReadKey() (rune, error) {
	if !t.isTTY {
		return t.readKeyCooked()
	}

	fd := int(t.in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return 0, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	r, _, err := t.reader.ReadRune()
	if err != nil {
		return 0, err
	}

	switch r {
	case keyCtrlC:
		return 0, ErrInterrupted
	case keyCtrlD:
		return 0, io.EOF
	}

	return r, nil
}

// readKeyCooked returns the next rune that is not whitespace
func (t *Terminal) readKeyCooked() (rune, error) {
	for {
		r, _, err := t.reader.ReadRune()
		if err != nil {
			return 0, err
		}
		if !unicode.IsSpace(r) {
			return r, nil
		}
	}
}

// ReadLine reads a line of text without its line terminator.
// A final line without a newline is returned without error.
func (t *Terminal) ReadLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Width returns the number of columns of the terminal attached to f,
// or 0 when f is not a terminal.
func Width(f *os.File) int {
	if !isatty.IsTerminal(f.Fd()) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
