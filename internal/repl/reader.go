package repl

import (
	"bufio"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
)

// LineReader is the REPL's line source. The engine prints the "db > "
// prompt itself (see Run), so implementations must not emit their own.
type LineReader interface {
	ReadLine() (string, error)
	Close() error
}

// scannerReader is a bufio.Scanner-backed LineReader used for piped input
// and every test in this repository: it is deterministic and carries no
// terminal dependency.
type scannerReader struct {
	scanner *bufio.Scanner
}

func newScannerReader(r io.Reader) *scannerReader {
	return &scannerReader{scanner: bufio.NewScanner(r)}
}

func (s *scannerReader) ReadLine() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *scannerReader) Close() error { return nil }

// readlineReader wraps a chzyer/readline instance for genuine interactive
// sessions: arrow-key history and line editing, with its own prompt
// suppressed since Run owns prompt printing.
type readlineReader struct {
	inst *readline.Instance
}

func newReadlineReader() (*readlineReader, error) {
	inst, err := readline.NewEx(&readline.Config{Prompt: ""})
	if err != nil {
		return nil, err
	}
	return &readlineReader{inst: inst}, nil
}

func (r *readlineReader) ReadLine() (string, error) {
	return r.inst.Readline()
}

func (r *readlineReader) Close() error { return r.inst.Close() }

// NewStdinReader picks a readline-backed reader when standard input is a
// real terminal, and a plain scanner otherwise (pipes, redirected files,
// and every non-interactive invocation).
func NewStdinReader() (LineReader, error) {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		return newReadlineReader()
	}
	return newScannerReader(os.Stdin), nil
}
