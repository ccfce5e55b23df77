package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"tokenvault/internal/domain"
)

// Terminal reads secrets from an input stream. When the input is a TTY the
// value is read with echo disabled; otherwise one line is read as-is, which
// keeps piped input and tests working.
//
// Non-TTY input is consumed by a single reader goroutine started on the
// first prompt. A prompt cancelled while waiting leaves its line for the
// next one.
type Terminal struct {
	in  io.Reader
	out io.Writer

	mu     sync.Mutex
	reader *bufio.Reader
	once   sync.Once
	lines  chan readResult
}

// NewTerminal returns a Terminal reading from in and writing prompts to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out, reader: bufio.NewReader(in)}
}

// Stdio returns a Terminal on os.Stdin, prompting on os.Stderr so stdout
// stays clean for values printed by the caller.
func Stdio() *Terminal { return NewTerminal(os.Stdin, os.Stderr) }

type readResult struct {
	value string
	err   error
}

// Secret prints label and blocks until a value is entered or ctx is done.
// On cancellation the terminal state is restored and ctx.Err() is returned.
func (t *Terminal) Secret(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "%s: ", label)

	var done <-chan readResult
	restore := func() {}
	if f, ok := t.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		if state, err := term.GetState(fd); err == nil {
			restore = func() { _ = term.Restore(fd, state) }
		}
		ch := make(chan readResult, 1)
		go func() {
			b, err := term.ReadPassword(fd)
			ch <- readResult{value: string(b), err: err}
		}()
		done = ch
	} else {
		t.once.Do(func() {
			t.lines = make(chan readResult)
			go t.readLines()
		})
		done = t.lines
	}

	select {
	case <-ctx.Done():
		restore()
		fmt.Fprintln(t.out)
		return "", ctx.Err()
	case r, ok := <-done:
		fmt.Fprintln(t.out)
		if !ok {
			r.err = io.EOF
		}
		if r.err != nil {
			return "", fmt.Errorf("read %s: %w", label, r.err)
		}
		return r.value, nil
	}
}

// readLines feeds t.lines until the input fails, then closes it.
func (t *Terminal) readLines() {
	defer close(t.lines)
	for {
		line, err := t.reader.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		t.lines <- readResult{value: strings.TrimRight(line, "\r\n"), err: err}
		if err != nil {
			return
		}
	}
}

// Func adapts a plain function to domain.Prompter.
type Func func(ctx context.Context, label string) (string, error)

// Secret calls f.
func (f Func) Secret(ctx context.Context, label string) (string, error) { return f(ctx, label) }

// Compile-time assertions that the prompters implement domain.Prompter.
var (
	_ domain.Prompter = (*Terminal)(nil)
	_ domain.Prompter = Func(nil)
)
