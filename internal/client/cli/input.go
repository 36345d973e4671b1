package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// Prompter reads answers from a line-oriented input.
type Prompter struct {
	in    io.Reader
	lines *bufio.Reader
	out   io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, lines: bufio.NewReader(in), out: out}
}

// ReadLine reads one trimmed line. A final line without newline is returned
// before io.EOF.
func (p *Prompter) ReadLine() (string, error) {
	line, err := p.lines.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask prints prompt and reads the answer.
func (p *Prompter) Ask(prompt string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", prompt); err != nil {
		return "", err
	}
	return p.ReadLine()
}

// AskDefault is Ask where an empty answer keeps current.
func (p *Prompter) AskDefault(prompt, current string) (string, error) {
	answer, err := p.Ask(fmt.Sprintf("%s [%s]", prompt, current))
	if err != nil || answer == "" {
		return current, err
	}
	return answer, nil
}

// Confirm asks a yes/no question. Only "y" and "yes" confirm.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	answer, err := p.Ask(prompt + " (y/N)")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Password reads a password without echo when the input is a terminal, and
// as a plain line otherwise.
func (p *Prompter) Password(prompt string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", prompt); err != nil {
		return "", err
	}

	f, ok := p.in.(*os.File)
	if !ok || !isTerminal(int(f.Fd())) {
		return p.ReadLine()
	}

	pw, err := readPassword(int(f.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}
