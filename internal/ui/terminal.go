// Package ui implements the vault's user-interaction boundary on a
// terminal: hidden password input, blocking alerts and yes/no confirms.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// Terminal talks to the user over stdin/stdout. Password input is hidden
// when stdin is a real terminal and falls back to line reads otherwise,
// which keeps scripted/piped use working.
type Terminal struct {
	reader *bufio.Reader // single reader; a fresh one per call would drop buffered bytes
	out    io.Writer
	hidden bool
}

// New returns a Terminal on the process's stdin/stdout.
func New() *Terminal {
	return &Terminal{
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		hidden: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// NewWith returns a Terminal on arbitrary streams, with line-based (visible)
// password input. Used by tests.
func NewWith(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{reader: bufio.NewReader(in), out: out}
}

// Alert prints a blocking message.
func (t *Terminal) Alert(message string) {
	fmt.Fprintln(t.out, message)
}

// Confirm asks a yes/no question. Anything but an explicit yes is a no.
func (t *Terminal) Confirm(message string) bool {
	fmt.Fprintf(t.out, "%s [y/N]: ", message)
	line, err := t.readLine()
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// PasswordResult mirrors the vault's prompt outcome without importing it;
// the adapter in cmd converts.
type PasswordResult struct {
	Password string
	Remember bool
}

// Password asks for a password with hidden input. Empty input cancels.
// When validate is non-nil, a rejected password re-prompts until the input
// validates or the user gives up with an empty line.
func (t *Terminal) Password(message string, validate func(string) bool) *PasswordResult {
	for {
		fmt.Fprintf(t.out, "%s (empty to cancel): ", message)
		pw, err := t.readSecret()
		fmt.Fprintln(t.out)
		if err != nil || pw == "" {
			return nil
		}
		if validate != nil && !validate(pw) {
			fmt.Fprintln(t.out, "Incorrect password.")
			continue
		}
		remember := false
		if validate != nil {
			remember = t.Confirm("Remember for this session?")
		}
		return &PasswordResult{Password: pw, Remember: remember}
	}
}

func (t *Terminal) readSecret() (string, error) {
	if t.hidden {
		data, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return t.readLine()
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
