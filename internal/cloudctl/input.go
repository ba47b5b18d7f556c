package cloudctl

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

// readSecret returns a password. With fromStdin set, or when stdin is not a
// terminal, the first line of stdin is used; otherwise the user is prompted
// on stderr and the input is not echoed.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func (a *App) readSecret(prompt string, fromStdin bool) ([]byte, error) {
	f, isFile := a.Stdin.(*os.File)
	if fromStdin || !isFile || !isTerminal(int(f.Fd())) {
		return readLine(a.Stdin)
	}

	if _, err := fmt.Fprint(a.Stderr, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(f.Fd()))
	fmt.Fprintln(a.Stderr)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

func readLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
