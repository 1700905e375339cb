package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

var ErrNoToken = errors.New("no token entered")

func (a *App) ensureToken() error {
	if !a.askToken || a.config.Token != "" {
		return nil
	}
	token, err := a.readSecret("Token: ")
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrNoToken
	}
	a.config.Token = token
	return nil
}

// readTerminalSecret reads without echo when stdin is a terminal and falls
// back to a plain line read otherwise.
func (a *App) readTerminalSecret(prompt string) (string, error) {
	fmt.Fprint(a.stderr, prompt)
	defer fmt.Fprintln(a.stderr)

	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return string(b), err
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}
