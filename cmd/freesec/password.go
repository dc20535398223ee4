package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	isatty "github.com/mattn/go-isatty"
	"golang.org/x/crypto/ssh/terminal"
	"golang.org/x/xerrors"

	upn "freesec/lib/utils/text/userpassnorm"
)

// readPassword prompts on the terminal without echo, or takes the first
// line of stdin if it isn't a terminal.
func readPassword(a *app) ([]byte, error) {
	fd := os.Stdin.Fd()
	if isatty.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		p, err := terminal.ReadPassword(int(fd))
		fmt.Fprintln(os.Stderr)
		return p, err
	}
	return readLine(a)
}

func readLine(a *app) ([]byte, error) {
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

// argOrPassword returns the password given as argument i of args or asks
// for one.
func (a *app) argOrPassword(args []string, i int) ([]byte, error) {
	if len(args) > i {
		return []byte(args[i]), nil
	}
	return a.readPass(a)
}

// normalisePass applies the same normalisation UserHashMap.CheckUserPass
// does, so hashes made here verify there.
func normalisePass(p []byte) ([]byte, error) {
	n, err := upn.NormalisePass(string(p))
	if err != nil {
		return nil, xerrors.Errorf("unusable password: %w", err)
	}
	return []byte(n), nil
}
