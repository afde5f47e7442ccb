package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// lineReader hands out stdin one line at a time. Secrets that were not
// given as flags are read from it, in the order the command asks.
type lineReader struct {
	sc *bufio.Scanner
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{sc: bufio.NewScanner(r)}
}

func (l *lineReader) next() (string, bool) {
	if !l.sc.Scan() {
		return "", false
	}
	return strings.TrimRight(l.sc.Text(), "\r"), true
}

// secret returns value, or prompts for it on stdin when empty
func secret(cmd *cobra.Command, in *lineReader, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", prompt)
	line, ok := in.next()
	if !ok {
		return "", fmt.Errorf("%s is required", strings.ToLower(prompt))
	}
	return line, nil
}
