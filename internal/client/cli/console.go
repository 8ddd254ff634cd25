package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/myjournal/internal/client/pages"
)

// consoleNotifier prints notices as single lines.
type consoleNotifier struct {
	out io.Writer
}

func (n *consoleNotifier) Notify(notice pages.Notice) {
	prefix := "✔"
	if notice.Error {
		prefix = "✖"
	}
	_, _ = fmt.Fprintf(n.out, "%s %s\n", prefix, notice.Message)
}

// consoleConfirmer asks a y/N question. assumeYes skips the prompt.
type consoleConfirmer struct {
	reader    *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func (c *consoleConfirmer) Confirm(_ context.Context, prompt string) bool {
	if c.assumeYes {
		return true
	}
	answer, err := GetSimpleText(c.reader, prompt+" [y/N]", c.out)
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
