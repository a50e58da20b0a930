// Package trust implements the interactive confirmation that guards scripts
// resolved from untrusted search locations.
package trust

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// ErrNoAnswer is returned when input ends before a non-empty answer.
var ErrNoAnswer = errors.New("trust: input closed before an answer was given")

// Gate asks the operator whether a script may run.
type Gate struct {
	in      *bufio.Reader
	out     io.Writer
	caution lipgloss.Style
}

// NewGate reads answers from in and writes prompts to out.
func NewGate(in io.Reader, out io.Writer) *Gate {
	renderer := lipgloss.NewRenderer(out)
	return &Gate{
		in:      bufio.NewReader(in),
		out:     out,
		caution: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

// Confirm returns true immediately when bypass is set. Otherwise it shows the
// absolute path and blocks until a non-empty answer arrives; only an answer
// starting with y or Y proceeds.
func (g *Gate) Confirm(absPath string, bypass bool) (bool, error) {
	if bypass {
		return true, nil
	}

	fmt.Fprintf(g.out, "\n%s\n", g.caution.Render("<<CAUTION>>"))
	fmt.Fprintf(g.out, "You are about to run %s.\nDo you trust this file and wish to continue? (Y/n) ", absPath)

	for {
		line, err := g.in.ReadString('\n')
		answer := stripSpace(line)
		if answer != "" {
			return answer[0] == 'y' || answer[0] == 'Y', nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, ErrNoAnswer
			}
			return false, fmt.Errorf("trust: read answer: %w", err)
		}
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
