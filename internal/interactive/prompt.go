// Package interactive provides terminal prompts for user confirmation.
package interactive

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks yes/no questions on a terminal.
type Prompter struct {
	in      io.Reader
	out     io.Writer
	scanner *bufio.Scanner
}

// NewPrompter creates a prompter on stdin/stdout.
func NewPrompter() *Prompter {
	return NewPrompterWithIO(os.Stdin, os.Stdout)
}

// NewPrompterWithIO creates a prompter with custom input/output (for testing).
func NewPrompterWithIO(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:      in,
		out:     out,
		scanner: bufio.NewScanner(in),
	}
}

// Confirm asks question and returns the user's answer. An empty answer
// returns def; unrecognized input re-prompts, and EOF returns def.
func (p *Prompter) Confirm(question string, def bool) bool {
	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}

	for {
		fmt.Fprintf(p.out, "%s %s ", question, suffix)

		if !p.scanner.Scan() {
			return def
		}

		switch strings.ToLower(strings.TrimSpace(p.scanner.Text())) {
		case "":
			return def
		case "y", "yes":
			return true
		case "n", "no":
			return false
		default:
			fmt.Fprintln(p.out, "Please answer 'y' or 'n'.")
		}
	}
}
