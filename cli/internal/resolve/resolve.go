// Package resolve collects the analysis fields the model could not
// determine. The Resolver interface keeps the orchestrator testable without
// a real console; Console is the stdin/stdout implementation.
package resolve

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Resolver fills gaps in a generated analysis. Implementations return a
// non-empty value or an error; callers may assume the value is usable as-is.
type Resolver interface {
	// Select prompts with numbered choices and returns the chosen value.
	Select(prompt string, choices []string) (string, error)
	// Input prompts for one free-form line and returns it trimmed.
	Input(prompt string) (string, error)
	// Confirm asks a yes/no question; anything but an affirmative declines.
	Confirm(prompt string) (bool, error)
}

// Console is a Resolver over an input stream and output writer. In strict
// mode only a valid index or an exact choice is accepted; otherwise any
// non-empty free-form text is taken as an override.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
	strict  bool
}

// NewConsole builds a console resolver reading from in and prompting on out.
func NewConsole(in io.Reader, out io.Writer, strict bool) *Console {
	return &Console{scanner: bufio.NewScanner(in), out: out, strict: strict}
}

// readLine returns the next input line, trimmed. io.EOF when input is closed.
func (c *Console) readLine() (string, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.scanner.Text()), nil
}

// Select prompts until the user enters a valid choice index, an exact
// choice value, or (permissive mode) any non-empty free-form value.
func (c *Console) Select(prompt string, choices []string) (string, error) {
	for {
		fmt.Fprintf(c.out, "\n%s\n", prompt)
		for i, v := range choices {
			fmt.Fprintf(c.out, "%d. %s\n", i+1, v)
		}
		if c.strict {
			fmt.Fprint(c.out, "Enter number or value: ")
		} else {
			fmt.Fprint(c.out, "Enter number, value, or type your own: ")
		}
		line, err := c.readLine()
		if err != nil {
			return "", err
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(choices) {
			return choices[n-1], nil
		}
		found := false
		for _, v := range choices {
			if line == v {
				found = true
				break
			}
		}
		if found {
			return line, nil
		}
		if !c.strict && line != "" {
			return line, nil
		}
		fmt.Fprintln(c.out, "Invalid input, please try again.")
	}
}

// Input prompts until the user enters a non-empty line.
func (c *Console) Input(prompt string) (string, error) {
	for {
		fmt.Fprintf(c.out, "%s: ", prompt)
		line, err := c.readLine()
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
		fmt.Fprintln(c.out, "Invalid input, please try again.")
	}
}

// Confirm asks prompt with a (y/n) suffix. Only "y" or "yes"
// (case-insensitive) confirm; everything else, including EOF-free empty
// input, declines.
func (c *Console) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(c.out, "\n%s (y/n): ", prompt)
	line, err := c.readLine()
	if err != nil {
		return false, err
	}
	line = strings.ToLower(line)
	return line == "y" || line == "yes", nil
}
