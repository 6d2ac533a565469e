package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrInputClosed is returned when input ends before a prompt is answered.
var ErrInputClosed = errors.New("input closed before all questions were answered")

// Prompter asks questions on a line-oriented terminal and re-prompts until
// the answer is acceptable. An empty answer to a numeric question means 0.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter reads answers from r and writes questions to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(r), out: w}
}

func (p *Prompter) readLine(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("reading answer: %w", err)
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// Float asks for a non-negative number.
func (p *Prompter) Float(question string) (float64, error) {
	for {
		answer, err := p.readLine(question)
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return 0, nil
		}
		v, parseErr := strconv.ParseFloat(answer, 64)
		switch {
		case parseErr != nil || math.IsNaN(v) || math.IsInf(v, 0):
			fmt.Fprintln(p.out, "Invalid input. Please enter a valid number.")
		case v < 0:
			fmt.Fprintln(p.out, "Please enter a non-negative number.")
		default:
			return v, nil
		}
	}
}

// Int asks for a non-negative whole number.
func (p *Prompter) Int(question string) (int, error) {
	for {
		answer, err := p.readLine(question)
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return 0, nil
		}
		v, parseErr := strconv.Atoi(answer)
		switch {
		case parseErr != nil:
			fmt.Fprintln(p.out, "Invalid input. Please enter a whole number.")
		case v < 0:
			fmt.Fprintln(p.out, "Please enter a non-negative number.")
		default:
			return v, nil
		}
	}
}

// Choice lists options as a numbered menu and returns the selected option.
// The option name itself is accepted as well as its number.
func (p *Prompter) Choice(question string, options []string) (string, error) {
	for {
		fmt.Fprintln(p.out, question)
		for i, opt := range options {
			fmt.Fprintf(p.out, "  %d. %s\n", i+1, displayName(opt))
		}
		answer, err := p.readLine("Enter your choice: ")
		if err != nil {
			return "", err
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		for _, opt := range options {
			if strings.EqualFold(answer, opt) {
				return opt, nil
			}
		}
		fmt.Fprintln(p.out, "Invalid choice. Please try again.")
	}
}

// displayName turns "high_meat" into "High meat".
func displayName(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
