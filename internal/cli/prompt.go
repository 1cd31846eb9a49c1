package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/careerflow/internal/presentation/tui"
	"golang.org/x/term"
)

// Prompter reads one answer per line and writes styled prompts.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	styles tui.Styles
	render func(string) (string, error)
}

// NewPrompter creates a Prompter. Plain disables colors and markdown styling.
func NewPrompter(in io.Reader, out io.Writer, plain bool) *Prompter {
	return &Prompter{
		in:     bufio.NewReader(in),
		out:    out,
		styles: tui.NewStyles(plain),
		render: tui.NewRenderer(plain),
	}
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Ask prints the question and a hint and returns the trimmed answer.
// "quit" and "exit" end the run.
func (p *Prompter) Ask(ctx context.Context, question, hint string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintln(p.out, p.styles.Question(question))
	if hint != "" {
		fmt.Fprintln(p.out, p.styles.Hint(hint))
	}
	fmt.Fprint(p.out, "> ")

	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	answer := strings.TrimSpace(line)
	switch strings.ToLower(answer) {
	case "quit", "exit":
		return "", errQuit
	}
	return answer, nil
}

// Confirm asks a yes/no question; an empty answer takes the default.
func (p *Prompter) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	hint := "[Y/n]"
	if !def {
		hint = "[y/N]"
	}
	for {
		answer, err := p.Ask(ctx, question, hint)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.Errorf("Please answer yes or no.")
	}
}

// Errorf prints an error line.
func (p *Prompter) Errorf(format string, args ...any) {
	fmt.Fprintln(p.out, p.styles.Error(fmt.Sprintf(format, args...)))
}

// Successf prints a completion line.
func (p *Prompter) Successf(format string, args ...any) {
	fmt.Fprintln(p.out, p.styles.Success(fmt.Sprintf(format, args...)))
}

// Markdown renders and prints a markdown document.
func (p *Prompter) Markdown(md string) {
	out, err := p.render(md)
	if err != nil {
		out = md
	}
	fmt.Fprint(p.out, out)
}

// withRetry runs op and, while it fails with a retryable error and the user agrees,
// runs retry.
func (p *Prompter) withRetry(ctx context.Context, op, retry func() error) error {
	err := op()
	for err != nil && isRetryable(err) {
		p.Errorf("%v", err)
		again, askErr := p.Confirm(ctx, "Retry?", true)
		if askErr != nil {
			return askErr
		}
		if !again {
			return err
		}
		err = retry()
	}
	return err
}
