package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/walker"
)

const walkHint = "(y)es / (n)o / (b)ack"

// errBack asks the caller to undo the last answer.
var errBack = errors.New("back")

// askChoice prompts until the user gives yes, no or back.
func askChoice(ctx context.Context, p *Prompter, question string) (domain.Choice, error) {
	for {
		answer, err := p.Ask(ctx, question, walkHint)
		if err != nil {
			return "", err
		}
		switch strings.ToLower(answer) {
		case "b", "back":
			return "", errBack
		}
		choice, err := domain.ParseChoice(answer)
		if err == nil {
			return choice, nil
		}
		p.Errorf("Please answer yes, no or back.")
	}
}

// RunWalk walks a single decision tree interactively and returns its outcome.
func RunWalk(ctx context.Context, p *Prompter, w *walker.Walker) (domain.Outcome, error) {
	for !w.Finished() {
		node, ok := w.Node()
		if !ok {
			return "", walker.ErrNotLoaded
		}

		choice, err := askChoice(ctx, p, fmt.Sprintf("[%s] %s", w.Domain(), node.Question))
		if errors.Is(err, errBack) {
			if !w.Back(ctx) {
				p.Errorf("Nothing to undo.")
			}
			continue
		}
		if err != nil {
			return "", err
		}

		if _, err := w.Choose(ctx, choice); err != nil {
			return "", err
		}
	}

	outcome, _ := w.Outcome()
	p.Successf("%s: %s", w.Domain(), outcome)
	return outcome, nil
}
