package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/careerflow"
	"github.com/aretw0/careerflow/internal/presentation/tui"
	"github.com/aretw0/careerflow/pkg/batcher"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/orchestrator"
	"github.com/spf13/afero"
)

// AssessOptions configures an interactive assessment run.
type AssessOptions struct {
	// Email identifies the session. Asked for when empty.
	Email string
	// ResumePath is read from Fs and uploaded. Asked for when empty.
	ResumePath string
	// SkipJD skips the job description stage without asking.
	SkipJD bool
	// Fs is where the resume is read from (default: the OS file system).
	Fs afero.Fs
}

const answerHint = "(a)gree / (n)eutral / (d)isagree"

// RunAssessment drives one session through every stage on the terminal
// and prints the result report.
func RunAssessment(ctx context.Context, eng *careerflow.Engine, p *Prompter, opts AssessOptions) (*domain.Session, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	email := opts.Email
	for email == "" {
		answer, err := p.Ask(ctx, "Email address", "")
		if err != nil {
			return nil, err
		}
		email = answer
	}
	sess, err := eng.StartSession(ctx, email)
	if err != nil {
		return nil, err
	}
	printSystemMessage(p.out, "Session '%s' active.", sess.ID)

	steps := []func(context.Context, *careerflow.Engine, *Prompter, string, AssessOptions) error{
		resumeStage,
		jobDescriptionStage,
		softSkillsStage,
		technicalStage,
	}
	for _, step := range steps {
		if err := step(ctx, eng, p, sess.ID, opts); err != nil {
			return nil, err
		}
	}

	sess, err = eng.Sessions().Load(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	showResult(ctx, eng, p, sess)
	return sess, nil
}

func resumeStage(ctx context.Context, eng *careerflow.Engine, p *Prompter, sessionID string, opts AssessOptions) error {
	path := opts.ResumePath
	for {
		if path == "" {
			answer, err := p.Ask(ctx, "Resume file", "path to your resume (PDF or DOCX)")
			if err != nil {
				return err
			}
			path = answer
			if path == "" {
				continue
			}
		}

		f, err := opts.Fs.Open(path)
		if err != nil {
			p.Errorf("Cannot open %s: %v", path, err)
			path = ""
			continue
		}
		upload := func() error {
			if _, err := f.Seek(0, 0); err != nil {
				return err
			}
			return eng.Backend().UploadResume(ctx, sessionID, filepath.Base(path), f)
		}
		err = p.withRetry(ctx, upload, upload)
		f.Close()
		if err != nil {
			return fmt.Errorf("resume upload failed: %w", err)
		}
		break
	}

	_, err := eng.CompleteStage(ctx, sessionID, domain.StageResume)
	return err
}

func jobDescriptionStage(ctx context.Context, eng *careerflow.Engine, p *Prompter, sessionID string, opts AssessOptions) error {
	if !opts.SkipJD {
		title, err := p.Ask(ctx, "Job title", "leave empty to skip the job description")
		if err != nil {
			return err
		}
		if title != "" {
			text, err := p.Ask(ctx, "Job description", "paste the description on one line")
			if err != nil {
				return err
			}
			if err := eng.Backend().SubmitJobDescription(ctx, sessionID, title, text); err != nil {
				return fmt.Errorf("job description submit failed: %w", err)
			}
		}
	}

	_, err := eng.CompleteStage(ctx, sessionID, domain.StageJobDescription)
	return err
}

func parseAnswer(s string) (domain.AnswerValue, error) {
	switch strings.ToLower(s) {
	case "a":
		return domain.Agree, nil
	case "n":
		return domain.Neutral, nil
	case "d":
		return domain.Disagree, nil
	}
	return domain.ParseAnswerValue(s)
}

func softSkillsStage(ctx context.Context, eng *careerflow.Engine, p *Prompter, sessionID string, _ AssessOptions) error {
	q, err := eng.Questionnaire(sessionID)
	if err != nil {
		return err
	}

	if err := p.withRetry(ctx, func() error { return q.Load(ctx) }, func() error { return q.Retry(ctx) }); err != nil {
		if errors.Is(err, domain.ErrEmptyQuestionSet) {
			return fmt.Errorf("soft skills: %w", err)
		}
		return err
	}

	for !q.Done() {
		question, ok := q.Current()
		if !ok {
			return batcher.ErrNotLoaded
		}
		number, total := q.Progress()

		answer, err := p.Ask(ctx, fmt.Sprintf("[%d/%d] %s", number, total, question.Text), answerHint)
		if err != nil {
			return err
		}
		value, err := parseAnswer(answer)
		if err != nil {
			p.Errorf("Please answer agree, neutral or disagree.")
			continue
		}

		err = p.withRetry(ctx, func() error { return q.Record(ctx, value) }, func() error { return q.Retry(ctx) })
		if err != nil {
			return err
		}
	}

	p.Successf("Soft skills questionnaire complete.")
	return nil
}

func technicalStage(ctx context.Context, eng *careerflow.Engine, p *Prompter, sessionID string, _ AssessOptions) error {
	tech := eng.Technical(sessionID)
	if err := p.withRetry(ctx, func() error { return tech.Start(ctx) }, func() error { return tech.Retry(ctx) }); err != nil {
		return err
	}

	for !tech.Done() {
		name, node, ok := tech.Current()
		if !ok {
			return orchestrator.ErrNotStarted
		}
		idx, count := tech.Progress()

		choice, err := askChoice(ctx, p, fmt.Sprintf("[%s %d/%d] %s", name, idx, count, node.Question))
		if errors.Is(err, errBack) {
			if !tech.Back(ctx) {
				p.Errorf("Nothing to undo.")
			}
			continue
		}
		if err != nil {
			return err
		}

		var step struct {
			finished bool
			outcome  domain.Outcome
		}
		choose := func() error {
			s, err := tech.Choose(ctx, choice)
			step.finished, step.outcome = s.Finished, s.Outcome
			return err
		}
		if err := p.withRetry(ctx, choose, func() error { return tech.Retry(ctx) }); err != nil {
			return err
		}
		if step.finished {
			p.Successf("%s: %s", name, step.outcome)
		}
	}
	return nil
}

func showResult(ctx context.Context, eng *careerflow.Engine, p *Prompter, sess *domain.Session) {
	var (
		skills []domain.SkillScore
		more   int
	)
	summary, err := eng.Backend().FetchSoftSkillsSummary(ctx, sess.ID)
	if err != nil {
		p.Errorf("Soft skills summary unavailable: %v", err)
	} else {
		skills, more = domain.RankSkills(summary, 5)
	}
	p.Markdown(tui.ResultMarkdown(sess.Results, skills, more))
}
