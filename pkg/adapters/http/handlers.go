package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aretw0/careerflow/pkg/batcher"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/orchestrator"
	"github.com/go-playground/validator/v10"
)

// TopSkills is how many soft skills the result view lists.
const TopSkills = 5

var validate = validator.New()

type loginRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	Session  *domain.Session `json:"session"`
	Redirect string          `json:"redirect"`
}

// Login handles POST /api/login. A login while a session is active replaces it.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, err)
		return
	}

	var (
		sess *domain.Session
		err  error
	)
	if prev, ok := sessionFrom(r.Context()); ok {
		s.flows.drop(prev.ID)
		sess, err = s.sessions.Replace(r.Context(), prev.ID, body.Email)
	} else {
		sess, err = s.sessions.Start(r.Context(), body.Email)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	token, err := s.tokens.Issue(sess.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	s.writeJSON(w, http.StatusOK, sessionResponse{Session: sess, Redirect: s.gate.Furthest(sess.Flags)})
}

// Logout handles POST /api/logout. It destroys the session ("start new session").
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	s.flows.drop(sess.ID)
	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
		s.writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.writeJSON(w, http.StatusOK, map[string]string{"redirect": s.gate.LoginPath()})
}

// GetSession handles GET /api/session.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	s.writeJSON(w, http.StatusOK, sessionResponse{Session: sess, Redirect: s.gate.Furthest(sess.Flags)})
}

// UploadResume handles POST /api/resume (multipart field "file").
func (s *Server) UploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxResumeSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	defer file.Close()

	s.completeStage(w, r, domain.StageResume, func(ctx context.Context, sessionID string) error {
		if err := s.backend.UploadResume(ctx, sessionID, header.Filename, file); err != nil {
			return &upstreamError{op: "resume upload", err: err}
		}
		return nil
	})
}

type jdRequest struct {
	Title string `json:"title" validate:"required_without=Skip"`
	Text  string `json:"text" validate:"required_without=Skip"`
	Skip  bool   `json:"skip"`
}

// SubmitJobDescription handles POST /api/jd. Skipping still completes the stage.
func (s *Server) SubmitJobDescription(w http.ResponseWriter, r *http.Request) {
	var body jdRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	if err := validate.Struct(body); err != nil {
		s.writeError(w, err)
		return
	}

	s.completeStage(w, r, domain.StageJobDescription, func(ctx context.Context, sessionID string) error {
		if body.Skip {
			s.logger.Info("job description skipped", "session_id", sessionID)
			return nil
		}
		if err := s.backend.SubmitJobDescription(ctx, sessionID, body.Title, body.Text); err != nil {
			return &upstreamError{op: "job description submit", err: err}
		}
		return nil
	})
}

// completeStage runs fn and marks stage done, both under the session lock.
func (s *Server) completeStage(w http.ResponseWriter, r *http.Request, stage domain.Stage, fn func(context.Context, string) error) {
	sess, _ := sessionFrom(r.Context())
	var updated *domain.Session
	err := s.sessions.WithLock(r.Context(), sess.ID, func(ctx context.Context) error {
		if err := fn(ctx, sess.ID); err != nil {
			return err
		}
		var err error
		updated, err = s.sessions.MarkStageLocked(ctx, sess.ID, stage)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sessionResponse{Session: updated, Redirect: s.gate.Furthest(updated.Flags)})
}

type answerRequest struct {
	Value string `json:"value"`
}

// GetSoftSkills handles GET /api/soft-skills, loading the first page on first visit.
func (s *Server) GetSoftSkills(w http.ResponseWriter, r *http.Request) {
	s.questionnaireOp(w, r, func(ctx context.Context, b *batcher.Batcher) error {
		if _, ok := b.Current(); !ok && !b.Done() && b.Err() == nil {
			return b.Load(ctx)
		}
		return nil
	})
}

// AnswerSoftSkills handles POST /api/soft-skills/answers.
func (s *Server) AnswerSoftSkills(w http.ResponseWriter, r *http.Request) {
	var body answerRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	value, err := domain.ParseAnswerValue(body.Value)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.questionnaireOp(w, r, func(ctx context.Context, b *batcher.Batcher) error {
		return b.Record(ctx, value)
	})
}

// RetrySoftSkills handles POST /api/soft-skills/retry.
func (s *Server) RetrySoftSkills(w http.ResponseWriter, r *http.Request) {
	s.questionnaireOp(w, r, func(ctx context.Context, b *batcher.Batcher) error {
		return b.Retry(ctx)
	})
}

func (s *Server) questionnaireOp(w http.ResponseWriter, r *http.Request, op func(context.Context, *batcher.Batcher) error) {
	sess, _ := sessionFrom(r.Context())
	var state batcher.State
	err := s.withSession(r.Context(), sess.ID, func(ctx context.Context, current *domain.Session) error {
		f, ok := s.flows.peek(sess.ID)
		if current.Flags.SoftSkillsDone && (!ok || f.questionnaire == nil) {
			if r.Method != http.MethodGet {
				return domain.ErrAssessmentComplete
			}
			state = batcher.State{SessionID: sess.ID, Total: s.total, Number: s.total, Done: true}
			return nil
		}
		b, err := s.questionnaire(sess.ID)
		if err != nil {
			return err
		}
		err = op(ctx, b)
		state = b.Snapshot()
		if b.Done() {
			s.flows.get(sess.ID).questionnaire = nil
			s.flows.release(sess.ID)
		}
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

type choiceRequest struct {
	Choice string `json:"choice"`
}

type technicalResponse struct {
	orchestrator.State
	Finished bool           `json:"finished,omitempty"`
	Outcome  domain.Outcome `json:"outcome,omitempty"`
	Moved    *bool          `json:"moved,omitempty"`
}

// GetTechnical handles GET /api/technical, fetching the ranked domains on first visit.
func (s *Server) GetTechnical(w http.ResponseWriter, r *http.Request) {
	s.technicalOp(w, r, func(ctx context.Context, o *orchestrator.Orchestrator, resp *technicalResponse) error {
		if o.Done() || o.Err() != nil {
			return nil
		}
		return o.Start(ctx)
	})
}

// StartTechnical handles POST /api/technical/start.
func (s *Server) StartTechnical(w http.ResponseWriter, r *http.Request) {
	s.technicalOp(w, r, func(ctx context.Context, o *orchestrator.Orchestrator, resp *technicalResponse) error {
		return o.Start(ctx)
	})
}

// ChooseTechnical handles POST /api/technical/choice.
func (s *Server) ChooseTechnical(w http.ResponseWriter, r *http.Request) {
	var body choiceRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	choice, err := domain.ParseChoice(body.Choice)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.technicalOp(w, r, func(ctx context.Context, o *orchestrator.Orchestrator, resp *technicalResponse) error {
		step, err := o.Choose(ctx, choice)
		resp.Finished = step.Finished
		resp.Outcome = step.Outcome
		return err
	})
}

// BackTechnical handles POST /api/technical/back.
func (s *Server) BackTechnical(w http.ResponseWriter, r *http.Request) {
	s.technicalOp(w, r, func(ctx context.Context, o *orchestrator.Orchestrator, resp *technicalResponse) error {
		moved := o.Back(ctx)
		resp.Moved = &moved
		return nil
	})
}

// RetryTechnical handles POST /api/technical/retry.
func (s *Server) RetryTechnical(w http.ResponseWriter, r *http.Request) {
	s.technicalOp(w, r, func(ctx context.Context, o *orchestrator.Orchestrator, resp *technicalResponse) error {
		return o.Retry(ctx)
	})
}

func (s *Server) technicalOp(w http.ResponseWriter, r *http.Request, op func(context.Context, *orchestrator.Orchestrator, *technicalResponse) error) {
	sess, _ := sessionFrom(r.Context())
	var resp technicalResponse
	err := s.withSession(r.Context(), sess.ID, func(ctx context.Context, current *domain.Session) error {
		f, ok := s.flows.peek(sess.ID)
		if current.Flags.TechnicalDone && (!ok || f.technical == nil) {
			if r.Method != http.MethodGet {
				return domain.ErrAssessmentComplete
			}
			resp.State = orchestrator.State{
				SessionID: sess.ID,
				Results:   domain.OutcomeMap(current.Results),
				Done:      true,
			}
			return nil
		}
		o := s.technical(sess.ID)
		err := op(ctx, o, &resp)
		resp.State = o.Snapshot()
		if o.Done() {
			s.flows.get(sess.ID).technical = nil
			s.flows.release(sess.ID)
		}
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type resultResponse struct {
	Domains    domain.OutcomeMap   `json:"domains"`
	SoftSkills []domain.SkillScore `json:"soft_skills"`
	More       int                 `json:"more,omitempty"`
	Note       string              `json:"note,omitempty"`
	Error      string              `json:"soft_skills_error,omitempty"`
}

// GetResult handles GET /api/result.
func (s *Server) GetResult(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	resp := resultResponse{
		Domains:    domain.OutcomeMap(sess.Results),
		SoftSkills: []domain.SkillScore{},
	}

	summary, err := s.backend.FetchSoftSkillsSummary(r.Context(), sess.ID)
	if err != nil {
		s.logger.Warn("soft skills summary unavailable", "session_id", sess.ID, "err", err)
		resp.Error = err.Error()
	} else {
		top, more := domain.RankSkills(summary, TopSkills)
		resp.SoftSkills = top
		resp.More = more
		if more > 0 {
			resp.Note = fmt.Sprintf("%d more skills analyzed", more)
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}
