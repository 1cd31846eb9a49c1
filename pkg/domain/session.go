package domain

import "time"

// StageFlags are the persisted completion markers of a session.
// Flags only move from false to true; nothing in this package resets them.
type StageFlags struct {
	ResumeDone     bool `json:"resume_done"`
	JDDone         bool `json:"jd_done"`
	SoftSkillsDone bool `json:"soft_skills_done"`
	TechnicalDone  bool `json:"technical_done"`
}

// Done reports whether the stage has been completed.
// StageResult has no flag of its own and is never "done".
func (f StageFlags) Done(s Stage) bool {
	switch s {
	case StageResume:
		return f.ResumeDone
	case StageJobDescription:
		return f.JDDone
	case StageSoftSkills:
		return f.SoftSkillsDone
	case StageTechnical:
		return f.TechnicalDone
	}
	return false
}

// Mark sets the flag of the stage. It reports whether the flag changed.
func (f *StageFlags) Mark(s Stage) bool {
	var flag *bool
	switch s {
	case StageResume:
		flag = &f.ResumeDone
	case StageJobDescription:
		flag = &f.JDDone
	case StageSoftSkills:
		flag = &f.SoftSkillsDone
	case StageTechnical:
		flag = &f.TechnicalDone
	default:
		return false
	}
	if *flag {
		return false
	}
	*flag = true
	return true
}

// Session is one user's pass through the assessment.
type Session struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Flags     StageFlags `json:"flags"`
	CreatedAt time.Time  `json:"created_at"`

	// Results is filled once the technical stage completes.
	Results Results `json:"results,omitempty"`
}

// NewSession creates a session with no stage completed.
func NewSession(id, email string) *Session {
	return &Session{
		ID:        id,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
}

// Snapshot returns a deep copy of the session.
func (s *Session) Snapshot() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Results = s.Results.Clone()
	return &c
}
