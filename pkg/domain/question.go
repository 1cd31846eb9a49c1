package domain

import (
	"fmt"
	"strings"
)

// Question is one soft-skills statement from the external question bank.
type Question struct {
	ID   int    `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
	// Skill optionally names the trait the question measures.
	Skill string `json:"skill,omitempty" yaml:"skill,omitempty"`
}

// AnswerValue is the user's agreement with a question.
type AnswerValue string

const (
	Agree    AnswerValue = "Agree"
	Neutral  AnswerValue = "Neutral"
	Disagree AnswerValue = "Disagree"
)

// ParseAnswerValue accepts Agree, Neutral or Disagree in any letter case.
func ParseAnswerValue(s string) (AnswerValue, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "agree":
		return Agree, nil
	case "neutral":
		return Neutral, nil
	case "disagree":
		return Disagree, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAnswer, s)
}

// Answer records the response to one question.
type Answer struct {
	QuestionID int         `json:"question_id"`
	Value      AnswerValue `json:"answer"`
}
