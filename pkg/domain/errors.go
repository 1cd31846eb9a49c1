package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidTree is returned when a decision tree document cannot be turned into a DecisionTree.
var ErrInvalidTree = errors.New("invalid decision tree")

// ErrNoRoot is returned when no root node can be detected in a decision tree.
// It is an input-validation failure: no walk state exists when it is reported.
var ErrNoRoot = errors.New("decision tree has no detectable root")

// ErrEmptyQuestionSet is returned when the question bank has nothing for the first batch.
var ErrEmptyQuestionSet = errors.New("question bank returned no questions")

// ErrWalkFinished is returned when a choice is made after the walk reached a terminal outcome.
var ErrWalkFinished = errors.New("walk already finished")

// ErrInvalidChoice is returned for choices other than yes/no.
var ErrInvalidChoice = errors.New("invalid choice")

// ErrInvalidAnswer is returned for answers other than Agree/Neutral/Disagree.
var ErrInvalidAnswer = errors.New("invalid answer")

// ErrAssessmentComplete is returned when input arrives after a stage finished.
var ErrAssessmentComplete = errors.New("assessment stage already complete")

// ErrNothingToRetry is returned by Retry when no operation failed.
var ErrNothingToRetry = errors.New("nothing to retry")
