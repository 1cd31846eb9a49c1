package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/schema"
)

// Backend routes.
const (
	PathQuestions   = "/questions/soft-skills/questions"
	PathAnswerBatch = "/questions/soft-skills/answers/batch"
	PathResults     = "/questions/soft-skills/results"
	PathTopDomains  = "/technical/top-domains"
	PathSelect      = "/technical/select"
	PathTree        = "/technical/tree"
	PathResume      = "/resume/upload"
	PathJD          = "/jd/"
)

// questionItem accepts the text under any of the field names the backend has used.
type questionItem struct {
	ID           json.Number `json:"id"`
	QuestionID   json.Number `json:"question_id"`
	QuestionText string      `json:"question_text"`
	Text         string      `json:"text"`
	Question     string      `json:"question"`
	Content      string      `json:"content"`
	Body         string      `json:"body"`
	Skill        string      `json:"skill"`
	Category     string      `json:"category"`
}

func (q questionItem) toDomain() (domain.Question, error) {
	raw := q.ID
	if raw == "" {
		raw = q.QuestionID
	}
	id, err := strconv.Atoi(raw.String())
	if err != nil {
		return domain.Question{}, fmt.Errorf("invalid question id %q", raw)
	}
	text := firstNonEmpty(q.QuestionText, q.Text, q.Question, q.Content, q.Body)
	skill := firstNonEmpty(q.Skill, q.Category)
	return domain.Question{ID: id, Text: text, Skill: skill}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// FetchQuestions loads one page of the soft-skills questionnaire.
func (c *Client) FetchQuestions(ctx context.Context, limit, offset int) ([]domain.Question, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var resp struct {
		Items []questionItem `json:"items"`
	}
	if err := c.getJSON(ctx, PathQuestions, q, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Question, 0, len(resp.Items))
	for _, item := range resp.Items {
		question, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, question)
	}
	return out, nil
}

type answerBatch struct {
	SessionID string          `json:"session_id"`
	Answers   []domain.Answer `json:"answers"`
}

// SubmitAnswerBatch sends one answered page.
func (c *Client) SubmitAnswerBatch(ctx context.Context, sessionID string, answers []domain.Answer) error {
	return c.postJSON(ctx, PathAnswerBatch, sessionQuery(sessionID), answerBatch{SessionID: sessionID, Answers: answers}, nil)
}

// FetchTopDomains returns the ranked domains of a session. Backends that only
// expose the single selected domain are supported as a one-element ranking.
func (c *Client) FetchTopDomains(ctx context.Context, sessionID string) ([]domain.DomainScore, error) {
	var raw json.RawMessage
	err := c.getJSON(ctx, PathTopDomains, sessionQuery(sessionID), &raw)
	if IsStatus(err, http.StatusNotFound) {
		return c.fetchSelectedDomain(ctx, sessionID)
	}
	if err != nil {
		return nil, err
	}

	var scores []domain.DomainScore
	if err := json.Unmarshal(raw, &scores); err == nil {
		return scores, nil
	}
	var wrapped struct {
		Domains []domain.DomainScore `json:"domains"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decoding top domains: %w", err)
	}
	return wrapped.Domains, nil
}

func (c *Client) fetchSelectedDomain(ctx context.Context, sessionID string) ([]domain.DomainScore, error) {
	var resp struct {
		SelectedDomain string `json:"selected_domain"`
	}
	if err := c.getJSON(ctx, PathSelect, sessionQuery(sessionID), &resp); err != nil {
		return nil, err
	}
	if resp.SelectedDomain == "" {
		return []domain.DomainScore{}, nil
	}
	return []domain.DomainScore{{Domain: resp.SelectedDomain, Score: 1}}, nil
}

// FetchDomainTree downloads and parses the tree document of a domain.
// A missing tree is reported as domain.ErrInvalidTree.
func (c *Client) FetchDomainTree(ctx context.Context, domainName string) (*domain.DecisionTree, error) {
	q := url.Values{}
	q.Set("domain_name", domainName)

	var resp struct {
		Tree json.RawMessage `json:"tree"`
	}
	err := c.getJSON(ctx, PathTree, q, &resp)
	if IsStatus(err, http.StatusNotFound) {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTree, err)
	}
	if err != nil {
		return nil, err
	}
	if len(resp.Tree) == 0 || string(resp.Tree) == "null" {
		return nil, fmt.Errorf("%w: backend returned no tree for %q", domain.ErrInvalidTree, domainName)
	}
	return schema.ParseTree(resp.Tree)
}

// FetchSoftSkillsSummary returns the scored soft skills of a session.
func (c *Client) FetchSoftSkillsSummary(ctx context.Context, sessionID string) (map[string]float64, error) {
	var resp struct {
		Result map[string]float64 `json:"result"`
	}
	if err := c.getJSON(ctx, PathResults, sessionQuery(sessionID), &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		resp.Result = map[string]float64{}
	}
	return resp.Result, nil
}

// UploadResume sends the resume as a multipart "file" field.
func (c *Client) UploadResume(ctx context.Context, sessionID, filename string, r io.Reader) error {
	return c.postMultipart(ctx, PathResume, sessionQuery(sessionID), "file", filename, r)
}

type jobDescription struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
	Text      string `json:"text"`
}

// SubmitJobDescription sends the target job description.
func (c *Client) SubmitJobDescription(ctx context.Context, sessionID, title, text string) error {
	return c.postJSON(ctx, PathJD, sessionQuery(sessionID), jobDescription{SessionID: sessionID, Title: title, Text: text}, nil)
}
