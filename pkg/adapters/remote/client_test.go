package remote_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/careerflow/pkg/adapters/remote"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Backend = (*remote.Client)(nil)

func newServer(t *testing.T, mux *http.ServeMux) *remote.Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c, err := remote.New(srv.URL+"/", remote.WithTimeout(2*time.Second))
	require.NoError(t, err)
	return c
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := remote.New("ftp://example.com")
	assert.Error(t, err)
	_, err = remote.New("://bad")
	assert.Error(t, err)
}

func TestClient_FetchQuestions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/questions/soft-skills/questions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "10", r.URL.Query().Get("offset"))
		_, _ = io.WriteString(w, `{"items": [
			{"id": 11, "question_text": "I lead", "skill": "Leadership"},
			{"id": "12", "text": "I listen"},
			{"question_id": 13, "content": "I adapt", "category": "Adaptability"},
			{"id": 14, "body": "I plan"}
		]}`)
	})
	c := newServer(t, mux)

	qs, err := c.FetchQuestions(context.Background(), 10, 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.Question{
		{ID: 11, Text: "I lead", Skill: "Leadership"},
		{ID: 12, Text: "I listen"},
		{ID: 13, Text: "I adapt", Skill: "Adaptability"},
		{ID: 14, Text: "I plan"},
	}, qs)
}

func TestClient_SubmitAnswerBatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/questions/soft-skills/answers/batch", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "s1", r.URL.Query().Get("session_id"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "s1", body["session_id"])
		answers := body["answers"].([]any)
		require.Len(t, answers, 2)
		assert.Equal(t, map[string]any{"question_id": float64(1), "answer": "Agree"}, answers[0])
		w.WriteHeader(http.StatusCreated)
	})
	c := newServer(t, mux)

	err := c.SubmitAnswerBatch(context.Background(), "s1", []domain.Answer{
		{QuestionID: 1, Value: domain.Agree},
		{QuestionID: 2, Value: domain.Disagree},
	})
	assert.NoError(t, err)
}

func TestClient_StatusError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/questions/soft-skills/answers/batch", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "scorer down", http.StatusBadGateway)
	})
	c := newServer(t, mux)

	err := c.SubmitAnswerBatch(context.Background(), "s1", nil)
	require.Error(t, err)
	assert.True(t, remote.IsStatus(err, http.StatusBadGateway))
	assert.Contains(t, err.Error(), "scorer down")
}

func TestClient_FetchTopDomains(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/technical/top-domains", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s1", r.URL.Query().Get("session_id"))
		_, _ = io.WriteString(w, `[{"domain": "Backend", "score": 0.9}, {"domain": "Data", "score": 0.7}]`)
	})
	c := newServer(t, mux)

	scores, err := c.FetchTopDomains(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.DomainScore{{Domain: "Backend", Score: 0.9}, {Domain: "Data", Score: 0.7}}, scores)
}

func TestClient_FetchTopDomainsWrapped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/technical/top-domains", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"domains": [{"domain": "Data", "score": 0.7}]}`)
	})
	c := newServer(t, mux)

	scores, err := c.FetchTopDomains(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.DomainScore{{Domain: "Data", Score: 0.7}}, scores)
}

func TestClient_FetchTopDomainsFallsBackToSelect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/technical/select", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"selected_domain": "Backend"}`)
	})
	c := newServer(t, mux)

	scores, err := c.FetchTopDomains(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.DomainScore{{Domain: "Backend", Score: 1}}, scores)
}

func TestClient_FetchDomainTree(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/technical/tree", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("domain_name") {
		case "Backend":
			_, _ = io.WriteString(w, `{"tree": {
				"be_q1": {"question": "APIs?", "yes": "END_BE"},
				"endpoints": {"END_BE": ["Backend Engineer"]}
			}}`)
		case "Empty":
			_, _ = io.WriteString(w, `{"tree": null}`)
		default:
			http.NotFound(w, r)
		}
	})
	c := newServer(t, mux)
	ctx := context.Background()

	tree, err := c.FetchDomainTree(ctx, "Backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"Backend Engineer"}, tree.Roles("END_BE"))

	_, err = c.FetchDomainTree(ctx, "Empty")
	assert.ErrorIs(t, err, domain.ErrInvalidTree)

	_, err = c.FetchDomainTree(ctx, "Unknown")
	assert.ErrorIs(t, err, domain.ErrInvalidTree)
}

func TestClient_FetchSoftSkillsSummary(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/questions/soft-skills/results", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"result": {"Teamwork": 4.2, "Leadership": 3.1}}`)
	})
	c := newServer(t, mux)

	summary, err := c.FetchSoftSkillsSummary(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Teamwork": 4.2, "Leadership": 3.1}, summary)
}

func TestClient_Documents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/resume/upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s1", r.URL.Query().Get("session_id"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "cv.pdf", hdr.Filename)
		assert.Equal(t, "%PDF", string(data))
	})
	mux.HandleFunc("/jd/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"session_id": "s1", "title": "Go Dev", "text": "Build"}, body)
	})
	c := newServer(t, mux)
	ctx := context.Background()

	require.NoError(t, c.UploadResume(ctx, "s1", "cv.pdf", strings.NewReader("%PDF")))
	require.NoError(t, c.SubmitJobDescription(ctx, "s1", "Go Dev", "Build"))
}
