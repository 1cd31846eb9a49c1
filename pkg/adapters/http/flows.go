package http

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/careerflow/pkg/batcher"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/orchestrator"
)

// flow is the in-memory assessment progress of one session.
// It is only touched under the session lock.
type flow struct {
	questionnaire *batcher.Batcher
	technical     *orchestrator.Orchestrator
}

type flowRegistry struct {
	mu    sync.Mutex
	flows map[string]*flow
}

func newFlowRegistry() *flowRegistry {
	return &flowRegistry{flows: make(map[string]*flow)}
}

func (r *flowRegistry) get(sessionID string) *flow {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flows[sessionID]
	if !ok {
		f = &flow{}
		r.flows[sessionID] = f
	}
	return f
}

// peek returns the session's flow without creating one.
func (r *flowRegistry) peek(sessionID string) (*flow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flows[sessionID]
	return f, ok
}

func (r *flowRegistry) drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flows, sessionID)
}

// release removes the entry once neither stage has a live flow.
func (r *flowRegistry) release(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.flows[sessionID]; ok && f.questionnaire == nil && f.technical == nil {
		delete(r.flows, sessionID)
	}
}

func (r *flowRegistry) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.flows))
	for id := range r.flows {
		ids = append(ids, id)
	}
	return ids
}

func (r *flowRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

// PruneFlows drops the in-memory flows of sessions the store no longer holds,
// such as sessions expired by a TTL. It returns the number of flows dropped.
func (s *Server) PruneFlows(ctx context.Context) (int, error) {
	pruned := 0
	for _, id := range s.flows.ids() {
		_, err := s.sessions.Store().Load(ctx, id)
		if errors.Is(err, domain.ErrSessionNotFound) {
			s.flows.drop(id)
			pruned++
			continue
		}
		if err != nil {
			return pruned, err
		}
	}
	if pruned > 0 {
		s.logger.Debug("pruned assessment flows", "count", pruned)
	}
	return pruned, nil
}

// ActiveFlows reports how many sessions hold an in-memory flow.
func (s *Server) ActiveFlows() int {
	return s.flows.size()
}

// questionnaire returns the session's batcher, creating it on first use.
func (s *Server) questionnaire(sessionID string) (*batcher.Batcher, error) {
	f := s.flows.get(sessionID)
	if f.questionnaire != nil {
		return f.questionnaire, nil
	}
	b, err := batcher.New(sessionID, s.backend, s.backend,
		batcher.WithPageSize(s.pageSize),
		batcher.WithTotal(s.total),
		batcher.WithHooks(s.hooks),
		batcher.WithLogger(s.logger),
		batcher.WithStageMarker(func(ctx context.Context, id string) error {
			_, err := s.sessions.MarkStageLocked(ctx, id, domain.StageSoftSkills)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	f.questionnaire = b
	return b, nil
}

// technical returns the session's orchestrator, creating it on first use.
func (s *Server) technical(sessionID string) *orchestrator.Orchestrator {
	f := s.flows.get(sessionID)
	if f.technical == nil {
		f.technical = orchestrator.New(sessionID, s.backend, s.backend,
			orchestrator.WithTopN(s.topN),
			orchestrator.WithHooks(s.hooks),
			orchestrator.WithLogger(s.logger),
			orchestrator.WithResultSink(s.sessions.SaveResultsLocked),
		)
	}
	return f.technical
}
