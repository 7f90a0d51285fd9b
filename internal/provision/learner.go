package provision

import (
	"context"

	"github.com/abhisek/wordiz/internal/auth"
	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/vocab"
)

// ForLearner binds every call on svc to learnerID. The terminal UI uses it
// to run a Local service as the configured learner. Client ignores the
// context learner, since the server takes it from the bearer token.
func ForLearner(svc Service, learnerID string) Service {
	if learnerID == "" {
		return svc
	}
	return &learnerService{next: svc, learnerID: learnerID}
}

type learnerService struct {
	next      Service
	learnerID string
}

func (s *learnerService) ctx(ctx context.Context) context.Context {
	return auth.WithLearner(ctx, s.learnerID)
}

func (s *learnerService) Start(ctx context.Context, cfg Config) (*Provisioned, error) {
	return s.next.Start(s.ctx(ctx), cfg)
}

func (s *learnerService) Submit(ctx context.Context, sessionID string, results []session.Result) (*Receipt, error) {
	return s.next.Submit(s.ctx(ctx), sessionID, results)
}

func (s *learnerService) Languages(ctx context.Context) ([]vocab.Language, error) {
	return s.next.Languages(s.ctx(ctx))
}

func (s *learnerService) Domains(ctx context.Context) ([]vocab.Domain, error) {
	return s.next.Domains(s.ctx(ctx))
}

func (s *learnerService) History(ctx context.Context, limit int) ([]SessionInfo, error) {
	return s.next.History(s.ctx(ctx), limit)
}

func (s *learnerService) Session(ctx context.Context, id string) (*SessionDetail, error) {
	return s.next.Session(s.ctx(ctx), id)
}

func (s *learnerService) Stats(ctx context.Context) (*Stats, error) {
	return s.next.Stats(s.ctx(ctx))
}
