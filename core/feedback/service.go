package feedback

import (
	"context"
)

type (
	Repository interface {
		CreateFeedback(ctx context.Context, fb Feedback) (Feedback, error)
		QueryAllFeedback(ctx context.Context) ([]Feedback, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nf NewFeedback) (Feedback, error) {
	return svc.repo.CreateFeedback(ctx, Feedback{Text: nf.Text})
}

func (svc *Service) QueryAll(ctx context.Context) ([]Feedback, error) {
	return svc.repo.QueryAllFeedback(ctx)
}
