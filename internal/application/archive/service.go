package archive

import (
	"context"

	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

// Service reads archived orders.
type Service interface {
	GetOrder(ctx context.Context, id string) (*order.Order, error)
	ListSessionOrders(ctx context.Context, sessionID string, limit int) ([]*order.Order, error)
}

type serviceImpl struct {
	repo order.Repository
}

// NewService returns a Service over repo. A nil repo yields a service that
// reports the archive as disabled.
func NewService(repo order.Repository) Service {
	return &serviceImpl{repo: repo}
}

func (s *serviceImpl) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	if s.repo == nil {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "order archive is not enabled")
	}
	if id == "" {
		return nil, errors.InvalidParam("order id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *serviceImpl) ListSessionOrders(ctx context.Context, sessionID string, limit int) ([]*order.Order, error) {
	if s.repo == nil {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "order archive is not enabled")
	}
	if sessionID == "" {
		return nil, errors.InvalidParam("session id is required")
	}
	return s.repo.ListBySession(ctx, sessionID, limit)
}
