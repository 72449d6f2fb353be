package redis

import (
	"context"
	"time"

	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

// CachedOrderRepository serves FindByID from the cache in front of the
// archive. Archived orders never change, so entries are only ever added.
type CachedOrderRepository struct {
	order.Repository
	cache Cache
	ttl   time.Duration
}

// NewCachedOrderRepository wraps repo. A zero ttl uses the cache default.
func NewCachedOrderRepository(repo order.Repository, cache Cache, ttl time.Duration) *CachedOrderRepository {
	return &CachedOrderRepository{Repository: repo, cache: cache, ttl: ttl}
}

func orderKey(id string) string { return "order:" + id }

func (r *CachedOrderRepository) Save(ctx context.Context, o *order.Order) error {
	if err := r.Repository.Save(ctx, o); err != nil {
		return err
	}
	_ = r.cache.Set(ctx, orderKey(o.ID), o, r.ttl)
	return nil
}

func (r *CachedOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	err := r.cache.GetOrSet(ctx, orderKey(id), &o, r.ttl, func(ctx context.Context) (interface{}, error) {
		found, err := r.Repository.FindByID(ctx, id)
		if errors.IsCode(err, errors.ErrCodeOrderNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return found, nil
	})
	if err == ErrCacheMiss {
		return nil, errors.New(errors.ErrCodeOrderNotFound, "order not found").WithDetail(id)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
