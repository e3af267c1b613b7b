package app

import (
	"context"
	"errors"

	"company_reviews/internal/domain"
)

type QueryService struct {
	store domain.ReviewStore
}

func NewQueryService(s domain.ReviewStore) *QueryService {
	return &QueryService{store: s}
}

// Count returns the number of reviews currently stored.
func (s *QueryService) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, storeErr("count", err)
	}
	return n, nil
}

// GetPage validates limit then page before touching the store. A page whose
// offset overflows is empty without a store call. TotalCount is left zero;
// callers pair it with Count.
func (s *QueryService) GetPage(ctx context.Context, page, limit int) (domain.PageResult, error) {
	pr := domain.PageRequest{Page: page, Limit: limit}
	if err := pr.Validate(); err != nil {
		return domain.PageResult{}, err
	}

	offset, ok := pr.Offset()
	if !ok {
		return domain.PageResult{Items: []domain.Review{}}, nil
	}
	rs, err := s.store.FindPage(ctx, offset, pr.Limit)
	if err != nil {
		return domain.PageResult{}, storeErr("find_page", err)
	}
	if len(rs) > pr.Limit {
		rs = rs[:pr.Limit]
	}

	// copy slice to avoid aliasing the store's backing array
	out := domain.PageResult{Items: make([]domain.Review, len(rs))}
	copy(out.Items, rs)
	return out, nil
}

func storeErr(op string, err error) error {
	var se *domain.StoreError
	if errors.As(err, &se) {
		return err
	}
	return &domain.StoreError{Op: op, Err: err}
}
