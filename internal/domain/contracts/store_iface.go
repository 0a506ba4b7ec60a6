package contracts

import (
	"context"
	"time"
)

type StoreAPI interface {
	List(ctx context.Context, filter StoreFilter) ([]Contract, error)
	Get(ctx context.Context, id string) (Contract, error)
	ListEndingBetween(ctx context.Context, from, to time.Time) ([]Contract, error)
	Create(ctx context.Context, in Input, actorID string) (string, error)
	Update(ctx context.Context, id string, in Input, actorID string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Approve(ctx context.Context, id, actorID string) error
	SaveOnboarding(ctx context.Context, id string, o Onboarding, actorID string) error
}

var _ StoreAPI = (*Store)(nil)
