package periods

import (
	"context"
	"time"
)

type StoreAPI interface {
	List(ctx context.Context, contractID string) ([]Period, error)
	Status(ctx context.Context, contractID string) (FixedStatus, error)
	Extend(ctx context.Context, contractID string, newEnd time.Time, tipo, actorID string) (Period, error)
}

var _ StoreAPI = (*Store)(nil)
