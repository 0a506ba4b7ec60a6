package novedades

import "context"

type StoreAPI interface {
	ListByContract(ctx context.Context, contractID string) ([]Novedad, error)
	ListByCategory(ctx context.Context, contractID string, cat Category) ([]Novedad, error)
	Create(ctx context.Context, n Novedad) (Novedad, error)
	HasTermination(ctx context.Context, contractID string) (bool, error)
}

var _ StoreAPI = (*Store)(nil)
