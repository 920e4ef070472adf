package ports

import (
	"context"

	"petworld/internal/domain/pet"
)

type UserRepository interface {
	GetOrCreateByWallet(ctx context.Context, wallet string) (pet.User, error)
	FindByWallet(ctx context.Context, wallet string) (pet.User, error)
}

type MetadataRepository interface {
	Upsert(ctx context.Context, m pet.Metadata) (pet.Metadata, error)
	Get(ctx context.Context, userID string, petID uint64) (pet.Metadata, error)
	ListByUser(ctx context.Context, userID string) ([]pet.Metadata, error)
	Update(ctx context.Context, userID string, petID uint64, patch pet.MetadataPatch) (pet.Metadata, error)
	Delete(ctx context.Context, userID string, petID uint64) error
}
