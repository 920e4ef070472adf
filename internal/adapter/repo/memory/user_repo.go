package memory

import (
	"context"
	"strings"

	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"

	"github.com/google/uuid"
)

type UserRepo struct {
	store *Store
}

func NewUserRepo(store *Store) UserRepo {
	return UserRepo{store: store}
}

func (r UserRepo) GetOrCreateByWallet(ctx context.Context, wallet string) (pet.User, error) {
	wallet = strings.TrimSpace(wallet)
	var out pet.User
	err := r.store.do(ctx, func() error {
		if u, ok := r.store.users[wallet]; ok {
			out = u
			return nil
		}
		now := r.store.now()
		out = pet.User{ID: uuid.NewString(), WalletAddress: wallet, CreatedAt: now, UpdatedAt: now}
		r.store.users[wallet] = out
		return nil
	})
	return out, err
}

func (r UserRepo) FindByWallet(ctx context.Context, wallet string) (pet.User, error) {
	wallet = strings.TrimSpace(wallet)
	var out pet.User
	err := r.store.do(ctx, func() error {
		u, ok := r.store.users[wallet]
		if !ok {
			return ports.ErrNotFound
		}
		out = u
		return nil
	})
	return out, err
}
