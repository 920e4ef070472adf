package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"
	"petworld/internal/scval"
)

var ErrInvalidRequest = errors.New("invalid metadata request")

// UseCase addresses metadata rows by wallet address rather than user id.
// Reads never create users; Save creates the user and row in one transaction.
type UseCase struct {
	TxManager ports.TxManager
	Users     ports.UserRepository
	Metadata  ports.MetadataRepository
}

func (u UseCase) Get(ctx context.Context, wallet string, petID uint64) (pet.Metadata, error) {
	if err := validKey(wallet, petID); err != nil {
		return pet.Metadata{}, err
	}
	user, err := u.Users.FindByWallet(ctx, wallet)
	if err != nil {
		return pet.Metadata{}, err
	}
	return u.Metadata.Get(ctx, user.ID, petID)
}

func (u UseCase) List(ctx context.Context, wallet string) (ListResponse, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return ListResponse{}, ErrInvalidRequest
	}
	out := ListResponse{WalletAddress: wallet, Pets: []pet.Metadata{}}
	user, err := u.Users.FindByWallet(ctx, wallet)
	if errors.Is(err, ports.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return ListResponse{}, err
	}
	rows, err := u.Metadata.ListByUser(ctx, user.ID)
	if err != nil {
		return ListResponse{}, err
	}
	out.Pets = append(out.Pets, rows...)
	return out, nil
}

// Save applies the patch to the existing row, or to an empty one when the
// pet has no metadata yet. A new row needs a valid pet name.
func (u UseCase) Save(ctx context.Context, req SaveRequest) (pet.Metadata, error) {
	if err := validKey(req.WalletAddress, req.PetID); err != nil {
		return pet.Metadata{}, err
	}
	if req.Patch.PetName != nil {
		name, err := pet.ValidateName(*req.Patch.PetName)
		if err != nil {
			return pet.Metadata{}, err
		}
		req.Patch.PetName = &name
	}
	if ct := req.Patch.CreatureType; ct != nil && !ct.Valid() {
		return pet.Metadata{}, fmt.Errorf("%w: unknown creature type %q", ErrInvalidRequest, *ct)
	}

	var saved pet.Metadata
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		user, err := u.Users.GetOrCreateByWallet(txCtx, req.WalletAddress)
		if err != nil {
			return fmt.Errorf("get or create user: %w", err)
		}
		_, err = u.Metadata.Get(txCtx, user.ID, req.PetID)
		switch {
		case errors.Is(err, ports.ErrNotFound):
			next := req.Patch.Apply(pet.Metadata{UserID: user.ID, PetID: req.PetID})
			if next.PetName == "" {
				return pet.ErrInvalidName
			}
			saved, err = u.Metadata.Upsert(txCtx, next)
		case err == nil:
			saved, err = u.Metadata.Update(txCtx, user.ID, req.PetID, req.Patch)
		}
		return err
	})
	return saved, err
}

func (u UseCase) Delete(ctx context.Context, wallet string, petID uint64) error {
	if err := validKey(wallet, petID); err != nil {
		return err
	}
	user, err := u.Users.FindByWallet(ctx, wallet)
	if err != nil {
		return err
	}
	return u.Metadata.Delete(ctx, user.ID, petID)
}

func validKey(wallet string, petID uint64) error {
	if strings.TrimSpace(wallet) == "" || petID == 0 || petID > scval.MaxSafeInteger {
		return ErrInvalidRequest
	}
	return nil
}
