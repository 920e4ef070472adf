package contract

import (
	"context"
	"fmt"
	"strings"

	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"
	"petworld/internal/scval"
)

type Reader struct {
	Transport ports.LedgerTransport
	Contract  string
	Decoder   scval.Decoder
}

func (r Reader) PetInfo(ctx context.Context, tokenID uint64, source string) (pet.Record, error) {
	if tokenID == 0 {
		return pet.Record{}, fmt.Errorf("%w: token id must be positive", ErrInvalidRequest)
	}
	if strings.TrimSpace(source) == "" {
		return pet.Record{}, fmt.Errorf("%w: source account is required", ErrInvalidRequest)
	}
	v, err := r.Transport.Simulate(ctx, ports.Invocation{
		Contract: r.Contract,
		Method:   "get_pet_info",
		Args:     []ports.Arg{ports.U128Arg(tokenID)},
		Source:   source,
	})
	if err != nil {
		return pet.Record{}, err
	}
	rec := DecodePet(r.Decoder, v)
	if !rec.Found() {
		return pet.Record{}, fmt.Errorf("pet %d: %w", tokenID, ports.ErrNotFound)
	}
	return rec, nil
}

func (r Reader) UserPets(ctx context.Context, owner string) ([]uint64, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidRequest)
	}
	v, err := r.Transport.Simulate(ctx, ports.Invocation{
		Contract: r.Contract,
		Method:   "get_user_pets",
		Args:     []ports.Arg{ports.AddressArg(owner)},
		Source:   owner,
	})
	if err != nil {
		return nil, err
	}
	return r.Decoder.IDs(v), nil
}
