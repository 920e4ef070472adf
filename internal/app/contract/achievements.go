package contract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"
	"petworld/internal/scval"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultDetailConcurrency = 4

// AchievementReader reads the achievement contract. Every read is a
// simulation made on behalf of source.
type AchievementReader struct {
	Transport   ports.LedgerTransport
	Contract    string
	Decoder     scval.Decoder
	Concurrency int
	Logger      *zap.Logger
}

func (r AchievementReader) All(ctx context.Context, source string) ([]pet.Achievement, error) {
	v, err := r.read(ctx, "get_all_achievements", source)
	if err != nil {
		return nil, err
	}
	return r.details(ctx, decodeSummaryIDs(r.Decoder, v), source)
}

// Details returns one achievement with Earned set from has_earned for source.
func (r AchievementReader) Details(ctx context.Context, id uint64, source string) (pet.Achievement, error) {
	if id == 0 {
		return pet.Achievement{}, fmt.Errorf("%w: achievement id must be positive", ErrInvalidRequest)
	}
	v, err := r.read(ctx, "get_achievement_details", source, ports.U128Arg(id))
	if err != nil {
		return pet.Achievement{}, err
	}
	a, ok := DecodeAchievement(r.Decoder, v)
	if !ok {
		return pet.Achievement{}, fmt.Errorf("achievement %d: %w", id, ports.ErrNotFound)
	}
	earned, err := r.read(ctx, "has_earned", source, ports.AddressArg(source), ports.U128Arg(id))
	switch {
	case err == nil:
		a.Earned = r.Decoder.Scalar(earned, scval.KindBool).Bool()
	case errors.Is(err, ports.ErrNotFound):
	default:
		return pet.Achievement{}, err
	}
	return a, nil
}

func (r AchievementReader) ForPet(ctx context.Context, petID uint64, source string) (pet.PetAchievements, error) {
	ids, err := r.petAchievementIDs(ctx, petID, source)
	if err != nil {
		return pet.PetAchievements{}, err
	}
	list, err := r.details(ctx, ids, source)
	if err != nil {
		return pet.PetAchievements{}, err
	}
	return pet.PetAchievements{PetID: petID, Achievements: list, TotalCount: len(list)}, nil
}

func (r AchievementReader) ForUser(ctx context.Context, owner string) ([]pet.Achievement, error) {
	v, err := r.read(ctx, "get_user_achievements", owner, ports.AddressArg(owner))
	if errors.Is(err, ports.ErrNotFound) {
		return []pet.Achievement{}, nil
	}
	if err != nil {
		return nil, err
	}
	return r.details(ctx, r.Decoder.IDs(v), owner)
}

// WithStatus lists every achievement, marking the ones petID has earned.
func (r AchievementReader) WithStatus(ctx context.Context, petID uint64, source string) ([]pet.Achievement, error) {
	all, err := r.All(ctx, source)
	if err != nil {
		return nil, err
	}
	earned, err := r.petAchievementIDs(ctx, petID, source)
	if err != nil {
		return nil, err
	}
	return pet.MarkEarned(all, earned), nil
}

func (r AchievementReader) petAchievementIDs(ctx context.Context, petID uint64, source string) ([]uint64, error) {
	if petID == 0 {
		return nil, fmt.Errorf("%w: pet id must be positive", ErrInvalidRequest)
	}
	v, err := r.read(ctx, "get_pet_achievements", source, ports.U128Arg(petID))
	if errors.Is(err, ports.ErrNotFound) {
		return []uint64{}, nil
	}
	if err != nil {
		return nil, err
	}
	return r.Decoder.IDs(v), nil
}

// details fetches ids concurrently and keeps their order. Ids the contract
// does not know are skipped.
func (r AchievementReader) details(ctx context.Context, ids []uint64, source string) ([]pet.Achievement, error) {
	found := make([]*pet.Achievement, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultDetailConcurrency
	}
	g.SetLimit(limit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			a, err := r.Details(gctx, id, source)
			if errors.Is(err, ports.ErrNotFound) {
				r.logger().Debug("achievement missing", zap.Uint64("achievement_id", id))
				return nil
			}
			if err != nil {
				return err
			}
			found[i] = &a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make([]pet.Achievement, 0, len(ids))
	for _, a := range found {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r AchievementReader) read(ctx context.Context, method, source string, args ...ports.Arg) (scval.Value, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: source account is required", ErrInvalidRequest)
	}
	return r.Transport.Simulate(ctx, ports.Invocation{
		Contract: r.Contract,
		Method:   method,
		Args:     args,
		Source:   source,
	})
}

func (r AchievementReader) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
