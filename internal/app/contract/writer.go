package contract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"
	"petworld/internal/retry"
	"petworld/internal/scval"

	"go.uber.org/zap"
)

const (
	DefaultSettleDelay     = 2 * time.Second
	DefaultRefreshAttempts = 3
)

type Writer struct {
	Invoker         Invoker
	Reader          Reader
	SettleDelay     time.Duration
	RefreshAttempts int
	Logger          *zap.Logger
	Timer           retry.Timer
}

type WriteResult struct {
	Hash    string      `json:"hash"`
	TokenID uint64      `json:"token_id"`
	Pet     *pet.Record `json:"pet,omitempty"`
}

func (w Writer) Mint(ctx context.Context, name, owner string, signer ports.Signer) (WriteResult, error) {
	name, err := pet.ValidateName(name)
	if err != nil {
		return WriteResult{}, err
	}
	res, err := w.Invoker.Invoke(ctx, w.invocation("mint", owner, ports.AddressArg(owner), ports.StringArg(name)), signer)
	if err != nil {
		return WriteResult{Hash: res.Hash}, err
	}
	out := WriteResult{Hash: res.Hash}
	if id, ok := w.Reader.Decoder.Scalar(res.ReturnValue, scval.KindU128).SafeUint(); ok && id > 0 {
		out.TokenID = id
		out.Pet = w.refresh(ctx, id, owner)
	}
	return out, nil
}

func (w Writer) Feed(ctx context.Context, tokenID uint64, owner string, signer ports.Signer) (WriteResult, error) {
	return w.act(ctx, "feed", tokenID, owner, signer, ports.AddressArg(owner), ports.U128Arg(tokenID))
}

func (w Writer) Play(ctx context.Context, tokenID uint64, owner string, signer ports.Signer) (WriteResult, error) {
	return w.act(ctx, "play", tokenID, owner, signer, ports.AddressArg(owner), ports.U128Arg(tokenID))
}

// UpdateState applies the elapsed-time decay to a pet; any account may submit it.
func (w Writer) UpdateState(ctx context.Context, tokenID uint64, source string, signer ports.Signer) (WriteResult, error) {
	return w.act(ctx, "update_state", tokenID, source, signer, ports.U128Arg(tokenID))
}

func (w Writer) act(ctx context.Context, method string, tokenID uint64, source string, signer ports.Signer, args ...ports.Arg) (WriteResult, error) {
	if tokenID == 0 {
		return WriteResult{}, fmt.Errorf("%w: token id must be positive", ErrInvalidRequest)
	}
	res, err := w.Invoker.Invoke(ctx, w.invocation(method, source, args...), signer)
	if err != nil {
		return WriteResult{Hash: res.Hash, TokenID: tokenID}, err
	}
	return WriteResult{Hash: res.Hash, TokenID: tokenID, Pet: w.refresh(ctx, tokenID, source)}, nil
}

func (w Writer) invocation(method, source string, args ...ports.Arg) ports.Invocation {
	return ports.Invocation{Contract: w.Reader.Contract, Method: method, Args: args, Source: source}
}

// refresh re-reads the pet once the ledger has settled. A failed read does
// not fail the write; the caller gets no snapshot instead.
func (w Writer) refresh(ctx context.Context, tokenID uint64, source string) *pet.Record {
	log := w.logger().With(zap.Uint64("token_id", tokenID))
	if err := retry.Sleep(ctx, w.SettleDelay, w.Timer); err != nil {
		return nil
	}
	attempts := w.RefreshAttempts
	if attempts <= 0 {
		attempts = DefaultRefreshAttempts
	}
	opts := []retry.Option[pet.Record]{}
	if w.Timer != nil {
		opts = append(opts, retry.WithTimer[pet.Record](w.Timer))
	}
	rec, err := retry.Until(ctx, retry.Policy{MaxAttempts: attempts, Interval: w.SettleDelay},
		func(ctx context.Context) (pet.Record, error) {
			return w.Reader.PetInfo(ctx, tokenID, source)
		}, opts...)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Warn("pet refresh after write failed", zap.Error(err))
		}
		return nil
	}
	return &rec
}

func (w Writer) logger() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}
	return w.Logger
}
