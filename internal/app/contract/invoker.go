package contract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petworld/internal/app/ports"
	"petworld/internal/retry"
	"petworld/internal/scval"

	"go.uber.org/zap"
)

const (
	DefaultConfirmAttempts = 10
	DefaultConfirmInterval = time.Second
)

var (
	ErrInvalidRequest = errors.New("invalid contract request")
	ErrSigningFailed  = errors.New("transaction signing failed")
	ErrTxFailed       = errors.New("transaction failed")
	ErrNotConfirmed   = errors.New("transaction not confirmed")
)

type InvokeResult struct {
	Hash        string
	ReturnValue scval.Value
}

// Invoker runs a state-changing contract call end to end:
// simulate, prepare, sign, send, then wait for the ledger to confirm it.
type Invoker struct {
	Transport         ports.LedgerTransport
	NetworkPassphrase string
	Confirm           retry.Policy
	Logger            *zap.Logger
	Timer             retry.Timer
}

func (i Invoker) Invoke(ctx context.Context, inv ports.Invocation, signer ports.Signer) (InvokeResult, error) {
	if i.Transport == nil || signer == nil {
		return InvokeResult{}, fmt.Errorf("%w: transport and signer are required", ErrInvalidRequest)
	}
	if strings.TrimSpace(inv.Source) == "" {
		return InvokeResult{}, fmt.Errorf("%w: source account is required", ErrInvalidRequest)
	}
	log := i.logger().With(zap.String("method", inv.Method), zap.String("source", inv.Source))

	retval, err := i.Transport.Simulate(ctx, inv)
	if err != nil {
		return InvokeResult{}, err
	}
	envelope, err := i.Transport.Prepare(ctx, inv)
	if err != nil {
		return InvokeResult{}, fmt.Errorf("prepare %s: %w", inv.Method, err)
	}
	signed, err := signer.Sign(ctx, envelope, ports.SignOptions{
		Address:           inv.Source,
		NetworkPassphrase: i.NetworkPassphrase,
	})
	if err != nil {
		return InvokeResult{}, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}
	if signed == "" {
		return InvokeResult{}, ErrSigningFailed
	}
	hash, err := i.Transport.Send(ctx, signed)
	if err != nil {
		return InvokeResult{}, fmt.Errorf("send %s: %w", inv.Method, err)
	}
	log = log.With(zap.String("hash", hash))
	log.Info("transaction submitted")

	if err := i.confirm(ctx, hash, log); err != nil {
		return InvokeResult{Hash: hash}, err
	}
	log.Info("transaction confirmed")
	return InvokeResult{Hash: hash, ReturnValue: retval}, nil
}

func (i Invoker) confirm(ctx context.Context, hash string, log *zap.Logger) error {
	policy := i.Confirm
	if policy.MaxAttempts == 0 {
		policy = retry.Policy{MaxAttempts: DefaultConfirmAttempts, Interval: DefaultConfirmInterval}
	}
	opts := []retry.Option[ports.Transaction]{
		retry.Classify(func(tx ports.Transaction) retry.Outcome {
			switch tx.Status {
			case ports.TxSuccess:
				return retry.Finish()
			case ports.TxFailed:
				return retry.Abort(ErrTxFailed)
			default:
				return retry.Continue()
			}
		}),
		retry.OnError[ports.Transaction](func(attempt int, err error) {
			log.Warn("transaction lookup failed", zap.Int("attempt", attempt), zap.Error(err))
		}),
	}
	if i.Timer != nil {
		opts = append(opts, retry.WithTimer[ports.Transaction](i.Timer))
	}
	_, err := retry.Until(ctx, policy, func(ctx context.Context) (ports.Transaction, error) {
		return i.Transport.GetTransaction(ctx, hash)
	}, opts...)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, retry.ErrExhausted):
		log.Error("transaction not confirmed", zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrNotConfirmed, hash, err)
	case errors.Is(err, ErrTxFailed):
		log.Error("transaction failed")
		return fmt.Errorf("%w: %s", ErrTxFailed, hash)
	default:
		return err
	}
}

func (i Invoker) logger() *zap.Logger {
	if i.Logger == nil {
		return zap.NewNop()
	}
	return i.Logger
}
