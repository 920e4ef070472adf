package sweep

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petworld/internal/app/contract"
	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"
	"petworld/internal/retry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultMaxConsecutiveMisses = 10
	DefaultMaxScan              = 10000
	DefaultScanDelay            = 100 * time.Millisecond
	DefaultUpdateDelay          = 500 * time.Millisecond
)

var ErrInvalidRequest = errors.New("invalid sweep request")

type PetReader interface {
	PetInfo(ctx context.Context, tokenID uint64, source string) (pet.Record, error)
}

type StateUpdater interface {
	UpdateState(ctx context.Context, tokenID uint64, source string, signer ports.Signer) (contract.WriteResult, error)
}

type Failure struct {
	PetID uint64 `json:"pet_id"`
	Error string `json:"error"`
}

type Report struct {
	RunID    string    `json:"run_id"`
	Scanned  int       `json:"scanned"`
	Found    []uint64  `json:"found"`
	Updated  []uint64  `json:"updated"`
	Failures []Failure `json:"failures"`
}

func (r Report) OK() bool { return len(r.Failures) == 0 }

// UseCase applies update_state to every pet in the contract. Token ids are
// discovered by probing upward from 1 until too many consecutive ids miss.
type UseCase struct {
	Reader               PetReader
	Updater              StateUpdater
	Signer               ports.Signer
	Source               string
	MaxConsecutiveMisses int
	MaxScan              int
	ScanDelay            time.Duration
	UpdateDelay          time.Duration
	Timer                retry.Timer
	Logger               *zap.Logger
}

func (u UseCase) Execute(ctx context.Context) (Report, error) {
	if strings.TrimSpace(u.Source) == "" || u.Signer == nil {
		return Report{}, fmt.Errorf("%w: source account and signer are required", ErrInvalidRequest)
	}
	report := Report{RunID: uuid.NewString(), Found: []uint64{}, Updated: []uint64{}, Failures: []Failure{}}
	log := u.logger().With(zap.String("run_id", report.RunID))

	found, scanned, err := u.scan(ctx, log)
	report.Found = found
	report.Scanned = scanned
	if err != nil {
		return report, err
	}
	log.Info("sweep scan finished", zap.Int("scanned", scanned), zap.Int("found", len(found)))

	for i, id := range found {
		if i > 0 {
			if err := retry.Sleep(ctx, u.UpdateDelay, u.Timer); err != nil {
				return report, err
			}
		}
		if _, err := u.Updater.UpdateState(ctx, id, u.Source, u.Signer); err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			log.Warn("pet update failed", zap.Uint64("pet_id", id), zap.Error(err))
			report.Failures = append(report.Failures, Failure{PetID: id, Error: err.Error()})
			continue
		}
		report.Updated = append(report.Updated, id)
	}
	log.Info("sweep finished", zap.Int("updated", len(report.Updated)), zap.Int("failed", len(report.Failures)))
	return report, nil
}

func (u UseCase) scan(ctx context.Context, log *zap.Logger) ([]uint64, int, error) {
	maxMisses := u.MaxConsecutiveMisses
	if maxMisses <= 0 {
		maxMisses = DefaultMaxConsecutiveMisses
	}
	maxScan := u.MaxScan
	if maxScan <= 0 {
		maxScan = DefaultMaxScan
	}
	found := []uint64{}
	misses := 0
	scanned := 0
	for id := uint64(1); scanned < maxScan; id++ {
		if scanned > 0 {
			if err := retry.Sleep(ctx, u.ScanDelay, u.Timer); err != nil {
				return found, scanned, err
			}
		}
		scanned++
		rec, err := u.Reader.PetInfo(ctx, id, u.Source)
		switch {
		case err == nil && rec.Found():
			found = append(found, id)
			misses = 0
			continue
		case err != nil && ctx.Err() != nil:
			return found, scanned, ctx.Err()
		case err != nil && !errors.Is(err, ports.ErrNotFound):
			log.Warn("unexpected error probing pet", zap.Uint64("pet_id", id), zap.Error(err))
		}
		misses++
		if misses >= maxMisses {
			log.Debug("stopping scan", zap.Uint64("last_checked", id), zap.Int("consecutive_misses", misses))
			break
		}
	}
	return found, scanned, nil
}

func (u UseCase) logger() *zap.Logger {
	if u.Logger == nil {
		return zap.NewNop()
	}
	return u.Logger
}
