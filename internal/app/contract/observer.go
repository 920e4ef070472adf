package contract

import (
	"fmt"

	"petworld/internal/app/ports"
	"petworld/internal/scval"

	"go.uber.org/zap"
)

// DecodeObserver reports fields that could not be decoded. Either argument may be nil.
func DecodeObserver(m ports.DecodeMetrics, log *zap.Logger) scval.Observer {
	if log == nil {
		log = zap.NewNop()
	}
	return func(v scval.Value, k scval.Kind) {
		if m != nil {
			m.RecordUnparseable(k.String())
		}
		log.Debug("unparseable contract field", zap.Stringer("kind", k), zap.String("value", fmt.Sprintf("%#v", v)))
	}
}
