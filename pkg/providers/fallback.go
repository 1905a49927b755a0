package providers

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Fallback tries its providers in a fixed priority order and returns the
// first successful result.
type Fallback struct {
	providers []StatsProvider
	log       logrus.FieldLogger
}

// NewFallback builds a fallback chain. A nil logger discards output.
func NewFallback(log logrus.FieldLogger, providers ...StatsProvider) *Fallback {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Fallback{providers: providers, log: log}
}

// Providers returns the chain in attempt order.
func (f *Fallback) Providers() []StatsProvider {
	return append([]StatsProvider(nil), f.providers...)
}

// FetchStats returns the first provider's stats that succeed. When every
// provider fails the result is an *AllFailedError. A cancelled context stops
// the chain and is returned as is.
func (f *Fallback) FetchStats(ctx context.Context, username string) (NormalizedStats, error) {
	var errs []error
	for _, p := range f.providers {
		if err := ctx.Err(); err != nil {
			return NormalizedStats{}, err
		}

		log := f.log.WithFields(logrus.Fields{"provider": p.Name(), "username": username})
		log.Debug("Trying provider")

		stats, err := p.FetchStats(ctx, username)
		if err == nil {
			log.Debug("Provider returned stats")
			return stats, nil
		}

		if ctx.Err() != nil {
			return NormalizedStats{}, ctx.Err()
		}

		log.Warnf("Provider failed: %v", err)
		errs = append(errs, Fail(p.Name(), err))
	}
	return NormalizedStats{}, &AllFailedError{Errors: errs}
}
