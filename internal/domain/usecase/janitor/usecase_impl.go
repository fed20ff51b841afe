package janitor

import (
	"context"
	"fmt"

	"go-weather/internal/domain/gateway/cache"
	"go-weather/internal/domain/usecase/weather"
	"go-weather/pkg/log"
)

// SweepRecorder counts deleted keys.
type SweepRecorder interface {
	ObserveSweptKeys(n int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSweptKeys(int) {}

type janitorUseCase struct {
	store    cache.Store
	patterns []string
	recorder SweepRecorder
}

func NewJanitorUseCase(store cache.Store, recorder SweepRecorder) UseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &janitorUseCase{
		store:    store,
		patterns: weather.KeyPatterns,
		recorder: recorder,
	}
}

func (uc *janitorUseCase) Sweep(ctx context.Context) (int, error) {
	var keys []string
	for _, pattern := range uc.patterns {
		found, err := uc.store.ListKeys(ctx, pattern)
		if err != nil {
			return 0, fmt.Errorf("list keys matching %s: %w", pattern, err)
		}
		keys = append(keys, found...)
	}

	if len(keys) == 0 {
		log.Debug("No weather keys to sweep")
		return 0, nil
	}

	deleted, err := uc.store.Delete(ctx, keys...)
	uc.recorder.ObserveSweptKeys(deleted)
	if err != nil {
		return deleted, fmt.Errorf("delete %d weather keys: %w", len(keys), err)
	}
	return deleted, nil
}
