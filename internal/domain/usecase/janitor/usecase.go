package janitor

import "context"

// UseCase purges the weather namespaces of the cache.
type UseCase interface {
	// Sweep deletes every current weather and forecast entry and returns how many keys were removed.
	Sweep(ctx context.Context) (int, error)
}
