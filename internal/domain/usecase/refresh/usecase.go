package refresh

import (
	"context"

	"go-weather/internal/domain/entity"
)

// UseCase keeps cached weather warm by re-fetching it off the request path.
type UseCase interface {
	// ScheduleRefresh enqueues a first-attempt task for coords without waiting for it to run.
	ScheduleRefresh(ctx context.Context, coords entity.Coordinates, kind entity.RefreshKind) error

	// HandleTask runs one attempt of task. A nil result means the task is
	// finished with (success, retry scheduled, or dropped); an error means the
	// retry could not be enqueued and the delivery should be repeated.
	HandleTask(ctx context.Context, task entity.RefreshTask) error

	// RefreshTracked enqueues a refresh for every location requested within
	// the tracking window and returns how many tasks were accepted.
	RefreshTracked(ctx context.Context) (int, error)
}
