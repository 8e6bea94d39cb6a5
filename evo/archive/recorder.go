package archive

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jdeal-mediamath/clockwork"

	"github.com/baldhumanity/neuroevo-go/evo"
)

// Recorder writes every champion of one run to a Store.
type Recorder struct {
	RunID string

	store Store
	clock clockwork.Clock
}

// NewRecorder creates a recorder with a fresh random run id. A nil clock
// means the wall clock.
func NewRecorder(store Store, clock clockwork.Clock) *Recorder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Recorder{
		RunID: uuid.NewString(),
		store: store,
		clock: clock,
	}
}

// Record archives c under the recorder's run id.
func (r *Recorder) Record(ctx context.Context, c evo.Champion) error {
	rec := Record{
		RunID:      r.RunID,
		Generation: c.Generation,
		AgentID:    c.AgentID,
		Fitness:    c.Fitness,
		Format:     c.Format,
		Network:    c.Network,
		RecordedAt: r.clock.Now().UTC(),
	}
	if err := r.store.SaveChampion(ctx, rec); err != nil {
		return fmt.Errorf("archive champion %d of generation %d: %w", c.AgentID, c.Generation, err)
	}
	return nil
}

// Observer adapts the recorder to evo.Population.OnChampion.
func (r *Recorder) Observer(ctx context.Context) evo.ChampionObserver {
	return func(c evo.Champion) error {
		return r.Record(ctx, c)
	}
}

// Best returns the highest-fitness champion recorded for this run.
func (r *Recorder) Best(ctx context.Context) (Record, bool, error) {
	return r.store.Best(ctx, r.RunID)
}
