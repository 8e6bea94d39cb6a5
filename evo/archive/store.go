// Package archive persists the champions reported by an evo.Population so
// that the best networks of a run survive the process.
package archive

import (
	"context"
	"time"

	"github.com/baldhumanity/neuroevo-go/nn"
)

// Record is one archived champion.
type Record struct {
	RunID      string
	Generation int
	AgentID    int
	Fitness    float64
	Format     nn.Format
	Network    []byte
	RecordedAt time.Time
}

// Decode rebuilds the archived network.
func (r Record) Decode() (*nn.Network, error) {
	return nn.Decode(r.Network, r.Format)
}

// Store defines persistence operations for champion records.
type Store interface {
	Init(ctx context.Context) error
	// SaveChampion stores rec, replacing any record of the same run and generation.
	SaveChampion(ctx context.Context, rec Record) error
	// Champions lists a run's records by ascending generation.
	Champions(ctx context.Context, runID string) ([]Record, error)
	// Best returns the run's highest-fitness record.
	Best(ctx context.Context, runID string) (Record, bool, error)
	Close() error
}
