// Package store persists full ledger snapshots. The registry is the source
// of truth while the process runs; a snapshot is written after every
// successful mutating operation and read back once at startup.
package store

import (
	"context"
	"time"

	"github.com/Domenick1991/flightledger/internal/domain"
)

// Snapshot carries the entire system state. Every booking is included
// regardless of status: canceled records are durable history.
type Snapshot struct {
	Customers  []*domain.Customer
	Flights    []*domain.Flight
	Bookings   []*domain.Booking
	SystemDate time.Time
}

type Store interface {
	// LoadAll reads the whole persisted state. SystemDate is zero when the
	// store has never been written.
	LoadAll(ctx context.Context) (*Snapshot, error)
	// StoreAll atomically replaces the persisted state.
	StoreAll(ctx context.Context, snap *Snapshot) error
}
