package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Domenick1991/flightledger/internal/domain"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// isNoRows reports whether err is pgx.ErrNoRows, possibly wrapped.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func (s *PGStore) LoadAll(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	var date *time.Time
	if err := s.db.QueryRow(ctx, `SELECT system_date FROM system_state LIMIT 1`).Scan(&date); err != nil && !isNoRows(err) {
		return nil, err
	}
	if date != nil {
		snap.SystemDate = *date
	}

	rows, err := s.db.Query(ctx, `SELECT id, name, phone, COALESCE(active, true) FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Active); err != nil {
			return nil, err
		}
		snap.Customers = append(snap.Customers, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(ctx, `SELECT id, number, origin, destination, departure, COALESCE(capacity, 0), COALESCE(base_price, 0), COALESCE(active, true) FROM flights ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id                          int64
			number, origin, destination string
			departure                   time.Time
			capacity                    int
			basePrice                   float64
			active                      bool
		)
		if err := rows.Scan(&id, &number, &origin, &destination, &departure, &capacity, &basePrice, &active); err != nil {
			return nil, err
		}
		f := domain.NewFlight(id, number, origin, destination, departure, capacity, basePrice)
		f.Active = active
		snap.Flights = append(snap.Flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Legacy booking rows may predate the status, fee and price columns.
	// Absent fields default to ACTIVE / 0 / none / the flight's base price.
	rows, err = s.db.Query(ctx, `
		SELECT COALESCE(b.ref, ''), b.customer_id, b.flight_id, b.booking_date,
		       COALESCE(b.price, f.base_price, 0),
		       COALESCE(b.status, 'ACTIVE'),
		       COALESCE(b.fee_last, 0),
		       COALESCE(b.fee_type, '')
		FROM bookings b
		JOIN flights f ON f.id = b.flight_id
		ORDER BY b.position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var b domain.Booking
		var status, feeType string
		if err := rows.Scan(&b.Ref, &b.CustomerID, &b.FlightID, &b.BookingDate, &b.Price, &status, &b.FeeLast, &feeType); err != nil {
			return nil, err
		}
		b.Status = domain.BookingStatus(status)
		b.FeeType = domain.FeeType(feeType)
		if b.Ref == "" {
			b.Ref = uuid.NewString()
		}
		snap.Bookings = append(snap.Bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *PGStore) StoreAll(ctx context.Context, snap *Snapshot) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE bookings, flights, customers, system_state`); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO system_state (system_date) VALUES ($1)`, snap.SystemDate); err != nil {
		return err
	}

	for _, c := range snap.Customers {
		if _, err := tx.Exec(ctx, `INSERT INTO customers (id, name, phone, active) VALUES ($1, $2, $3, $4)`,
			c.ID, c.Name, c.Phone, c.Active); err != nil {
			return err
		}
	}

	for _, f := range snap.Flights {
		if _, err := tx.Exec(ctx, `INSERT INTO flights (id, number, origin, destination, departure, capacity, base_price, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			f.ID, f.Number, f.Origin, f.Destination, f.Departure, f.Capacity, f.BasePrice, f.Active); err != nil {
			return err
		}
	}

	for i, b := range snap.Bookings {
		if _, err := tx.Exec(ctx, `INSERT INTO bookings (ref, customer_id, flight_id, booking_date, price, status, fee_last, fee_type, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			b.Ref, b.CustomerID, b.FlightID, b.BookingDate, b.Price, string(b.Status), b.FeeLast, string(b.FeeType), i); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

var _ Store = (*PGStore)(nil)
