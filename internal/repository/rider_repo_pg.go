package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/vshuttle/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RiderRepository is the persisted store for rider records: one logical
// record per rider, read at session start, written back on every mutation.
type RiderRepository interface {
	Get(ctx context.Context, username string) (*domain.RiderProfile, error)
	Save(ctx context.Context, profile *domain.RiderProfile) error
	OccupiedSeats(ctx context.Context, route string) ([]string, error)
}

type PGRiderRepository struct {
	db *pgxpool.Pool
}

func NewRiderRepository(db *pgxpool.Pool) RiderRepository {
	return &PGRiderRepository{db: db}
}

func (r *PGRiderRepository) Get(ctx context.Context, username string) (*domain.RiderProfile, error) {
	profile := &domain.RiderProfile{Username: username}

	row := r.db.QueryRow(ctx, `SELECT honesty_score FROM riders WHERE username=$1`, username)
	if err := row.Scan(&profile.HonestyScore); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRiderNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, route, seat, created_at, status FROM bookings WHERE username=$1 ORDER BY created_at, id`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.Route, &b.Seat, &b.CreatedAt, &b.Status); err != nil {
			return nil, err
		}
		profile.Bookings = append(profile.Bookings, b)
	}
	return profile, rows.Err()
}

// Save rewrites the rider row and the full booking list in one transaction,
// so a partially written ledger is never observable.
func (r *PGRiderRepository) Save(ctx context.Context, profile *domain.RiderProfile) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO riders (username, honesty_score) VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET honesty_score = EXCLUDED.honesty_score`,
		profile.Username, profile.HonestyScore); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM bookings WHERE username=$1`, profile.Username); err != nil {
		return err
	}
	for _, b := range profile.Bookings {
		if _, err := tx.Exec(ctx, `INSERT INTO bookings (id, username, route, seat, created_at, status)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			b.ID, profile.Username, b.Route, b.Seat, b.CreatedAt, b.Status); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// OccupiedSeats lists the distinct seats referenced by non-cancelled bookings
// for a route, across all riders known to the store.
func (r *PGRiderRepository) OccupiedSeats(ctx context.Context, route string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT seat FROM bookings WHERE route=$1 AND status != $2`, route, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []string
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

var _ RiderRepository = (*PGRiderRepository)(nil)
