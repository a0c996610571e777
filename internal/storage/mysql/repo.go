package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"tripbook/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SaveBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.Reference.String(),
		b.PackageID,
		valStr(b.PackageName),
		valStr(b.Customer),
		valStr(b.DestinationCode),
		b.Departure,
		b.Return,
		b.FlightOffers,
		b.HotelRows,
		string(b.Outcome),
		b.Report,
		b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save booking %s: %w", b.Reference, err)
	}
	return nil
}

func (r *Repo) LogMiss(ctx context.Context, packageID, stage, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, packageID, stage, reason)
	return err
}

func (r *Repo) ListBookings(ctx context.Context, customer string, limit int) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsSQL, customer, customer, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b                    domain.Booking
		ref, outcome         string
		name, customer, dest sql.NullString
	)
	if err := s.Scan(
		&ref, &b.PackageID, &name, &customer, &dest,
		&b.Departure, &b.Return, &b.FlightOffers, &b.HotelRows, &outcome, &b.Report, &b.CreatedAt,
	); err != nil {
		return domain.Booking{}, err
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("booking reference %q: %w", ref, err)
	}
	b.Reference = id
	b.PackageName = name.String
	b.Customer = customer.String
	b.DestinationCode = dest.String
	b.Outcome = domain.BookingOutcome(outcome)
	return b, nil
}

// compile-time check
var _ domain.BookingRepository = (*Repo)(nil)
