package repository

import (
	"context"
	"errors"

	"github.com/aenrique-byte/author-microsite-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code raised by the unique
// index on (story_id, day). That index, not application code, is what
// guarantees at most one active booking per slot.
const uniqueViolation = "23505"

type BookingRepository interface {
	CreatePending(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	// UpdateStatus transitions a booking from one status to another.
	// The from guard sits in the UPDATE's WHERE clause so concurrent
	// handlers cannot both move the same booking.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (*domain.Booking, error)
	// Delete removes a booking, but only while it still has the given
	// status; an empty status removes it unconditionally.
	Delete(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error
	ListByStory(ctx context.Context, storyID string, status domain.BookingStatus) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, story_id, day, author_name, email, story_link, shoutout_code, status, created_at, updated_at`

func (r *PGBookingRepository) CreatePending(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Lock the slot row so the open check cannot race an admin close;
	// two concurrent requests serialize here and the loser hits the
	// unique index below.
	var isOpen bool
	err = tx.QueryRow(ctx, `SELECT is_open FROM date_slots WHERE story_id=$1 AND day=$2 FOR UPDATE`, booking.StoryID, booking.Date).Scan(&isOpen)
	if err == pgx.ErrNoRows || (err == nil && !isOpen) {
		return domain.NewConflict("date %s is not open for booking", booking.Date.Format(domain.DateLayout))
	}
	if err != nil {
		return err
	}

	booking.Status = domain.BookingStatusPending
	err = tx.QueryRow(ctx, `INSERT INTO bookings (id, story_id, day, author_name, email, story_link, shoutout_code, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		booking.ID, booking.StoryID, booking.Date, booking.AuthorName, booking.Email, booking.StoryLink, booking.ShoutoutCode, booking.Status).
		Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.NewConflict("date %s is already requested or booked", booking.Date.Format(domain.DateLayout))
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	return scanBooking(row)
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 AND status=$3 RETURNING `+bookingColumns, to, id, from)
	booking, err := scanBooking(row)
	if err == domain.ErrNotFound {
		return nil, r.mutationRefused(ctx, id, from)
	}
	return booking, err
}

func (r *PGBookingRepository) Delete(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	var (
		cmd pgconn.CommandTag
		err error
	)
	if status == "" {
		cmd, err = r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	} else {
		cmd, err = r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1 AND status=$2`, id, status)
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if status == "" {
			return domain.ErrNotFound
		}
		return r.mutationRefused(ctx, id, status)
	}
	return nil
}

// mutationRefused tells a missing booking apart from one whose status
// no longer matches the guard a mutation ran with.
func (r *PGBookingRepository) mutationRefused(ctx context.Context, id uuid.UUID, want domain.BookingStatus) error {
	var current domain.BookingStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM bookings WHERE id=$1`, id).Scan(&current)
	if err == pgx.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return domain.NewInvalidState("booking %s is not %s", id, want)
}

func (r *PGBookingRepository) ListByStory(ctx context.Context, storyID string, status domain.BookingStatus) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE story_id=$1 ORDER BY day`
	args := []any{storyID}
	if status != "" {
		query = `SELECT ` + bookingColumns + ` FROM bookings WHERE story_id=$1 AND status=$2 ORDER BY day`
		args = append(args, status)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.StoryID, &b.Date, &b.AuthorName, &b.Email, &b.StoryLink, &b.ShoutoutCode, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.StoryID, &b.Date, &b.AuthorName, &b.Email, &b.StoryLink, &b.ShoutoutCode, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
