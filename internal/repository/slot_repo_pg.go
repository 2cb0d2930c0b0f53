package repository

import (
	"context"
	"time"

	"github.com/aenrique-byte/author-microsite-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SlotRepository interface {
	SetAvailability(ctx context.Context, storyID string, day time.Time, open bool) error
	IsOpen(ctx context.Context, storyID string, day time.Time) (bool, error)
	ListOpen(ctx context.Context, storyID string) ([]time.Time, error)
	ListSlots(ctx context.Context, storyID string) ([]domain.DateSlot, error)
}

type PGSlotRepository struct {
	db *pgxpool.Pool
}

func NewSlotRepository(db *pgxpool.Pool) SlotRepository {
	return &PGSlotRepository{db: db}
}

func (r *PGSlotRepository) SetAvailability(ctx context.Context, storyID string, day time.Time, open bool) error {
	if open {
		_, err := r.db.Exec(ctx, `INSERT INTO date_slots (story_id, day, is_open) VALUES ($1, $2, true)
			ON CONFLICT (story_id, day) DO UPDATE SET is_open = true, updated_at = now()`, storyID, day)
		return err
	}

	// Closing must not race a concurrent guest request: lock the slot
	// row first, then verify no active booking holds the date.
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var isOpen bool
	err = tx.QueryRow(ctx, `SELECT is_open FROM date_slots WHERE story_id=$1 AND day=$2 FOR UPDATE`, storyID, day).Scan(&isOpen)
	if err == pgx.ErrNoRows {
		// Absent row already means closed.
		return tx.Commit(ctx)
	}
	if err != nil {
		return err
	}

	var occupied bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE story_id=$1 AND day=$2)`, storyID, day).Scan(&occupied); err != nil {
		return err
	}
	if occupied {
		return domain.NewInvalidState("date %s has an active booking; reject or cancel it before closing", day.Format(domain.DateLayout))
	}

	if _, err := tx.Exec(ctx, `UPDATE date_slots SET is_open = false, updated_at = now() WHERE story_id=$1 AND day=$2`, storyID, day); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGSlotRepository) IsOpen(ctx context.Context, storyID string, day time.Time) (bool, error) {
	var isOpen bool
	err := r.db.QueryRow(ctx, `SELECT is_open FROM date_slots WHERE story_id=$1 AND day=$2`, storyID, day).Scan(&isOpen)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return isOpen, nil
}

func (r *PGSlotRepository) ListOpen(ctx context.Context, storyID string) ([]time.Time, error) {
	rows, err := r.db.Query(ctx, `SELECT day FROM date_slots WHERE story_id=$1 AND is_open ORDER BY day`, storyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]time.Time, 0)
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (r *PGSlotRepository) ListSlots(ctx context.Context, storyID string) ([]domain.DateSlot, error) {
	rows, err := r.db.Query(ctx, `SELECT story_id, day, is_open, updated_at FROM date_slots WHERE story_id=$1 ORDER BY day`, storyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]domain.DateSlot, 0)
	for rows.Next() {
		var s domain.DateSlot
		if err := rows.Scan(&s.StoryID, &s.Date, &s.Open, &s.UpdatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

var _ SlotRepository = (*PGSlotRepository)(nil)
