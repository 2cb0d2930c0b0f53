package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewSlotRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewSlotRepository(pool)
	assert.NotNil(t, repo)
}
