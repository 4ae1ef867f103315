package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	now := time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC)

	day, err := resolveDay("", now, loc, 0)
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Equal(day))

	day, err = resolveDay("", now, loc, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, day.Day())

	day, err = resolveDay("15.06.2025", now, loc, 1)
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 6, 15, 0, 0, 0, 0, loc).Equal(day))

	_, err = resolveDay("2025-06-15", now, loc, 0)
	assert.Error(t, err)
}
