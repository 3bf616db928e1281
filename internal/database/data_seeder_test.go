package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/shift_scheduler/internal/database"
	"github.com/locvowork/shift_scheduler/internal/domain"
	"github.com/locvowork/shift_scheduler/internal/repository"
)

func openStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := database.Open(context.Background(), database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "seed.db"),
	})
	require.NoError(t, err)
	s := repository.NewStore(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDataSeeder_SeedAndClear(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	seeder := database.NewDataSeeder(store, 7)

	stats, err := seeder.SeedData(ctx, 5, 2, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Employees)
	assert.Equal(t, 9, stats.Slots)
	assert.GreaterOrEqual(t, stats.Entries, 7*9)

	employees, err := store.Employees().List(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 5)
	for _, e := range employees {
		require.NotNil(t, e.Age)
		assert.GreaterOrEqual(t, *e.Age, 18)
	}

	slots, err := store.TimeSlots().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTimeSlots(), slots)

	rows, err := store.Schedule().ListRows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, stats.Entries)

	require.NoError(t, seeder.ClearData(ctx))
	rows, err = store.Schedule().ListRows(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	employees, err = store.Employees().List(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 5)
}

func TestDataSeeder_SameSeedSameWeek(t *testing.T) {
	ctx := context.Background()
	week := func() []string {
		store := openStore(t)
		_, err := database.NewDataSeeder(store, 42).SeedData(ctx, 4, 2, 0.5)
		require.NoError(t, err)
		rows, err := store.Schedule().ListRows(ctx)
		require.NoError(t, err)
		var out []string
		for _, r := range rows {
			out = append(out, string(r.Day)+" "+r.Slot.String()+" "+r.EmployeeName)
		}
		return out
	}
	assert.Equal(t, week(), week())
}

func TestGetPresetConfig(t *testing.T) {
	n, per, fill := database.GetPresetConfig(database.PresetSmall)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, per)
	assert.InDelta(t, 0.3, fill, 1e-9)

	n, _, _ = database.GetPresetConfig("unknown")
	assert.Equal(t, 8, n)
}
