package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/locvowork/shift_scheduler/internal/domain"
)

type DataSeeder struct {
	store domain.Store
	rng   *rand.Rand
}

// NewDataSeeder returns a seeder writing through store. The same seed
// produces the same week.
func NewDataSeeder(store domain.Store, seed int64) *DataSeeder {
	return &DataSeeder{store: store, rng: rand.New(rand.NewSource(seed))}
}

var sampleNames = []string{
	"Alice", "Bob", "Carol", "Dave", "Erin", "Frank", "Grace", "Heidi", "Ivan", "Judy",
	"Mallory", "Niaj", "Olivia", "Peggy", "Rupert", "Sybil", "Trent", "Victor", "Walter", "Yuna",
}

// SeedStats reports what SeedData wrote.
type SeedStats struct {
	Employees int
	Slots     int
	Entries   int
}

// SeedData adds numEmployees sample employees, stores the default slot list
// and fills each cell of the week with probability fill, one to perShift
// employees per filled cell.
func (ds *DataSeeder) SeedData(ctx context.Context, numEmployees, perShift int, fill float64) (SeedStats, error) {
	start := time.Now()
	var stats SeedStats
	fmt.Println("🚀 Seeding data...")

	if numEmployees > len(sampleNames) {
		numEmployees = len(sampleNames)
	}
	if perShift < 1 {
		perShift = 1
	}

	fmt.Println("👥 Creating employees...")
	var ids []int64
	for _, name := range randomSelect(ds.rng, sampleNames, numEmployees) {
		age := 18 + ds.rng.Intn(45)
		e := domain.Employee{Name: name, Age: &age}
		if err := ds.store.Employees().Create(ctx, &e); err != nil {
			return stats, fmt.Errorf("failed to insert employee %s: %w", name, err)
		}
		ids = append(ids, e.ID)
	}
	stats.Employees = len(ids)
	fmt.Printf("✅ Created %d employees\n", stats.Employees)

	slots := domain.DefaultTimeSlots()
	var diff domain.ScheduleDiff
	if len(ids) > 0 {
		for _, day := range domain.Days {
			for _, slot := range slots {
				if ds.rng.Float64() >= fill {
					continue
				}
				n := 1 + ds.rng.Intn(perShift)
				for _, idx := range ds.rng.Perm(len(ids))[:min(n, len(ids))] {
					diff.Add = append(diff.Add, domain.ScheduleEntry{EmployeeID: ids[idx], Day: day, Slot: slot})
				}
			}
		}
	}

	fmt.Println("📅 Writing time slots and the demo week...")
	if err := ds.store.SaveGrid(ctx, diff, slots); err != nil {
		return stats, fmt.Errorf("failed to insert schedule: %w", err)
	}
	stats.Slots = len(slots)
	stats.Entries = len(diff.Add)
	fmt.Printf("✅ Created %d schedule entries on %d time slots\n", stats.Entries, stats.Slots)

	fmt.Printf("🎉 Done in %v\n", time.Since(start))
	return stats, nil
}

// ClearData deletes every schedule entry. Employees and slots stay.
func (ds *DataSeeder) ClearData(ctx context.Context) error {
	fmt.Println("🗑️  Clearing schedule...")
	if err := ds.store.Schedule().Clear(ctx); err != nil {
		return fmt.Errorf("failed to delete schedule entries: %w", err)
	}
	fmt.Println("✅ Cleared schedule")
	return nil
}

type SeedPreset string

const (
	PresetSmall  SeedPreset = "small"
	PresetMedium SeedPreset = "medium"
	PresetLarge  SeedPreset = "large"
)

func randomSelect(rng *rand.Rand, items []string, count int) []string {
	if count > len(items) {
		count = len(items)
	}
	result := make([]string, count)
	perm := rng.Perm(len(items))
	for i := 0; i < count; i++ {
		result[i] = items[perm[i]]
	}
	return result
}

// GetPresetConfig returns employees, employees per filled shift and fill rate.
func GetPresetConfig(preset SeedPreset) (numEmployees, perShift int, fill float64) {
	switch preset {
	case PresetSmall:
		return 3, 1, 0.3
	case PresetMedium:
		return 8, 2, 0.5
	case PresetLarge:
		return 20, 3, 0.8
	default:
		return 8, 2, 0.5
	}
}
