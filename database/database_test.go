package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shopclock/config"
	"shopclock/models"
)

func fptr(f float64) *float64       { return &f }
func tptr(t time.Time) *time.Time { return &t }

func sampleEntries() []models.TimeEntry {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC)
	return []models.TimeEntry{
		{
			ID:                   "e1",
			TechnicianID:         "tech-1",
			TechnicianName:       "Alex",
			ClockInTime:          in,
			ClockOutTime:         tptr(out),
			BreakDurationMinutes: 30,
			TotalHours:           fptr(8),
			Status:               models.StatusCompleted,
			Notes:                "brake job",
			AssociatedRepairIDs:  models.RepairIDs{"R-100", "R-101"},
			CreatedAt:            in,
			UpdatedAt:            out,
		},
		{
			ID:             "e2",
			TechnicianID:   "tech-2",
			TechnicianName: "Bea",
			ClockInTime:    in.Add(time.Hour),
			Status:         models.StatusActive,
			CreatedAt:      in.Add(time.Hour),
			UpdatedAt:      in.Add(time.Hour),
		},
	}
}

func sampleAdjustment() models.TimeAdjustment {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return models.TimeAdjustment{
		ID:                    "a1",
		TimeEntryID:           "e1",
		AdjustedBy:            "Manager Sam",
		PreviousClockIn:       in,
		NewClockIn:            in,
		PreviousClockOut:      tptr(in.Add(8*time.Hour + 30*time.Minute)),
		NewClockOut:           tptr(in.Add(9 * time.Hour)),
		PreviousBreakDuration: 30,
		NewBreakDuration:      30,
		Reason:                "forgot to clock out",
		Timestamp:             in.Add(10 * time.Hour),
	}
}

// runRepositoryContract exercises the behaviour every backend must share.
func runRepositoryContract(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	entries, err := repo.LoadTimeEntries(ctx)
	if err != nil {
		t.Fatalf("LoadTimeEntries on empty store: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty store, got %d entries", len(entries))
	}

	want := sampleEntries()
	if err := repo.SaveTimeEntries(ctx, want); err != nil {
		t.Fatalf("SaveTimeEntries: %v", err)
	}
	got, err := repo.LoadTimeEntries(ctx)
	if err != nil {
		t.Fatalf("LoadTimeEntries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	byID := map[string]models.TimeEntry{}
	for _, e := range got {
		byID[e.ID] = e
	}
	e1 := byID["e1"]
	if e1.TechnicianID != "tech-1" || e1.TechnicianName != "Alex" || e1.Status != models.StatusCompleted {
		t.Errorf("e1 identity/status round trip: %+v", e1)
	}
	if !e1.ClockInTime.Equal(want[0].ClockInTime) || e1.ClockOutTime == nil || !e1.ClockOutTime.Equal(*want[0].ClockOutTime) {
		t.Errorf("e1 times round trip: in=%v out=%v", e1.ClockInTime, e1.ClockOutTime)
	}
	if e1.TotalHours == nil || *e1.TotalHours != 8 || e1.BreakDurationMinutes != 30 {
		t.Errorf("e1 hours round trip: %v break %d", e1.TotalHours, e1.BreakDurationMinutes)
	}
	if len(e1.AssociatedRepairIDs) != 2 || e1.AssociatedRepairIDs[1] != "R-101" {
		t.Errorf("e1 repair ids round trip: %v", e1.AssociatedRepairIDs)
	}
	if e1.Notes != "brake job" {
		t.Errorf("e1 notes = %q", e1.Notes)
	}
	e2 := byID["e2"]
	if e2.ClockOutTime != nil || e2.TotalHours != nil || !e2.IsActive() {
		t.Errorf("e2 should be an open active entry: %+v", e2)
	}

	// Full save with one entry changed overwrites it in place.
	closed := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	want[1].ClockOutTime = &closed
	want[1].TotalHours = fptr(8)
	want[1].Status = models.StatusCompleted
	if err := repo.SaveTimeEntries(ctx, want); err != nil {
		t.Fatalf("second SaveTimeEntries: %v", err)
	}
	got, _ = repo.LoadTimeEntries(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries after overwrite, got %d", len(got))
	}
	for _, e := range got {
		if e.ID == "e2" && (e.Status != models.StatusCompleted || e.ClockOutTime == nil) {
			t.Errorf("e2 not updated: %+v", e)
		}
	}

	adj := sampleAdjustment()
	if err := repo.SaveAdjustments(ctx, []models.TimeAdjustment{adj}); err != nil {
		t.Fatalf("SaveAdjustments: %v", err)
	}
	second := adj
	second.ID = "a2"
	second.Reason = "break was longer"
	second.Timestamp = adj.Timestamp.Add(time.Hour)
	if err := repo.SaveAdjustments(ctx, []models.TimeAdjustment{adj, second}); err != nil {
		t.Fatalf("SaveAdjustments append: %v", err)
	}
	adjs, err := repo.LoadAdjustments(ctx)
	if err != nil {
		t.Fatalf("LoadAdjustments: %v", err)
	}
	if len(adjs) != 2 {
		t.Fatalf("expected 2 adjustments, got %d", len(adjs))
	}
	first := adjs[0]
	if first.ID != "a1" {
		first = adjs[1]
	}
	if first.Reason != "forgot to clock out" || first.AdjustedBy != "Manager Sam" {
		t.Errorf("adjustment round trip: %+v", first)
	}
	if first.PreviousClockOut == nil || !first.PreviousClockOut.Equal(*adj.PreviousClockOut) {
		t.Errorf("PreviousClockOut = %v", first.PreviousClockOut)
	}
	if first.NewClockOut == nil || !first.NewClockOut.Equal(*adj.NewClockOut) {
		t.Errorf("NewClockOut = %v", first.NewClockOut)
	}
	if !first.ClockOutChanged() || first.ClockInChanged() || first.BreakChanged() {
		t.Error("change flags do not match stored values")
	}
}

func TestMemoryRepository(t *testing.T) {
	runRepositoryContract(t, NewMemoryRepository())
}

func TestMemoryRepository_CopiesValues(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	entries := sampleEntries()
	repo.SaveTimeEntries(ctx, entries)

	entries[0].AssociatedRepairIDs[0] = "changed"
	*entries[0].TotalHours = 99

	got, _ := repo.LoadTimeEntries(ctx)
	if got[0].AssociatedRepairIDs[0] != "R-100" || *got[0].TotalHours != 8 {
		t.Fatalf("stored entry was aliased by caller: %+v", got[0])
	}

	got[0].Notes = "mutated"
	again, _ := repo.LoadTimeEntries(ctx)
	if again[0].Notes != "brake job" {
		t.Fatal("loaded entry aliases stored state")
	}
}

func TestSQLiteRepository(t *testing.T) {
	repo, err := NewSQLiteMemory()
	if err != nil {
		t.Fatalf("NewSQLiteMemory: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	runRepositoryContract(t, repo)
}

func TestSQLiteRepository_OneActivePerTechnician(t *testing.T) {
	repo, err := NewSQLiteMemory()
	if err != nil {
		t.Fatalf("NewSQLiteMemory: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	entries := []models.TimeEntry{
		{ID: "x1", TechnicianID: "tech-1", ClockInTime: now, Status: models.StatusActive, CreatedAt: now, UpdatedAt: now},
		{ID: "x2", TechnicianID: "tech-1", ClockInTime: now, Status: models.StatusActive, CreatedAt: now, UpdatedAt: now},
	}
	if err := repo.SaveTimeEntries(context.Background(), entries); err == nil {
		t.Fatal("expected unique index violation for two active entries")
	}
	got, _ := repo.LoadTimeEntries(context.Background())
	if len(got) != 0 {
		t.Fatalf("failed save should roll back, found %d entries", len(got))
	}
}

func TestSQLiteRepository_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "shopclock.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveTimeEntries(context.Background(), sampleEntries()); err != nil {
		t.Fatal(err)
	}
	repo.Close()

	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	if err := repo.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
	got, _ := repo.LoadTimeEntries(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected persisted entries, got %d", len(got))
	}
}

func TestBoltRepository(t *testing.T) {
	repo, err := NewBoltRepository(filepath.Join(t.TempDir(), "shopclock.bolt"))
	if err != nil {
		t.Fatalf("NewBoltRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	runRepositoryContract(t, repo)
}

func TestGormRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	repo, err := NewGormRepository(dsn, "error")
	if err != nil {
		t.Fatalf("NewGormRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	repo.DB().Exec("DELETE FROM time_adjustments")
	repo.DB().Exec("DELETE FROM time_entries")
	runRepositoryContract(t, repo)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		driver, url string
	}{
		{config.DriverMemory, ""},
		{config.DriverSQLite, filepath.Join(dir, "a.db")},
		{config.DriverBolt, filepath.Join(dir, "b.bolt")},
	}
	for _, tt := range tests {
		cfg := config.Default()
		cfg.DatabaseDriver = tt.driver
		cfg.DatabaseURL = tt.url
		repo, err := Open(cfg)
		if err != nil {
			t.Errorf("Open(%s): %v", tt.driver, err)
			continue
		}
		repo.Close()
	}

	cfg := config.Default()
	cfg.DatabaseDriver = "mysql"
	if _, err := Open(cfg); err == nil {
		t.Error("expected error for unknown driver")
	}
}
