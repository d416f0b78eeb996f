package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/grid"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveRunAndTopRuns(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Record some runs
	_, err = store.SaveRun(RunEntry{Mode: "career", Score: 100, Level: 2, Merges: 3, Matches: 5, BestTier: 2, DurationSecs: 60})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	_, err = store.SaveRun(RunEntry{Mode: "career", Score: 50, Level: 1, BestTier: 1})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	_, err = store.SaveRun(RunEntry{Mode: "career", Score: 200, Level: 3, BestTier: 3})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	// Different mode
	_, err = store.SaveRun(RunEntry{Mode: "zen", Score: 500, Level: 4, BestTier: 4})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	// Retrieve top runs for career
	runs, err := store.TopRuns("career", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}

	if len(runs) != 3 {
		t.Errorf("Expected 3 runs, got %d", len(runs))
	}

	// Should be sorted descending
	if runs[0].Score != 200 {
		t.Errorf("Expected highest score to be 200, got %d", runs[0].Score)
	}
	if runs[1].Score != 100 {
		t.Errorf("Expected second score to be 100, got %d", runs[1].Score)
	}
	if runs[2].Score != 50 {
		t.Errorf("Expected third score to be 50, got %d", runs[2].Score)
	}

	// Counters survive the round trip
	if runs[1].Merges != 3 || runs[1].Matches != 5 || runs[1].DurationSecs != 60 {
		t.Errorf("Run counters not preserved: %+v", runs[1])
	}

	// Retrieve top runs for zen
	zenRuns, err := store.TopRuns("zen", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}

	if len(zenRuns) != 1 {
		t.Errorf("Expected 1 zen run, got %d", len(zenRuns))
	}
}

func TestStoreTopRunsLimit(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Record 5 runs
	for i := 0; i < 5; i++ {
		store.SaveRun(RunEntry{Mode: "career", Score: (i + 1) * 100, Level: 1, BestTier: 1})
	}

	// Request only top 3
	runs, err := store.TopRuns("career", 3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}

	if len(runs) != 3 {
		t.Errorf("Expected 3 runs with limit, got %d", len(runs))
	}

	// Should be 500, 400, 300 (top 3)
	if runs[0].Score != 500 || runs[1].Score != 400 || runs[2].Score != 300 {
		t.Errorf("Runs not in expected order: %v", runs)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveRun(RunEntry{Mode: "career", Score: 100, Level: 1, BestTier: 1})
	store.SaveRun(RunEntry{Mode: "zen", Score: 50, Level: 1, BestTier: 1})
	store.SaveRun(RunEntry{Mode: "career", Score: 10, Level: 1, BestTier: 1})

	runs, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}

	if len(runs) != 2 {
		t.Fatalf("Expected 2 recent runs, got %d", len(runs))
	}

	// Insertion order breaks created_at ties, newest first
	if runs[0].Score != 10 || runs[0].Mode != "career" {
		t.Errorf("Expected most recent run first, got %+v", runs[0])
	}
	if runs[1].Score != 50 || runs[1].Mode != "zen" {
		t.Errorf("Expected second most recent run, got %+v", runs[1])
	}
}

func TestStoreHighScore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// No runs yet
	high, err := store.HighScore("career")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty mode, got %d", high)
	}

	// Record runs
	store.SaveRun(RunEntry{Mode: "career", Score: 100, Level: 1, BestTier: 1})
	store.SaveRun(RunEntry{Mode: "career", Score: 300, Level: 2, BestTier: 2})
	store.SaveRun(RunEntry{Mode: "career", Score: 200, Level: 1, BestTier: 1})

	high, err = store.HighScore("career")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearRuns(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveRun(RunEntry{Mode: "career", Score: 100, Level: 1, BestTier: 1})
	store.SaveRun(RunEntry{Mode: "career", Score: 200, Level: 1, BestTier: 1})
	store.SaveRun(RunEntry{Mode: "zen", Score: 300, Level: 1, BestTier: 1})

	// Clear only career runs
	err = store.ClearRuns("career")
	if err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	// Career should be empty
	careerRuns, _ := store.TopRuns("career", 10)
	if len(careerRuns) != 0 {
		t.Errorf("Expected 0 career runs after clear, got %d", len(careerRuns))
	}

	// Zen should still have runs
	zenRuns, _ := store.TopRuns("zen", 10)
	if len(zenRuns) != 1 {
		t.Errorf("Zen runs should not be affected by clearing career")
	}
}

func TestStoreGetRunStats(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Empty mode has zeroed stats
	stats, err := store.GetRunStats("career")
	if err != nil {
		t.Fatalf("GetRunStats() failed: %v", err)
	}
	if stats.RunsCount != 0 || stats.HighScore != 0 {
		t.Errorf("Expected empty stats, got %+v", stats)
	}
	if !stats.LastPlayed.IsZero() {
		t.Errorf("Expected zero LastPlayed for empty mode, got %v", stats.LastPlayed)
	}

	store.SaveRun(RunEntry{Mode: "career", Score: 100, Level: 2, BestTier: 2})
	store.SaveRun(RunEntry{Mode: "career", Score: 300, Level: 3, BestTier: 4})
	store.SaveRun(RunEntry{Mode: "zen", Score: 900, Level: 5, BestTier: 3})

	stats, err = store.GetRunStats("career")
	if err != nil {
		t.Fatalf("GetRunStats() failed: %v", err)
	}

	if stats.RunsCount != 2 {
		t.Errorf("Expected 2 runs, got %d", stats.RunsCount)
	}
	if stats.HighScore != 300 {
		t.Errorf("Expected high score 300, got %d", stats.HighScore)
	}
	if stats.TotalScore != 400 {
		t.Errorf("Expected total score 400, got %d", stats.TotalScore)
	}
	if stats.AvgScore != 200 {
		t.Errorf("Expected average score 200, got %v", stats.AvgScore)
	}
	if stats.BestTier != 4 {
		t.Errorf("Expected best tier 4, got %d", stats.BestTier)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("Expected LastPlayed to be set")
	}

	all, err := store.GetAllRunStats()
	if err != nil {
		t.Fatalf("GetAllRunStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected stats for 2 modes, got %d", len(all))
	}
	if all["zen"] == nil || all["zen"].HighScore != 900 {
		t.Errorf("Zen stats missing or wrong: %+v", all["zen"])
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	blocks := []grid.Block{
		grid.NewBlock(grid.TypeWork, 1, grid.P(0, 0)),
		grid.NewBlock(grid.TypeStudy, 2, grid.P(3, 4)),
		grid.NewBlock(grid.TypeRest, 1, grid.P(6, 8)),
	}

	save := SaveGame{
		Slot:         "auto",
		Mode:         "career",
		BoardW:       7,
		BoardH:       9,
		Score:        420,
		Placements:   15,
		Merges:       4,
		Matches:      6,
		BestTier:     2,
		DurationSecs: 180,
		XP:           260,
		Level:        3,
		Blocks:       blocks,
		Resources: map[core.Resource]int64{
			core.ResourceMoney:  120,
			core.ResourceEnergy: 45,
		},
		Attributes: map[core.Attribute]int64{
			core.AttributeKnowledge: 30,
			core.AttributeFitness:   10,
		},
	}

	if err := store.SaveGame(save); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	loaded, err := store.LoadGame("auto")
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadGame() returned nil for existing slot")
	}

	if loaded.Mode != "career" || loaded.BoardW != 7 || loaded.BoardH != 9 {
		t.Errorf("Header mismatch: %+v", loaded)
	}
	if loaded.Score != 420 || loaded.Placements != 15 || loaded.XP != 260 || loaded.Level != 3 {
		t.Errorf("Progress mismatch: %+v", loaded)
	}
	if loaded.Merges != 4 || loaded.Matches != 6 || loaded.BestTier != 2 || loaded.DurationSecs != 180 {
		t.Errorf("Counter mismatch: %+v", loaded)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt to be set")
	}

	if len(loaded.Blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(loaded.Blocks))
	}
	byID := make(map[string]grid.Block)
	for _, b := range loaded.Blocks {
		byID[b.ID] = b
	}
	for _, want := range blocks {
		got, ok := byID[want.ID]
		if !ok {
			t.Errorf("Block %s missing after round trip", want.ID)
			continue
		}
		if got.Type != want.Type || got.Tier != want.Tier || got.Pos != want.Pos {
			t.Errorf("Block %s changed: got %+v, want %+v", want.ID, got, want)
		}
		if !got.CreatedAt.Equal(want.CreatedAt) {
			t.Errorf("Block %s CreatedAt changed: got %v, want %v", want.ID, got.CreatedAt, want.CreatedAt)
		}
	}

	if loaded.Resources[core.ResourceMoney] != 120 || loaded.Resources[core.ResourceEnergy] != 45 {
		t.Errorf("Resources mismatch: %v", loaded.Resources)
	}
	if loaded.Attributes[core.AttributeKnowledge] != 30 || loaded.Attributes[core.AttributeFitness] != 10 {
		t.Errorf("Attributes mismatch: %v", loaded.Attributes)
	}
}

func TestStoreSaveOverwritesSlot(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	first := SaveGame{
		Slot: "auto", Mode: "career", BoardW: 7, BoardH: 9, Score: 10, Level: 1,
		Blocks: []grid.Block{
			grid.NewBlock(grid.TypeWork, 1, grid.P(0, 0)),
			grid.NewBlock(grid.TypeWork, 1, grid.P(1, 0)),
		},
		Resources: map[core.Resource]int64{core.ResourceMoney: 5},
	}
	if err := store.SaveGame(first); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	second := SaveGame{
		Slot: "auto", Mode: "zen", BoardW: 7, BoardH: 9, Score: 99, Level: 2,
		Blocks: []grid.Block{
			grid.NewBlock(grid.TypeSport, 2, grid.P(2, 2)),
		},
		Attributes: map[core.Attribute]int64{core.AttributeFitness: 7},
	}
	if err := store.SaveGame(second); err != nil {
		t.Fatalf("SaveGame() overwrite failed: %v", err)
	}

	loaded, err := store.LoadGame("auto")
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}

	if loaded.Mode != "zen" || loaded.Score != 99 {
		t.Errorf("Expected second save to win, got %+v", loaded)
	}
	if len(loaded.Blocks) != 1 {
		t.Errorf("Expected old blocks replaced, got %d blocks", len(loaded.Blocks))
	}
	if len(loaded.Resources) != 0 {
		t.Errorf("Expected old resources replaced, got %v", loaded.Resources)
	}
	if loaded.Attributes[core.AttributeFitness] != 7 {
		t.Errorf("Attributes mismatch after overwrite: %v", loaded.Attributes)
	}
}

func TestStoreLoadMissingSlot(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	loaded, err := store.LoadGame("nope")
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if loaded != nil {
		t.Errorf("Expected nil for missing slot, got %+v", loaded)
	}
}

func TestStoreDeleteSave(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	save := SaveGame{
		Slot: "auto", Mode: "career", BoardW: 7, BoardH: 9, Score: 10, Level: 1,
		Blocks:    []grid.Block{grid.NewBlock(grid.TypeWork, 1, grid.P(0, 0))},
		Resources: map[core.Resource]int64{core.ResourceMoney: 5},
	}
	if err := store.SaveGame(save); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	save.Slot = "manual"
	if err := store.SaveGame(save); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	if err := store.DeleteSave("auto"); err != nil {
		t.Fatalf("DeleteSave() failed: %v", err)
	}

	loaded, err := store.LoadGame("auto")
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if loaded != nil {
		t.Errorf("Expected nil after delete, got %+v", loaded)
	}

	// Other slot untouched
	other, err := store.LoadGame("manual")
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if other == nil || len(other.Blocks) != 1 {
		t.Error("Deleting one slot should not affect another")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveGameEmptySlot(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	err = store.SaveGame(SaveGame{Mode: "career"})
	if err == nil {
		t.Error("Expected error for empty slot")
	}
}
