package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"treaty-classifier/pkg/db"
	"treaty-classifier/pkg/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func sampleRun(id string) (model.ClassificationRun, model.ResultTable) {
	now := time.Now().UTC().Truncate(time.Second)
	run := model.ClassificationRun{
		ID:          id,
		SourceFile:  "speeches.txt",
		SearchTerm:  "Kyoto",
		BatchSize:   2,
		Encoding:    "utf-8",
		LinesRead:   3,
		MatchCount:  2,
		ResultCount: 2,
		Status:      model.RunCompleted,
		StartedAt:   now,
		FinishedAt:  now.Add(time.Minute),
	}
	results := model.ResultTable{
		{SpeechID: "1", Mention: "We support the Kyoto Protocol fully", Category: model.CategorySupport},
		{SpeechID: "3", Mention: "The Kyoto Protocol was violated", Category: model.CategoryOtherFactual},
	}
	return run, results
}

func TestDuckDBStoreSaveAndLoad(t *testing.T) {
	conn, err := db.OpenDuckDB(filepath.Join(t.TempDir(), "results.duckdb"))
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	s := NewDuckDBStore(conn)
	run, results := sampleRun("run-1")
	if err := s.SaveRun(ctx, run, results); err != nil {
		t.Fatalf("save: %v", err)
	}
	run2, _ := sampleRun("run-2")
	if err := s.SaveRun(ctx, run2, results[:1]); err != nil {
		t.Fatalf("save second run: %v", err)
	}

	count, err := s.CountResults(ctx)
	if err != nil || count != 3 {
		t.Fatalf("count = %d, err = %v", count, err)
	}
	loaded, err := s.LoadResults(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 || loaded[0] != results[0] || loaded[1] != results[1] {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestStoredResultsKeepsOrder(t *testing.T) {
	_, results := sampleRun("x")
	rows := StoredResults("x", results)
	if len(rows) != 2 || rows[0].Seq != 0 || rows[1].Seq != 1 || rows[1].SpeechID != "3" || rows[0].RunID != "x" {
		t.Fatalf("rows = %+v", rows)
	}
}

// 需要可用的 MySQL，通过 TREATY_TEST_MYSQL_DSN 指定
func TestMySQLStoreSaveRun(t *testing.T) {
	dsn := os.Getenv("TREATY_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TREATY_TEST_MYSQL_DSN not set")
	}
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	s := NewMySQLStore(gdb, 10)
	if err := s.AutoMigrate(ctx); err != nil {
		t.Fatal(err)
	}
	before, err := s.CountResults(ctx)
	if err != nil {
		t.Fatal(err)
	}
	run, results := sampleRun("run-" + time.Now().Format("150405.000000"))
	if err := s.SaveRun(ctx, run, results); err != nil {
		t.Fatal(err)
	}
	after, _ := s.CountResults(ctx)
	if after-before != int64(len(results)) {
		t.Fatalf("inserted %d rows, want %d", after-before, len(results))
	}
}
