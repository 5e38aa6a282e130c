package boards

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/flow-hydraulics/sticker-board/configs"
	"github.com/flow-hydraulics/sticker-board/datastore/gorm"
	"github.com/google/go-cmp/cmp"
	gormdb "gorm.io/gorm"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()

	db, err := gorm.New(&configs.Config{
		DatabaseType:           configs.DatabaseTypeSqlite,
		DatabaseDSN:            filepath.Join(t.TempDir(), "test.db"),
		DatabaseConnectTimeout: time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { gorm.Close(db) })

	return NewGormStore(db)
}

func TestGormStore(t *testing.T) {
	store := newGormStore(t)

	t.Run("init seeds empty table", func(t *testing.T) {
		if err := store.Init(Seed()); err != nil {
			t.Fatal(err)
		}

		doc, err := store.Load()
		if err != nil {
			t.Fatal(err)
		}

		if diff := cmp.Diff(Seed(), doc); diff != "" {
			t.Errorf("unexpected document (-want +got):\n%s", diff)
		}
	})

	t.Run("save replaces the whole document", func(t *testing.T) {
		next := Document{
			"main": {{ID: 1, Title: "changed", Content: "body"}},
			"new":  {{ID: 5, Title: "x", Content: "y"}},
		}

		if err := store.Save(next); err != nil {
			t.Fatal(err)
		}

		doc, err := store.Load()
		if err != nil {
			t.Fatal(err)
		}

		if diff := cmp.Diff(next, doc); diff != "" {
			t.Errorf("unexpected document (-want +got):\n%s", diff)
		}
	})

	t.Run("init keeps existing boards", func(t *testing.T) {
		if err := store.Init(Seed()); err != nil {
			t.Fatal(err)
		}

		doc, err := store.Load()
		if err != nil {
			t.Fatal(err)
		}

		if _, ok := doc["1"]; ok {
			t.Error("expected seed not to be written over existing boards")
		}
	})
}

func TestGormStoreSaveRollsBack(t *testing.T) {
	store := newGormStore(t)
	if err := store.Init(Seed()); err != nil {
		t.Fatal(err)
	}

	// Fail the trailing delete after the upserts have run
	err := store.db.Callback().Delete().Before("gorm:delete").Register("test:fail_delete", func(tx *gormdb.DB) {
		_ = tx.AddError(errors.New("delete failed"))
	})
	if err != nil {
		t.Fatal(err)
	}

	next := Document{"main": {{ID: 9, Title: "partial", Content: "write"}}}
	if err := store.Save(next); err == nil {
		t.Fatal("expected save to fail")
	}

	doc, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(Seed(), doc); diff != "" {
		t.Errorf("expected previous document to be kept (-want +got):\n%s", diff)
	}
}

func TestServiceWithGormStore(t *testing.T) {
	store := newGormStore(t)
	if err := store.Init(Seed()); err != nil {
		t.Fatal(err)
	}

	svc := newService(t, store)

	if err := svc.DeleteSticker(ctx, "1", "101"); err != nil {
		t.Fatal(err)
	}

	stickers, err := svc.Board(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}

	expected := []Sticker{{ID: 102, Title: "Task 2", Content: "Task 2 details"}}
	if diff := cmp.Diff(expected, stickers); diff != "" {
		t.Errorf("unexpected board (-want +got):\n%s", diff)
	}
}
