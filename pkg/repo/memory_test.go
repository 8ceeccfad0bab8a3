package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/merchguard/merchguard/engine/domain"
)

func TestCheckLifecycle(t *testing.T) {
	check := NewCheck("포카 양도합니다", "en")
	if check.Status != StatusPending {
		t.Errorf("status = %q, want pending", check.Status)
	}
	if check.ID == uuid.Nil {
		t.Error("id must be assigned")
	}

	done := check.Complete(domain.TradeSafetyAnalysis{SafeScore: 72})
	if done.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", done.Status)
	}
	if done.Analysis == nil || done.Analysis.SafeScore != 72 {
		t.Errorf("analysis = %+v", done.Analysis)
	}
	if check.Analysis != nil {
		t.Error("Complete must not mutate the original record")
	}

	failed := check.Fail("model unavailable")
	if failed.Status != StatusFailed || failed.Error != "model unavailable" {
		t.Errorf("failed = %+v", failed)
	}
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	check := NewCheck("selling photocards", "ko")
	if err := store.Create(ctx, check); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, check); err == nil {
		t.Fatal("duplicate Create must fail")
	}

	got, err := store.Get(ctx, check.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.InputText != check.InputText || got.OutputLanguage != "ko" {
		t.Errorf("got = %+v", got)
	}

	done := check.Complete(domain.TradeSafetyAnalysis{SafeScore: 35})
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = store.Get(ctx, check.ID)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if got.Status != StatusCompleted || got.Analysis.SafeScore != 35 {
		t.Errorf("updated = %+v", got)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get err = %v, want ErrNotFound", err)
	}
	if err := store.Update(ctx, NewCheck("x", "en")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Update err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Now().UTC()
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		check := NewCheck("text", "en")
		check.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := store.Create(ctx, check); err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, check.ID)
	}

	got, err := store.List(ctx, ListOpts{Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != ids[4] || got[1].ID != ids[3] {
		t.Error("results must be ordered newest first")
	}

	rest, err := store.List(ctx, ListOpts{Offset: 4})
	if err != nil {
		t.Fatalf("List offset: %v", err)
	}
	if len(rest) != 1 || rest[0].ID != ids[0] {
		t.Errorf("offset page = %+v", rest)
	}

	empty, err := store.List(ctx, ListOpts{Offset: 99})
	if err != nil || empty != nil {
		t.Errorf("past-the-end page = %v, %v", empty, err)
	}
}
