package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ozzus/club-sanctions/internal/domain/models"
	"go.uber.org/zap"
)

func TestMirror_UpsertsSnapshot(t *testing.T) {
	rows := []models.Sanction{{PageID: "p1", Date: "2024-01-01"}, {PageID: "p2", Date: "2024-01-02"}}
	store := newMemStore()
	store.put("m.json", rows)
	mirror := &mirrorMock{result: models.MirrorResult{Total: 2, Inserted: 1, Updated: 1}}
	svc := NewMirrorService(zap.NewNop(), mirror, store)

	res, err := svc.Mirror(context.Background(), models.SanctionKindAdepts, "m.json")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res != mirror.result {
		t.Fatalf("unexpected result %+v", res)
	}
	if mirror.calls != 1 || mirror.lastKind != models.SanctionKindAdepts || len(mirror.lastRows) != 2 {
		t.Fatalf("unexpected upsert call: calls=%d kind=%s rows=%d", mirror.calls, mirror.lastKind, len(mirror.lastRows))
	}
}

func TestMirror_MissingSnapshot(t *testing.T) {
	mirror := &mirrorMock{}
	svc := NewMirrorService(zap.NewNop(), mirror, newMemStore())

	if _, err := svc.Mirror(context.Background(), models.SanctionKindManagers, "m.json"); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
	if mirror.calls != 0 {
		t.Fatalf("expected no upsert calls, got %d", mirror.calls)
	}
}

func TestMirror_UpsertFailure(t *testing.T) {
	store := newMemStore()
	store.put("m.json", []models.Sanction{{PageID: "p1"}})
	upsertErr := errors.New("connection reset")
	svc := NewMirrorService(zap.NewNop(), &mirrorMock{err: upsertErr}, store)

	if _, err := svc.Mirror(context.Background(), models.SanctionKindManagers, "m.json"); !errors.Is(err, upsertErr) {
		t.Fatalf("expected wrapped upsert error, got %v", err)
	}
}
