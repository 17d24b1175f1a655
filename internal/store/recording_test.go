package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// newTestStore creates a new Store backed by a file in a temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func frames(n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		f := make([]float64, 63)
		for j := range f {
			f[j] = float64(i) + float64(j)/100
		}
		out[i] = f
	}
	return out
}

func TestRecordingRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Recordings()

	rec := &Recording{
		Name:     "wave",
		Duration: 1500 * time.Millisecond,
		Frames:   frames(6),
	}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("failed to create recording: %v", err)
	}

	if rec.ID == "" {
		t.Fatal("ID should be assigned on create")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set after create")
	}
	if rec.FrameCount != 6 {
		t.Errorf("FrameCount = %d, want 6", rec.FrameCount)
	}

	got, err := repo.GetByID(rec.ID)
	if err != nil {
		t.Fatalf("failed to get recording: %v", err)
	}
	if got.Name != "wave" || got.FrameCount != 6 || got.Duration != rec.Duration {
		t.Errorf("got %+v", got)
	}
	if len(got.Frames) != 6 {
		t.Fatalf("frames = %d, want 6", len(got.Frames))
	}
	for i, f := range got.Frames {
		if len(f) != 63 || f[0] != float64(i) || f[62] != float64(i)+0.62 {
			t.Errorf("frame %d not preserved: len=%d first=%v last=%v", i, len(f), f[0], f[62])
		}
	}
}

func TestRecordingRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Recordings().GetByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordingRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Recordings()

	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"first", "second", "third"} {
		rec := &Recording{Name: name, Frames: frames(5), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Create(rec); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list recordings: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 recordings, got %d", len(list))
	}
	if list[0].Name != "third" || list[2].Name != "first" {
		t.Errorf("expected newest first, got %s..%s", list[0].Name, list[2].Name)
	}
	for _, rec := range list {
		if rec.Frames != nil {
			t.Errorf("List should not load frames for %s", rec.Name)
		}
		if rec.FrameCount != 5 {
			t.Errorf("FrameCount = %d, want 5", rec.FrameCount)
		}
	}
}

func TestRecordingRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Recordings()

	rec := &Recording{Name: "swipe", Frames: frames(5)}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("failed to create recording: %v", err)
	}

	if err := repo.Delete(rec.ID); err != nil {
		t.Fatalf("failed to delete recording: %v", err)
	}
	if _, err := repo.GetByID(rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM recording_frames WHERE recording_id = ?`, rec.ID).Scan(&n); err != nil {
		t.Fatalf("count frames: %v", err)
	}
	if n != 0 {
		t.Errorf("frames should cascade on delete, %d left", n)
	}

	if err := repo.Delete(rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestRecordingRepository_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	repo := s.Recordings()

	if err := repo.Create(&Recording{ID: "fixed", Name: "a", Frames: frames(5)}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := repo.Create(&Recording{ID: "fixed", Name: "b", Frames: frames(5)}); err == nil {
		t.Error("expected error for duplicate ID")
	}

	got, err := repo.GetByID("fixed")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "a" || len(got.Frames) != 5 {
		t.Errorf("failed insert should roll back, got %+v frames=%d", got.Name, len(got.Frames))
	}
}
