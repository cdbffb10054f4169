package index

import (
	"errors"
	"testing"
	"time"

	"vaultsearch/internal/domain"
)

func TestHolderUnavailableBeforeFirstBuild(t *testing.T) {
	h := NewHolder()

	_, err := h.Current()
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestHolderSwap(t *testing.T) {
	h := NewHolder()

	man := domain.Manifest{ModelID: "mock", Dimension: 2, BuiltAt: time.Now()}
	entries := []domain.IndexEntry{
		{
			Chunk:      domain.Chunk{ID: "c1", DocID: "d1", Total: 1, Text: "hello"},
			Vector:     []float32{1, 0},
			TermFreqs:  map[string]int{"hello": 1},
			TokenCount: 1,
		},
	}
	docs := []domain.Document{{ID: "d1", Title: "Doc"}}

	snap, err := BuildSnapshot(man, docs, entries, 1.2, 0.75)
	if err != nil {
		t.Fatal(err)
	}
	h.Swap(snap)

	got, err := h.Current()
	if err != nil {
		t.Fatal(err)
	}
	if got.Manifest.ModelID != "mock" {
		t.Errorf("unexpected manifest: %+v", got.Manifest)
	}
	if _, ok := got.Chunk("c1"); !ok {
		t.Error("chunk c1 missing from snapshot")
	}
	if _, ok := got.Doc("d1"); !ok {
		t.Error("doc d1 missing from snapshot")
	}
	if got.Embedding.Len() != 1 || got.Lexical.Len() != 1 {
		t.Error("indexes not populated")
	}
}

func TestBuildSnapshotRejectsBadVectors(t *testing.T) {
	man := domain.Manifest{ModelID: "mock", Dimension: 3}
	entries := []domain.IndexEntry{
		{Chunk: domain.Chunk{ID: "c1"}, Vector: []float32{1, 0}},
	}

	_, err := BuildSnapshot(man, nil, entries, 1.2, 0.75)
	if err == nil {
		t.Fatal("expected dimension error")
	}
}
