package index

import (
	"math"
	"testing"
)

func TestEmbeddingIndexCosineOrdering(t *testing.T) {
	x := NewEmbeddingIndex(2)

	if err := x.Add("orthogonal", []float32{0, 1}); err != nil {
		t.Fatal(err)
	}
	if err := x.Add("aligned", []float32{1, 0}); err != nil {
		t.Fatal(err)
	}
	if err := x.Add("diagonal", []float32{1, 1}); err != nil {
		t.Fatal(err)
	}

	hits, err := x.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}

	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	if hits[0].ChunkID != "aligned" {
		t.Errorf("expected 'aligned' first, got %q", hits[0].ChunkID)
	}
	if math.Abs(hits[0].Score-1.0) > 1e-9 {
		t.Errorf("expected cosine 1.0 for identical direction, got %f", hits[0].Score)
	}
	if hits[1].ChunkID != "diagonal" {
		t.Errorf("expected 'diagonal' second, got %q", hits[1].ChunkID)
	}
	if math.Abs(hits[1].Score-1/math.Sqrt2) > 1e-9 {
		t.Errorf("expected cosine 1/sqrt2, got %f", hits[1].Score)
	}
	if math.Abs(hits[2].Score) > 1e-9 {
		t.Errorf("expected cosine 0 for orthogonal, got %f", hits[2].Score)
	}
}

func TestEmbeddingIndexTiesByInsertionOrder(t *testing.T) {
	x := NewEmbeddingIndex(2)

	// Same direction, different magnitude: identical cosine scores.
	x.Add("first", []float32{1, 1})
	x.Add("second", []float32{2, 2})
	x.Add("third", []float32{3, 3})

	for run := 0; run < 5; run++ {
		hits, err := x.Search([]float32{1, 1}, 3)
		if err != nil {
			t.Fatal(err)
		}
		if hits[0].ChunkID != "first" || hits[1].ChunkID != "second" || hits[2].ChunkID != "third" {
			t.Fatalf("run %d: ties not broken by insertion order: %v", run, hits)
		}
	}
}

func TestEmbeddingIndexDimensionMismatch(t *testing.T) {
	x := NewEmbeddingIndex(3)

	if err := x.Add("bad", []float32{1, 2}); err == nil {
		t.Error("expected error adding wrong-dimension vector")
	}
	x.Add("ok", []float32{1, 2, 3})

	if _, err := x.Search([]float32{1, 2}, 1); err == nil {
		t.Error("expected error searching with wrong-dimension query")
	}
}

func TestEmbeddingIndexTopK(t *testing.T) {
	x := NewEmbeddingIndex(1)
	for i := 0; i < 10; i++ {
		x.Add(string(rune('a'+i)), []float32{float32(i + 1)})
	}

	hits, err := x.Search([]float32{1}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 3 {
		t.Errorf("expected 3 hits, got %d", len(hits))
	}

	hits, err = x.Search([]float32{1}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 10 {
		t.Errorf("expected all 10 hits, got %d", len(hits))
	}
}

func TestEmbeddingIndexEmpty(t *testing.T) {
	x := NewEmbeddingIndex(4)
	hits, err := x.Search([]float32{1, 0, 0, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits from empty index, got %d", len(hits))
	}
}
