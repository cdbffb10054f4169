package embedding

import (
	"context"
	"math"
	"testing"
)

func TestMockEmbedderDeterministic(t *testing.T) {
	m := NewMockEmbedder(32)

	a, err := m.Embed(context.Background(), []string{"alpha beta gamma"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.Embed(context.Background(), []string{"alpha beta gamma"})
	if err != nil {
		t.Fatal(err)
	}

	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatal("mock embeddings not deterministic")
		}
	}
}

func TestMockEmbedderUnitNorm(t *testing.T) {
	m := NewMockEmbedder(32)

	vecs, err := m.Embed(context.Background(), []string{"some words here"})
	if err != nil {
		t.Fatal(err)
	}

	var norm float64
	for _, v := range vecs[0] {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1) > 1e-6 {
		t.Errorf("expected unit norm, got %f", math.Sqrt(norm))
	}
}

func TestMockEmbedderSimilarTextsCloser(t *testing.T) {
	m := NewMockEmbedder(64)

	vecs, err := m.Embed(context.Background(), []string{
		"coffee brewing methods espresso",
		"espresso brewing techniques coffee",
		"quantum entanglement physics",
	})
	if err != nil {
		t.Fatal(err)
	}

	dot := func(a, b []float32) float64 {
		var d float64
		for i := range a {
			d += float64(a[i]) * float64(b[i])
		}
		return d
	}

	if dot(vecs[0], vecs[1]) <= dot(vecs[0], vecs[2]) {
		t.Error("overlapping texts should be closer than unrelated ones")
	}
}

func TestMockCrossEncoderOverlap(t *testing.T) {
	ce := NewMockCrossEncoder()

	full, err := ce.Score(context.Background(), "coffee brewing", "notes on coffee brewing methods")
	if err != nil {
		t.Fatal(err)
	}
	if full != 1.0 {
		t.Errorf("expected full overlap score 1.0, got %f", full)
	}

	none, err := ce.Score(context.Background(), "coffee brewing", "quantum physics")
	if err != nil {
		t.Fatal(err)
	}
	if none != 0.0 {
		t.Errorf("expected zero overlap, got %f", none)
	}

	half, err := ce.Score(context.Background(), "coffee physics", "quantum physics")
	if err != nil {
		t.Fatal(err)
	}
	if half != 0.5 {
		t.Errorf("expected half overlap, got %f", half)
	}
}

func TestMockRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewMockEmbedder(8).Embed(ctx, []string{"x"}); err == nil {
		t.Error("expected context error from embedder")
	}
	if _, err := NewMockCrossEncoder().Score(ctx, "a", "b"); err == nil {
		t.Error("expected context error from cross-encoder")
	}
}
