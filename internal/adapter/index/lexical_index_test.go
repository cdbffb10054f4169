package index

import (
	"testing"
)

func addText(x *LexicalIndex, id string, tokens ...string) {
	freqs := make(map[string]int)
	for _, t := range tokens {
		freqs[t]++
	}
	x.Add(id, freqs, len(tokens))
}

func TestLexicalIndexRanksTermFrequency(t *testing.T) {
	x := NewLexicalIndex(1.2, 0.75)

	addText(x, "heavy", "espresso", "espresso", "espresso", "milk")
	addText(x, "light", "espresso", "milk", "sugar", "water")
	addText(x, "none", "tea", "milk", "sugar", "water")

	hits := x.Search([]string{"espresso"}, 10)

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ChunkID != "heavy" {
		t.Errorf("expected higher-tf chunk first, got %q", hits[0].ChunkID)
	}
	if hits[0].Score <= hits[1].Score {
		t.Errorf("expected strictly higher score for higher tf: %f vs %f",
			hits[0].Score, hits[1].Score)
	}
}

func TestLexicalIndexRareTermsScoreHigher(t *testing.T) {
	x := NewLexicalIndex(1.2, 0.75)

	// "common" appears everywhere, "rare" in one chunk.
	addText(x, "c1", "common", "rare")
	addText(x, "c2", "common", "filler")
	addText(x, "c3", "common", "filler")
	addText(x, "c4", "common", "filler")

	rare := x.Search([]string{"rare"}, 1)
	common := x.Search([]string{"common"}, 1)

	if len(rare) == 0 || len(common) == 0 {
		t.Fatal("expected hits for both terms")
	}
	if rare[0].Score <= common[0].Score {
		t.Errorf("rare term should outscore common term: %f vs %f",
			rare[0].Score, common[0].Score)
	}
}

func TestLexicalIndexEmptyQuery(t *testing.T) {
	x := NewLexicalIndex(1.2, 0.75)
	addText(x, "c1", "something")

	hits := x.Search(nil, 10)
	if hits != nil {
		t.Errorf("empty query must yield empty results, got %v", hits)
	}
}

func TestLexicalIndexUnknownTerm(t *testing.T) {
	x := NewLexicalIndex(1.2, 0.75)
	addText(x, "c1", "alpha", "beta")

	hits := x.Search([]string{"gamma"}, 10)
	if len(hits) != 0 {
		t.Errorf("expected no hits for unknown term, got %v", hits)
	}
}

func TestLexicalIndexDeterministicTies(t *testing.T) {
	x := NewLexicalIndex(1.2, 0.75)

	// Identical chunks tie exactly; order must follow insertion.
	addText(x, "b-second", "word", "word")
	addText(x, "a-third", "word", "word")
	addText(x, "z-first", "other")

	for run := 0; run < 10; run++ {
		hits := x.Search([]string{"word"}, 10)
		if len(hits) != 2 {
			t.Fatalf("expected 2 hits, got %d", len(hits))
		}
		if hits[0].ChunkID != "b-second" || hits[1].ChunkID != "a-third" {
			t.Fatalf("run %d: tie order unstable: %v", run, hits)
		}
	}
}

func TestLexicalIndexStats(t *testing.T) {
	x := NewLexicalIndex(1.2, 0.75)
	addText(x, "c1", "one", "two")
	addText(x, "c2", "one", "two", "three", "four")

	stats := x.Stats()
	if stats.TotalChunks != 2 {
		t.Errorf("expected 2 chunks, got %d", stats.TotalChunks)
	}
	if stats.AvgChunkLen != 3 {
		t.Errorf("expected avg length 3, got %f", stats.AvgChunkLen)
	}
}

func TestLexicalIndexDuplicateAddIgnored(t *testing.T) {
	x := NewLexicalIndex(1.2, 0.75)
	addText(x, "c1", "alpha")
	addText(x, "c1", "alpha", "beta")

	if x.Len() != 1 {
		t.Errorf("duplicate add should be ignored, len=%d", x.Len())
	}
}
