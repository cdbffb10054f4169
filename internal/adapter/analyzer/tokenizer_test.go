package analyzer

import (
	"reflect"
	"testing"
)

func TestTokenizeLowercasesAndDropsStopwords(t *testing.T) {
	tok := NewTokenizer(false)

	tokens := tok.Tokenize("The Quick brown FOX and the lazy dog")

	for _, tk := range tokens {
		if tk == "the" || tk == "and" {
			t.Errorf("stopword %q survived tokenization", tk)
		}
	}
	want := []string{"quick", "brown", "fox", "lazy", "dog"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("got %v, want %v", tokens, want)
	}
}

func TestTokenizeStemming(t *testing.T) {
	tok := NewTokenizer(true)

	a := tok.Tokenize("running runner runs")
	if len(a) != 3 {
		t.Fatalf("expected 3 tokens, got %v", a)
	}
	if a[0] != a[2] {
		t.Errorf("expected 'running' and 'runs' to share a stem, got %q vs %q", a[0], a[2])
	}
}

func TestTermFreqs(t *testing.T) {
	tok := NewTokenizer(false)

	freqs, count := tok.TermFreqs("apple banana apple cherry apple")
	if count != 5 {
		t.Errorf("expected token count 5, got %d", count)
	}
	if freqs["apple"] != 3 {
		t.Errorf("expected tf(apple)=3, got %d", freqs["apple"])
	}
	if freqs["banana"] != 1 || freqs["cherry"] != 1 {
		t.Errorf("unexpected freqs: %v", freqs)
	}
}

func TestTokenizeDeterminism(t *testing.T) {
	tok := NewTokenizer(true)
	text := "Internationalization considerations for distributed organizations"

	first := tok.Tokenize(text)
	for i := 0; i < 10; i++ {
		again := tok.Tokenize(text)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("tokenization not deterministic: %v vs %v", first, again)
		}
	}
}

func TestExtractHashtags(t *testing.T) {
	tags := ExtractHashtags("notes on #golang and #distributed-systems, not#this or #123")

	want := []string{"golang", "distributed-systems"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("got %v, want %v", tags, want)
	}
}

func TestExtractHashtagsDeduplicates(t *testing.T) {
	tags := ExtractHashtags("#go #Go #GO")
	if len(tags) != 1 || tags[0] != "go" {
		t.Errorf("expected single deduplicated tag, got %v", tags)
	}
}
