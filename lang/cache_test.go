package lang

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/lsexpr/lang/token"
)

func TestLexCache_HitsAndMisses(t *testing.T) {
	c := newLexCache(4)
	tokens := mustLex(t, "1 + 2")

	if _, ok := c.get("1 + 2"); ok {
		t.Fatal("empty cache reported a hit")
	}

	c.put("1 + 2", tokens)

	got, ok := c.get("1 + 2")
	if !ok {
		t.Fatal("cache missed a stored entry")
	}

	if diff := cmp.Diff(tokens, got); diff != "" {
		t.Errorf("cached tokens mismatch (-want +got):\n%s", diff)
	}

	if c.hits != 1 || c.misses != 1 {
		t.Errorf("hits = %d, misses = %d; want 1, 1", c.hits, c.misses)
	}
}

func TestLexCache_ReturnsCopies(t *testing.T) {
	c := newLexCache(4)
	c.put("x", []token.Token{token.Lit("x")})

	got, _ := c.get("x")
	got[0] = token.Lit("changed")

	again, _ := c.get("x")
	if again[0].Text != "x" {
		t.Errorf("cache entry mutated through returned slice: %q", again[0].Text)
	}
}

func TestLexCache_Limit(t *testing.T) {
	c := newLexCache(2)

	for _, src := range []string{"a", "b", "c"} {
		c.put(src, []token.Token{token.Lit(src)})
	}

	if len(c.entries) > 2 {
		t.Errorf("cache holds %d entries, limit 2", len(c.entries))
	}

	if _, ok := c.get("c"); !ok {
		t.Error("most recent entry was dropped")
	}
}

func TestLexCache_Disabled(t *testing.T) {
	var nilCache *lexCache

	nilCache.put("x", nil)

	if _, ok := nilCache.get("x"); ok {
		t.Error("nil cache reported a hit")
	}

	off := newLexCache(0)
	off.put("x", []token.Token{token.Lit("x")})

	if _, ok := off.get("x"); ok {
		t.Error("zero-size cache reported a hit")
	}

	if _, err := New(WithCacheSize(0)).Exec(t.Context(), "1 + 1"); err != nil {
		t.Errorf("uncached interpreter: %v", err)
	}
}
