package lang

import (
	"github.com/zeebo/xxh3"

	"github.com/ardnew/lsexpr/lang/token"
)

// DefaultCacheSize is the number of distinct source lines whose tokens an
// [Interpreter] keeps.
const DefaultCacheSize = 256

// lexCache memoizes lexer output keyed by the xxh3 hash of the source.
// Tokens are immutable, so cached slices are shared only by copy.
type lexCache struct {
	entries map[uint64][]token.Token
	limit   int
	hits    int
	misses  int
}

func newLexCache(limit int) *lexCache {
	return &lexCache{entries: make(map[uint64][]token.Token), limit: limit}
}

func (c *lexCache) get(src string) ([]token.Token, bool) {
	if c == nil || c.limit <= 0 {
		return nil, false
	}

	tokens, ok := c.entries[xxh3.HashString(src)]
	if !ok {
		c.misses++

		return nil, false
	}

	c.hits++

	return append([]token.Token(nil), tokens...), true
}

func (c *lexCache) put(src string, tokens []token.Token) {
	if c == nil || c.limit <= 0 {
		return
	}

	if len(c.entries) >= c.limit {
		clear(c.entries)
	}

	c.entries[xxh3.HashString(src)] = append([]token.Token(nil), tokens...)
}
