package cache

import (
	"fmt"
	"testing"
	"time"

	"vaultsearch/internal/domain"
)

func TestCacheHitAndMiss(t *testing.T) {
	c := NewQueryCache(4, time.Minute)
	key := Key("coffee", 10, 0, nil, time.Unix(100, 0))

	if _, hit := c.Get(key); hit {
		t.Error("unexpected hit on empty cache")
	}

	c.Put(key, []domain.Result{{DocID: "a.md"}})
	results, hit := c.Get(key)
	if !hit || len(results) != 1 || results[0].DocID != "a.md" {
		t.Errorf("hit = %v, results = %v", hit, results)
	}
}

func TestCacheKeyIncludesBuildTime(t *testing.T) {
	k1 := Key("coffee", 10, 0, nil, time.Unix(100, 0))
	k2 := Key("coffee", 10, 0, nil, time.Unix(200, 0))
	if k1 == k2 {
		t.Error("rebuild should change the cache key")
	}

	k3 := Key("coffee", 10, 0.5, nil, time.Unix(100, 0))
	if k1 == k3 {
		t.Error("min score should change the cache key")
	}

	k4 := Key("coffee", 10, 0, []string{"work"}, time.Unix(100, 0))
	if k1 == k4 {
		t.Error("tag filter should change the cache key")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := NewQueryCache(4, time.Nanosecond)
	key := Key("q", 1, 0, nil, time.Unix(0, 0))

	c.Put(key, []domain.Result{{DocID: "a"}})
	time.Sleep(time.Millisecond)

	if _, hit := c.Get(key); hit {
		t.Error("expired entry should miss")
	}
	if c.Size() != 0 {
		t.Error("expired entry should be removed")
	}
}

func TestCacheEviction(t *testing.T) {
	c := NewQueryCache(2, time.Minute)

	keys := make([]string, 3)
	for i := range keys {
		keys[i] = Key(fmt.Sprintf("q%d", i), 1, 0, nil, time.Unix(0, 0))
	}

	c.Put(keys[0], nil)
	c.Put(keys[1], nil)
	c.Get(keys[0]) // refresh, keys[1] becomes oldest
	c.Put(keys[2], nil)

	if _, hit := c.Get(keys[1]); hit {
		t.Error("least recently used entry should be evicted")
	}
	if _, hit := c.Get(keys[0]); !hit {
		t.Error("recently used entry should survive")
	}
}
