package catalog

import (
	"context"
	"sync"
	"testing"
)

func TestCacheFetchesOncePerKey(t *testing.T) {
	cache := NewCache()
	calls := 0
	fetch := func(context.Context) (Credits, error) {
		calls++
		return Credits{Directors: []string{"Jane Doe"}}, nil
	}

	key := Key("tmdb", "42", "fr-FR")
	for i := 0; i < 3; i++ {
		credits, err := cache.Credits(context.Background(), key, fetch)
		if err != nil {
			t.Fatalf("Credits returned error: %v", err)
		}
		if len(credits.Directors) != 1 || credits.Directors[0] != "Jane Doe" {
			t.Fatalf("unexpected credits: %+v", credits)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 underlying fetch, got %d", calls)
	}
}

func TestCacheErrorNotCached(t *testing.T) {
	cache := NewCache()
	calls := 0
	fetch := func(context.Context) (Detail, error) {
		calls++
		if calls == 1 {
			return Detail{}, Wrap(ErrTransport, "tmdb", "details", "boom", nil)
		}
		return Detail{Synopsis: "ok"}, nil
	}

	key := Key("tmdb", "7", "fr-FR")
	if _, err := cache.Details(context.Background(), key, fetch); err == nil {
		t.Fatal("expected first fetch to fail")
	}
	detail, err := cache.Details(context.Background(), key, fetch)
	if err != nil {
		t.Fatalf("second fetch returned error: %v", err)
	}
	if detail.Synopsis != "ok" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if calls != 2 {
		t.Fatalf("expected 2 fetches, got %d", calls)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Credits(context.Background(), Key("tmdb", "1", "fr-FR"), func(context.Context) (Credits, error) {
				return Credits{Directors: []string{"d"}}, nil
			})
			if err != nil {
				t.Errorf("Credits returned error: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestKeySeparatesLanguages(t *testing.T) {
	if Key("tmdb", "1", "fr-FR") == Key("tmdb", "1", "en-US") {
		t.Fatal("keys for different languages must differ")
	}
}
