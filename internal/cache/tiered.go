package cache

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Tiered answers from an in-process go-cache first and falls back to the
// backing store, promoting hits. A nil backing store makes it memory only.
type Tiered struct {
	mem  *gocache.Cache
	back Store
}

func NewTiered(back Store, memTTL time.Duration) *Tiered {
	if memTTL <= 0 {
		memTTL = time.Minute
	}
	return &Tiered{mem: gocache.New(memTTL, 2*memTTL), back: back}
}

func (t *Tiered) Get(ctx context.Context, key string) (Entry, error) {
	if v, ok := t.mem.Get(key); ok {
		return v.(Entry), nil
	}
	if t.back == nil {
		return Entry{}, ErrMiss
	}
	e, err := t.back.Get(ctx, key)
	if err != nil {
		return Entry{}, err
	}
	t.mem.SetDefault(key, e)
	return e, nil
}

func (t *Tiered) Set(ctx context.Context, key string, data []byte) error {
	t.mem.SetDefault(key, Entry{Data: data, StoredAt: time.Now()})
	if t.back == nil {
		return nil
	}
	return t.back.Set(ctx, key, data)
}

func (t *Tiered) Close() error {
	t.mem.Flush()
	if t.back == nil {
		return nil
	}
	return t.back.Close()
}

// IsMiss reports whether err means the key was absent.
func IsMiss(err error) bool {
	return errors.Is(err, ErrMiss)
}
