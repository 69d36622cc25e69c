// Package storage persists fitpal's state as independent JSON values in a
// cache.Cache. Reads and writes never fail towards the caller: errors are
// logged and loads fall back to a default.
package storage

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/lildude/fitpal/internal/cache"
	"github.com/sirupsen/logrus"
)

type Adapter struct {
	cache    cache.Cache
	log      logrus.FieldLogger
	failures atomic.Int64
}

func NewAdapter(c cache.Cache, log logrus.FieldLogger) *Adapter {
	return &Adapter{cache: c, log: log}
}

// Failures returns how many operations have failed and been swallowed.
func (a *Adapter) Failures() int64 {
	return a.failures.Load()
}

func (a *Adapter) fail(err error, op, key string) {
	a.failures.Add(1)
	a.log.WithError(err).WithFields(logrus.Fields{"op": op, "key": key}).Error("storage operation failed")
}

// Save serializes value and writes it under key.
func (a *Adapter) Save(ctx context.Context, key string, value any) {
	b, err := json.Marshal(value)
	if err != nil {
		a.fail(err, "encode", key)
		return
	}
	if err := a.cache.Set(ctx, key, string(b)); err != nil {
		a.fail(err, "save", key)
	}
}

// Remove deletes key.
func (a *Adapter) Remove(ctx context.Context, key string) {
	if err := a.cache.Delete(ctx, key); err != nil {
		a.fail(err, "remove", key)
	}
}

// Clear deletes every key.
func (a *Adapter) Clear(ctx context.Context) {
	if err := a.cache.Clear(ctx); err != nil {
		a.fail(err, "clear", "*")
	}
}

// Load reads key into a T, returning def when the key is missing, the stored
// text is not valid JSON for T, or the backend fails.
func Load[T any](ctx context.Context, a *Adapter, key string, def T) T {
	raw, ok, err := a.cache.Get(ctx, key)
	if err != nil {
		a.fail(err, "load", key)
		return def
	}
	if !ok || raw == "" {
		return def
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		a.fail(err, "decode", key)
		return def
	}
	return v
}
