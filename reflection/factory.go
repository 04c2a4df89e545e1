package reflection

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/propmeta/cache"
	"github.com/Konsultn-Engineering/propmeta/typeinfo"
)

// ReflectorFactory hands out the Reflector of a type.
type ReflectorFactory interface {
	IsClassCacheEnabled() bool
	SetClassCacheEnabled(enabled bool)
	FindForClass(t *typeinfo.Type) (*Reflector, error)
}

// DefaultReflectorFactory memoizes one Reflector per type. While caching is
// enabled a type is extracted at most once, however many goroutines ask for it
// concurrently; while disabled every call extracts afresh. Failed extractions
// are never cached.
type DefaultReflectorFactory struct {
	opts    *options
	enabled atomic.Bool
	builds  atomic.Int64
	memo    *cache.Memo[*typeinfo.Type, *Reflector]
	logger  *zap.Logger
}

var _ ReflectorFactory = (*DefaultReflectorFactory)(nil)

func typeKey(t *typeinfo.Type) string {
	return t.ID().String()
}

// NewFactory creates a factory. The options are also applied to every
// Reflector it builds.
func NewFactory(opts ...Option) (*DefaultReflectorFactory, error) {
	o := applyOptions(opts)
	f := &DefaultReflectorFactory{opts: o, logger: o.logger}
	f.enabled.Store(o.cacheEnabled)

	if o.cacheSize > 0 {
		memo, err := cache.NewBoundedMemo[*typeinfo.Type, *Reflector](o.cacheSize, typeKey, f.evicted)
		if err != nil {
			return nil, fmt.Errorf("reflector cache: %w", err)
		}
		f.memo = memo
	} else {
		f.memo = cache.NewMemo[*typeinfo.Type, *Reflector](typeKey)
	}
	return f, nil
}

// IsClassCacheEnabled reports whether FindForClass serves cached reflectors.
func (f *DefaultReflectorFactory) IsClassCacheEnabled() bool {
	return f.enabled.Load()
}

// SetClassCacheEnabled toggles caching. Reflectors cached before disabling are
// kept and served again once caching is re-enabled.
func (f *DefaultReflectorFactory) SetClassCacheEnabled(enabled bool) {
	f.enabled.Store(enabled)
}

// FindForClass returns the Reflector of t.
func (f *DefaultReflectorFactory) FindForClass(t *typeinfo.Type) (*Reflector, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", typeinfo.ErrIllegalArgument)
	}
	if !f.enabled.Load() {
		return f.build(t)
	}
	return f.memo.GetOrCompute(t, func() (*Reflector, error) {
		return f.build(t)
	})
}

// Builds returns how many extractions this factory has run, failed ones
// included.
func (f *DefaultReflectorFactory) Builds() int64 {
	return f.builds.Load()
}

// Cached returns how many reflectors are currently cached.
func (f *DefaultReflectorFactory) Cached() int {
	return f.memo.Len()
}

// Forget drops the cached Reflector of t, if any.
func (f *DefaultReflectorFactory) Forget(t *typeinfo.Type) bool {
	return f.memo.Remove(t)
}

// Purge drops every cached Reflector.
func (f *DefaultReflectorFactory) Purge() {
	f.memo.Purge()
}

func (f *DefaultReflectorFactory) build(t *typeinfo.Type) (*Reflector, error) {
	f.builds.Add(1)
	start := time.Now()
	r, err := NewReflector(t, f.withOptions)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("reflector built",
		zap.String("type", t.Name()),
		zap.Stringer("build_id", r.BuildID()),
		zap.Int("readable", len(r.readable)),
		zap.Int("writable", len(r.writable)),
		zap.Duration("duration", time.Since(start)),
		zap.Bool("cached", f.enabled.Load()),
	)
	return r, nil
}

// withOptions hands the factory's options to NewReflector unchanged.
func (f *DefaultReflectorFactory) withOptions(o *options) {
	*o = *f.opts
}

func (f *DefaultReflectorFactory) evicted(t *typeinfo.Type, r *Reflector) {
	f.logger.Debug("reflector evicted",
		zap.String("type", t.Name()),
		zap.Stringer("build_id", r.BuildID()),
	)
	if f.opts.onEvict != nil {
		f.opts.onEvict(t, r)
	}
}
