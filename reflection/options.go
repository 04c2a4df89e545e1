package reflection

import (
	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/propmeta/typeinfo"
)

type options struct {
	resolver     typeinfo.TypeResolver
	policy       AccessPolicy
	logger       *zap.Logger
	cacheSize    int
	cacheEnabled bool
	onEvict      func(*typeinfo.Type, *Reflector)
}

// Option configures NewReflector and NewFactory. Options that only make sense
// for a factory are ignored by NewReflector.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		resolver:     typeinfo.Erasure{},
		policy:       CanControlMemberAccessible,
		logger:       zap.NewNop(),
		cacheEnabled: true,
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithResolver sets the resolver used to erase declared member types.
func WithResolver(r typeinfo.TypeResolver) Option {
	return func(o *options) {
		if r != nil {
			o.resolver = r
		}
	}
}

// WithAccessPolicy sets the policy consulted when a member is not accessible.
func WithAccessPolicy(p AccessPolicy) Option {
	return func(o *options) {
		if p != nil {
			o.policy = p
		}
	}
}

// WithLogger sets the logger receiving build and eviction events. A nil
// logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCacheSize bounds the factory cache to n reflectors, least recently used
// evicted first. Zero or less means unbounded.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithCacheEnabled sets the initial caching state of a factory.
func WithCacheEnabled(enabled bool) Option {
	return func(o *options) {
		o.cacheEnabled = enabled
	}
}

// WithEvictionCallback is called when a bounded factory cache drops a reflector.
func WithEvictionCallback(fn func(*typeinfo.Type, *Reflector)) Option {
	return func(o *options) {
		o.onEvict = fn
	}
}
