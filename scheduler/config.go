package scheduler

import "runtime"

// Config configures a Pool, following the teacher's own constructor-arg
// style (core/concurrency/executor.go's NewExecutor(numWorkers,
// numaNode int)) generalized to functional options so new knobs (steal
// bound, affinity) don't grow the positional parameter list.
type Config struct {
	numWorkers int
	affinity   bool
	stealBound int // 0 means "use the default, 2*(numWorkers+1)"
}

// Option configures a Config passed to NewWithConfig.
type Option func(*Config)

// WithWorkers sets the number of worker goroutines. Defaults to
// runtime.GOMAXPROCS(0) if unset or non-positive.
func WithWorkers(n int) Option {
	return func(c *Config) { c.numWorkers = n }
}

// WithAffinity enables per-worker CPU pinning via the affinity package.
// Off by default: most callers running inside a larger process (or a
// container with a fractional CPU quota) should not have a library
// silently claim whole cores.
func WithAffinity(enabled bool) Option {
	return func(c *Config) { c.affinity = enabled }
}

// WithStealBound overrides the default steal_bound
// (2*(numWorkers+1), see original_source/threadable/scheduler/stealing.hxx)
// used by each worker's bounded explore backoff.
func WithStealBound(n int) Option {
	return func(c *Config) { c.stealBound = n }
}

func defaultConfig() Config {
	return Config{numWorkers: runtime.GOMAXPROCS(0)}
}

// NewWithConfig starts a pool configured by opts, applied over the
// default of GOMAXPROCS workers, affinity disabled, default steal bound.
func NewWithConfig(opts ...Option) *Pool {
	c := defaultConfig()
	for _, o := range opts {
		o(&c)
	}
	if c.numWorkers < 1 {
		c.numWorkers = runtime.GOMAXPROCS(0)
	}
	return newPool(c)
}
