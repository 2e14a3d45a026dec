package solver

import (
	"context"
	"fmt"

	"github.com/arcs-solver/arcs/logger"
	"github.com/rs/zerolog"
)

// Option defines option for altering the behavior of the solver (Solve()
// function). See the descriptions of functions returning instances of this
// type for implemented options.
type Option func(*Config) error

// Config is the configuration for the solver with the options applied.
type Config struct {
	Rules    []Rule          // defaults to Eliminate and OnlyChoice
	Logger   zerolog.Logger  // defaults to arcs logger
	Ctx      context.Context // defaults to context.Background()
	MaxNodes int             // defaults to 0 (unbounded)
}

// WithRules replaces the default reduction rule list. Rules run in the given
// order inside every fixpoint pass.
func WithRules(rules ...Rule) Option {
	return func(opt *Config) error {
		if len(rules) == 0 {
			return fmt.Errorf("rule list must not be empty")
		}
		opt.Rules = rules
		return nil
	}
}

// WithNakedTwins appends the naked-twins rule to the rule list.
func WithNakedTwins() Option {
	return func(opt *Config) error {
		opt.Rules = append(opt.Rules, NakedTwins)
		return nil
	}
}

// WithLogger is a solver option that specifies zerolog.Logger as a
// destination for the logs printed while solving. By default, uses
// arcs/logger. zerolog.Nop() will disable logging.
func WithLogger(l zerolog.Logger) Option {
	return func(opt *Config) error {
		opt.Logger = l
		return nil
	}
}

// WithContext bounds the run with a context; cancellation is checked before
// every branching step and yields an Indet result rather than an error.
func WithContext(ctx context.Context) Option {
	return func(opt *Config) error {
		if ctx == nil {
			return fmt.Errorf("nil context")
		}
		opt.Ctx = ctx
		return nil
	}
}

// WithMaxSearchNodes caps the number of tentative assignments; exceeding the
// cap yields an Indet result. Useful to bound worst-case exponential runs.
func WithMaxSearchNodes(n int) Option {
	return func(opt *Config) error {
		if n <= 0 {
			return fmt.Errorf("invalid search node budget: %d", n)
		}
		opt.MaxNodes = n
		return nil
	}
}

// NewConfig returns a default Config with given options opts applied.
func NewConfig(opts ...Option) (Config, error) {
	opt := Config{
		Rules:  DefaultRules(),
		Logger: logger.Logger(),
		Ctx:    context.Background(),
	}
	for _, option := range opts {
		if err := option(&opt); err != nil {
			return Config{}, err
		}
	}
	return opt, nil
}
