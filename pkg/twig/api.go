package twig

import (
	"fmt"
	"strings"

	"github.com/zeebo/blake3"
)

// Template is a compiled template. It is immutable and safe to render from
// multiple goroutines.
type Template struct {
	tokens        []CompiledToken
	orderedConcat bool
	logger        *Logger
	fingerprint   [32]byte
}

// Fingerprint returns the BLAKE3 digest of the source the template was compiled from.
func (t *Template) Fingerprint() [32]byte {
	return t.fingerprint
}

// Tokens returns a copy of the compiled token list.
func (t *Template) Tokens() []CompiledToken {
	out := make([]CompiledToken, len(t.tokens))
	copy(out, t.tokens)
	return out
}

// String returns a debug listing of the compiled tokens, one per line.
func (t *Template) String() string {
	var b strings.Builder
	for i, tok := range t.tokens {
		fmt.Fprintf(&b, "%3d %s\n", i, tok)
	}
	return b.String()
}

// Option configures Compile and New. Later options win.
type Option func(*settings)

type settings struct {
	config  *Config
	logger  *Logger
	filters map[string]FilterFunc
}

// WithConfig replaces the configuration. An empty LogLevel and a zero MaxDepth
// or CacheSweepInterval take their defaults; a zero CacheMaxSize disables caching.
func WithConfig(config *Config) Option {
	return func(s *settings) {
		s.config = NewConfigWithDefaults(config)
	}
}

// WithLogger sets the logger used for debug traces. Without it, a logger is
// created from the configured log level, and nothing is logged at level off.
func WithLogger(logger *Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithFilter registers a filter, replacing a built-in of the same name.
func WithFilter(name string, fn FilterFunc) Option {
	return func(s *settings) {
		s.filters[name] = fn
	}
}

// WithOrderedConcat makes ~ join its operands left to right.
func WithOrderedConcat(ordered bool) Option {
	return func(s *settings) {
		s.config.OrderedConcat = ordered
	}
}

func newSettings(opts ...Option) *settings {
	s := &settings{
		config:  DefaultConfig(),
		filters: defaultFilters(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil && s.config.LogLevel != "off" {
		s.logger = NewLoggerFromConfig(s.config)
	}
	return s
}

func (s *settings) compile(source string) (*Template, error) {
	env := &compileEnv{
		filters:  s.filters,
		logger:   s.logger,
		maxDepth: s.config.MaxDepth,
	}

	raw, err := scanTemplate(source, env.logger)
	if err != nil {
		return nil, withPosition(err, source)
	}

	tokens, err := compileTokens(raw, env)
	if err != nil {
		return nil, withPosition(err, source)
	}

	return &Template{
		tokens:        tokens,
		orderedConcat: s.config.OrderedConcat,
		logger:        s.logger,
		fingerprint:   blake3.Sum256([]byte(source)),
	}, nil
}

// Compile compiles a template.
func Compile(source string, opts ...Option) (*Template, error) {
	s := newSettings(opts...)
	if err := s.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return s.compile(source)
}

// MustCompile is like Compile but panics if the template cannot be compiled.
func MustCompile(source string, opts ...Option) *Template {
	t, err := Compile(source, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Engine compiles templates with shared options and caches the results by
// source text.
type Engine struct {
	settings *settings
	cache    *TemplateCache
}

// New creates an engine. An invalid configuration is replaced by the defaults
// and reported through the logger.
func New(opts ...Option) *Engine {
	s := newSettings(opts...)
	if err := s.config.Validate(); err != nil {
		s.logger.WithField("error", err).Warn("Invalid config, using defaults")
		s.config = DefaultConfig()
	}

	return &Engine{
		settings: s,
		cache: NewTemplateCache(CacheConfig{
			MaxSize:       s.config.CacheMaxSize,
			TTL:           s.config.CacheTTL,
			SweepInterval: s.config.CacheSweepInterval,
		}, s.logger),
	}
}

// Compile compiles source, or returns the cached template compiled from it.
func (e *Engine) Compile(source string) (*Template, error) {
	if tmpl, ok := e.cache.Get(source); ok {
		return tmpl, nil
	}

	tmpl, err := e.settings.compile(source)
	if err != nil {
		return nil, err
	}

	e.cache.Set(source, tmpl)
	return tmpl, nil
}

// Render compiles source and renders it with ctx.
func (e *Engine) Render(source string, ctx Context) (string, error) {
	tmpl, err := e.Compile(source)
	if err != nil {
		return "", err
	}
	return tmpl.Render(ctx)
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	return *e.settings.config
}

// ClearCache removes all compiled templates from the cache.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// Close stops the cache sweeper and empties the cache.
func (e *Engine) Close() error {
	return e.cache.Close()
}
