package parser

import "sync"

// DefaultMaxTokens is the token ceiling used when none is configured.
const DefaultMaxTokens = 15000

// Listener observes every significant token a parse consumes, with the
// fragment-local line and the column of the token. It must not panic.
type Listener func(token string, line, column int)

type Options struct {
	// MaxTokens is the number of significant tokens a single parse may
	// consume. Non-positive values select DefaultMaxTokens.
	MaxTokens       int
	ParsingListener Listener
	// CaptureIgnoredChars records the whitespace, commas and line
	// terminators around each node in NodeBase.IgnoredChars.
	CaptureIgnoredChars   bool
	CaptureSourceLocation bool
	CaptureLineComments   bool
}

func builtinOptions() Options {
	return Options{
		MaxTokens:             DefaultMaxTokens,
		CaptureIgnoredChars:   false,
		CaptureSourceLocation: true,
		CaptureLineComments:   true,
	}
}

func (o Options) normalized() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	return o
}

var (
	defaultMu      sync.RWMutex
	defaultOptions = builtinOptions()
)

// DefaultOptions returns the process-wide defaults that New starts from.
func DefaultOptions() Options {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultOptions
}

// SetDefaultOptions replaces the process-wide defaults. Parsers created
// earlier keep the options they were built with.
func SetDefaultOptions(o Options) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultOptions = o.normalized()
}

// ResetDefaultOptions restores the built-in defaults.
func ResetDefaultOptions() {
	SetDefaultOptions(builtinOptions())
}

type Option func(*Options)

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithParsingListener(l Listener) Option {
	return func(o *Options) {
		o.ParsingListener = l
	}
}

func WithIgnoredChars(capture bool) Option {
	return func(o *Options) {
		o.CaptureIgnoredChars = capture
	}
}

func WithSourceLocation(capture bool) Option {
	return func(o *Options) {
		o.CaptureSourceLocation = capture
	}
}

func WithLineComments(capture bool) Option {
	return func(o *Options) {
		o.CaptureLineComments = capture
	}
}

// WithOptions replaces every setting at once.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		*o = opts
	}
}
