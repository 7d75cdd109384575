// Package config reads gqlfront settings from flags, GQLFRONT_ environment
// variables and gqlfront.yaml, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dhamidi/gqlfront/graphql/parser"
	"github.com/dhamidi/gqlfront/server"
	"github.com/dhamidi/gqlfront/workspace"
)

const (
	EnvPrefix = "GQLFRONT"
	FileName  = "gqlfront"
)

// Config paths searched for gqlfront.yaml when no file is given explicitly.
var Paths = []string{".", "$HOME/.gqlfront"}

type Config struct {
	Parser ParserConfig `mapstructure:"parser"`
	Server ServerConfig `mapstructure:"server"`
	Watch  WatchConfig  `mapstructure:"watch"`
}

type ParserConfig struct {
	MaxTokens             int  `mapstructure:"max-tokens"`
	CaptureIgnoredChars   bool `mapstructure:"capture-ignored-chars"`
	CaptureSourceLocation bool `mapstructure:"capture-source-location"`
	CaptureLineComments   bool `mapstructure:"capture-line-comments"`
}

type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	Workers      int    `mapstructure:"workers"`
	Window       int    `mapstructure:"window"`
	MaxBodyBytes int64  `mapstructure:"max-body-bytes"`
}

type WatchConfig struct {
	Debounce   time.Duration `mapstructure:"debounce"`
	SkipHidden bool          `mapstructure:"skip-hidden"`
}

// Default holds the built-in settings. It does not depend on the current
// process-wide parser defaults, which Apply overwrites.
func Default() *Config {
	srv := server.DefaultConfig()
	watch := workspace.DefaultWatcherConfig()
	return &Config{
		Parser: ParserConfig{
			MaxTokens:             parser.DefaultMaxTokens,
			CaptureIgnoredChars:   false,
			CaptureSourceLocation: true,
			CaptureLineComments:   true,
		},
		Server: ServerConfig{
			Addr:         srv.Addr,
			Workers:      srv.Workers,
			Window:       srv.Window,
			MaxBodyBytes: srv.MaxBodyBytes,
		},
		Watch: WatchConfig{
			Debounce:   watch.Debounce,
			SkipHidden: watch.SkipHidden,
		},
	}
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"max-tokens":              "parser.max-tokens",
	"capture-ignored-chars":   "parser.capture-ignored-chars",
	"capture-source-location": "parser.capture-source-location",
	"capture-line-comments":   "parser.capture-line-comments",
	"addr":                    "server.addr",
	"workers":                 "server.workers",
	"window":                  "server.window",
	"max-body-bytes":          "server.max-body-bytes",
	"debounce":                "watch.debounce",
}

// New returns a viper instance that knows every key, the environment
// prefix and the config search paths.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for _, path := range Paths {
		v.AddConfigPath(path)
	}

	d := Default()
	v.SetDefault("parser.max-tokens", d.Parser.MaxTokens)
	v.SetDefault("parser.capture-ignored-chars", d.Parser.CaptureIgnoredChars)
	v.SetDefault("parser.capture-source-location", d.Parser.CaptureSourceLocation)
	v.SetDefault("parser.capture-line-comments", d.Parser.CaptureLineComments)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.workers", d.Server.Workers)
	v.SetDefault("server.window", d.Server.Window)
	v.SetDefault("server.max-body-bytes", d.Server.MaxBodyBytes)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("watch.skip-hidden", d.Watch.SkipHidden)
	return v
}

// AddParserFlags registers the parser flags, typically as persistent flags
// of the root command.
func AddParserFlags(flags *pflag.FlagSet) {
	d := Default().Parser
	flags.Int("max-tokens", d.MaxTokens, "maximum number of significant tokens a single parse may consume")
	flags.Bool("capture-ignored-chars", d.CaptureIgnoredChars, "record whitespace and commas around nodes")
	flags.Bool("capture-source-location", d.CaptureSourceLocation, "record the source location of nodes")
	flags.Bool("capture-line-comments", d.CaptureLineComments, "attach # comments to the nodes that follow them")
}

func AddServerFlags(flags *pflag.FlagSet) {
	d := Default().Server
	flags.StringP("addr", "a", d.Addr, "address to listen on")
	flags.Int("workers", d.Workers, "number of documents parsed concurrently")
	flags.Int("window", d.Window, "documents of a batch parsed ahead of the response (0 means workers)")
	flags.Int64("max-body-bytes", d.MaxBodyBytes, "largest accepted request body")
}

func AddWatchFlags(flags *pflag.FlagSet) {
	flags.Duration("debounce", Default().Watch.Debounce, "quiet period before a changed file is parsed again")
}

// BindFlags binds every known flag present in flags to its configuration
// key.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the configuration. An explicit file must exist; a missing
// gqlfront.yaml in the search paths leaves the defaults in place.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Verify() error {
	if c.Server.Workers < 0 {
		return fmt.Errorf("server.workers must not be negative, got %d", c.Server.Workers)
	}
	if c.Server.Window < 0 {
		return fmt.Errorf("server.window must not be negative, got %d", c.Server.Window)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		MaxTokens:             c.Parser.MaxTokens,
		CaptureIgnoredChars:   c.Parser.CaptureIgnoredChars,
		CaptureSourceLocation: c.Parser.CaptureSourceLocation,
		CaptureLineComments:   c.Parser.CaptureLineComments,
	}
}

// Apply makes the parser section the process-wide parser defaults.
func (c *Config) Apply() {
	parser.SetDefaultOptions(c.ParserOptions())
}

func (c *Config) ServerConfig() server.Config {
	return server.Config{
		Addr:         c.Server.Addr,
		Workers:      c.Server.Workers,
		Window:       c.Server.Window,
		MaxBodyBytes: c.Server.MaxBodyBytes,
		Options:      []parser.Option{parser.WithOptions(c.ParserOptions())},
	}
}

func (c *Config) WatcherConfig() workspace.WatcherConfig {
	return workspace.WatcherConfig{
		Debounce:   c.Watch.Debounce,
		SkipHidden: c.Watch.SkipHidden,
	}
}
