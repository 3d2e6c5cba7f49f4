package confloader

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// keyDelim separates nested keys inside the snapshot. Variable names may
// contain "." so the delimiter must be a byte no name can hold.
const keyDelim = "\x00"

// Loader builds an Env snapshot from multiple sources.
type Loader struct {
	k          *koanf.Koanf
	filePath   string
	dotenvPath string
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithConfigFile sets the YAML defaults file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithDotenvFile sets the dotenv file path.
func WithDotenvFile(path string) Option {
	return func(l *Loader) {
		l.dotenvPath = path
	}
}

// NewLoader creates a new snapshot loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k: koanf.NewWithConf(koanf.Conf{Delim: keyDelim}),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Snapshot loads every configured layer and returns the merged Env.
// Loading order (later sources override earlier):
//  1. YAML defaults file
//  2. Dotenv file
//  3. Process environment
func (l *Loader) Snapshot() (Env, error) {
	if err := l.LoadFile(l.filePath); err != nil {
		return Env{}, fmt.Errorf("load config file: %w", err)
	}

	if err := l.LoadDotenv(l.dotenvPath); err != nil {
		return Env{}, fmt.Errorf("load env file: %w", err)
	}

	if err := l.LoadEnv(); err != nil {
		return Env{}, fmt.Errorf("load env: %w", err)
	}

	return l.Env(), nil
}

// LoadFile loads a YAML defaults file. Top-level keys are upper-cased;
// nested keys are flattened with "_" before upper-casing, so
// `dev: {install_bin: pip3}` maps to DEV_INSTALL_BIN.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}

	fk := koanf.New(".")
	if err := fk.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}

	layer := make(mapProvider, len(fk.Keys()))
	for key, value := range fk.All() {
		layer[envKey(key)] = stringify(value)
	}

	return l.load(layer)
}

// LoadDotenv loads KEY=VALUE pairs from a dotenv file without touching
// the process environment.
func (l *Loader) LoadDotenv(path string) error {
	if path == "" {
		return nil
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return l.load(stringMap(vars))
}

// LoadEnv loads the process environment. Names are kept verbatim,
// including any "." they contain.
func (l *Loader) LoadEnv() error {
	if err := l.k.Load(env.Provider("", keyDelim, nil), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	return nil
}

func (l *Loader) load(p mapProvider) error {
	if err := l.k.Load(p, nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Env returns the currently loaded values as a snapshot.
func (l *Loader) Env() Env {
	all := l.k.All()
	vars := make(map[string]string, len(all))
	for key, value := range all {
		vars[key] = stringify(value)
	}
	return Env{vars: vars}
}

// envKey converts a flattened YAML key to environment spelling.
func envKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// stringify renders a parsed value the way it would appear in the
// environment.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(v)
	}
}
