// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Environment variables read by FromEnv.
const (
	EnvMode            = "EDGE_LINKS_MODE"
	EnvFormat          = "EDGE_LINKS_FORMAT"
	EnvExcludeSchemes  = "EDGE_LINKS_EXCLUDE_SCHEMES"
	EnvExcludeInternal = "EDGE_LINKS_EXCLUDE_INTERNAL"
	EnvSort            = "EDGE_LINKS_SORT"
	EnvWorkers         = "EDGE_LINKS_WORKERS"
	EnvLogLevel        = "EDGE_LINKS_LOG_LEVEL"
	EnvLogFile         = "EDGE_LINKS_LOG_FILE"
	EnvDatabaseURL     = "DATABASE_URL"
)

// Config represents the CLI configuration. It can be loaded from a YAML or
// JSON (comments allowed) file and from the environment. All fields are
// optional; pointer booleans distinguish unset from false.
type Config struct {
	// Paths
	Input   string `json:"input,omitempty" yaml:"input,omitempty"`     // .edge file or directory
	Output  string `json:"output,omitempty" yaml:"output,omitempty"`   // Report path
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"` // File name glob for directory inputs

	// Output
	Format string `json:"format,omitempty" yaml:"format,omitempty" validate:"omitempty,oneof=xlsx csv tsv json html"`
	Mode   string `json:"mode,omitempty" yaml:"mode,omitempty" validate:"omitempty,oneof=tabs favorites both"`

	// Filtering
	ExcludeInternal *bool    `json:"exclude_internal,omitempty" yaml:"exclude_internal,omitempty"`
	ExcludeSchemes  []string `json:"exclude_schemes,omitempty" yaml:"exclude_schemes,omitempty" validate:"dive,required"`
	Sort            *bool    `json:"sort,omitempty" yaml:"sort,omitempty"`
	Recursive       *bool    `json:"recursive,omitempty" yaml:"recursive,omitempty"`

	// Limits
	Workers      int `json:"workers,omitempty" yaml:"workers,omitempty" validate:"gte=0,lte=256"`
	MaxPayloadMB int `json:"max_payload_mb,omitempty" yaml:"max_payload_mb,omitempty" validate:"gte=0,lte=4096"`

	// Behavior
	LogLevel    string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFile     string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
}

// ValidationError reports invalid configuration values.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	return "config error: " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Input:           ".",
		Pattern:         "*.edge",
		Format:          "xlsx",
		Mode:            "both",
		ExcludeInternal: Bool(false),
		Sort:            Bool(false),
		Recursive:       Bool(false),
		Workers:         runtime.NumCPU(),
		LogLevel:        "info",
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// BoolValue returns *p, or false when p is nil.
func BoolValue(p *bool) bool {
	return p != nil && *p
}

// LoadConfig loads configuration from a file. Files ending in .yaml or .yml
// are YAML; anything else is JSON, where comments and trailing commas are
// allowed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// FromEnv reads the EDGE_LINKS_* variables and DATABASE_URL. Unset
// variables leave their fields empty.
func FromEnv() (Config, error) {
	cfg := Config{
		Mode:        os.Getenv(EnvMode),
		Format:      os.Getenv(EnvFormat),
		LogLevel:    os.Getenv(EnvLogLevel),
		LogFile:     os.Getenv(EnvLogFile),
		DatabaseURL: os.Getenv(EnvDatabaseURL),
	}

	if v := os.Getenv(EnvExcludeSchemes); v != "" {
		cfg.ExcludeSchemes = SplitList(v)
	}

	for name, dst := range map[string]**bool{
		EnvExcludeInternal: &cfg.ExcludeInternal,
		EnvSort:            &cfg.Sort,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, &ValidationError{Message: fmt.Sprintf("%s must be a boolean, got %q", name, v), Cause: err}
		}
		*dst = Bool(b)
	}

	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, &ValidationError{Message: fmt.Sprintf("%s must be an integer, got %q", EnvWorkers, v), Cause: err}
		}
		cfg.Workers = n
	}

	return cfg, nil
}

// SplitList splits a comma or whitespace separated list, dropping empty items.
func SplitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
// Required fields are not checked here since defaults fill them after merging.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Message: err.Error(), Cause: err}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return &ValidationError{Message: strings.Join(msgs, "; "), Cause: err}
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value()))
	case "gte":
		return fmt.Sprintf("'%s' must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("'%s' must be at most %s", field, fe.Param())
	case "required":
		return fmt.Sprintf("'%s' must not be empty", field)
	default:
		return fmt.Sprintf("'%s' failed %s validation", field, fe.Tag())
	}
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// This is used to layer config file values over environment values and
// built-in defaults before CLI flags are applied.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	for _, f := range []struct {
		dst *string
		def string
	}{
		{&result.Input, defaults.Input},
		{&result.Output, defaults.Output},
		{&result.Pattern, defaults.Pattern},
		{&result.Format, defaults.Format},
		{&result.Mode, defaults.Mode},
		{&result.LogLevel, defaults.LogLevel},
		{&result.LogFile, defaults.LogFile},
		{&result.DatabaseURL, defaults.DatabaseURL},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}

	if len(result.ExcludeSchemes) == 0 {
		result.ExcludeSchemes = defaults.ExcludeSchemes
	}

	if result.ExcludeInternal == nil {
		result.ExcludeInternal = defaults.ExcludeInternal
	}
	if result.Sort == nil {
		result.Sort = defaults.Sort
	}
	if result.Recursive == nil {
		result.Recursive = defaults.Recursive
	}

	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.MaxPayloadMB == 0 {
		result.MaxPayloadMB = defaults.MaxPayloadMB
	}

	return result
}
