package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "AMO_"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Duration is a time.Duration spelled "10s" in YAML and TOML files.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)

	return nil
}

// MarshalText writes the Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalYAML accepts the same duration strings as UnmarshalText.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Server configures the HTTP API.
type Server struct {
	Addr         string   `yaml:"addr" toml:"addr" validate:"required"`
	ReadTimeout  Duration `yaml:"read_timeout" toml:"read_timeout" validate:"gte=0"`
	WriteTimeout Duration `yaml:"write_timeout" toml:"write_timeout" validate:"gte=0"`
}

// Simulation configures batch trials. Workers 0 means one per CPU.
type Simulation struct {
	Trials    int    `yaml:"trials" toml:"trials" validate:"min=1"`
	Size      int    `yaml:"size" toml:"size" validate:"min=1"`
	MaxWeight int64  `yaml:"max_weight" toml:"max_weight" validate:"min=1"`
	Workers   int    `yaml:"workers" toml:"workers" validate:"min=0"`
	Seed      uint64 `yaml:"seed" toml:"seed"`
	Source    int    `yaml:"source" toml:"source" validate:"min=0,ltfield=Size"`
	Target    int    `yaml:"target" toml:"target" validate:"min=0,ltfield=Size"`
}

// Logging selects the slog level and handler.
type Logging struct {
	Level  string `yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" toml:"format" validate:"oneof=text json"`
}

// Merge configures network merging.
type Merge struct {
	AllowAutoPad bool `yaml:"allow_autopad" toml:"allow_autopad"`
}

// Config is the whole configuration.
type Config struct {
	Server     Server     `yaml:"server" toml:"server"`
	Simulation Simulation `yaml:"simulation" toml:"simulation"`
	Logging    Logging    `yaml:"logging" toml:"logging"`
	Merge      Merge      `yaml:"merge" toml:"merge"`
}

// Default returns the reference workload: 10000 trials over 100-party
// networks with amounts in [0, 100), routed from party 0 to party 12.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration(10 * time.Second),
			WriteTimeout: Duration(30 * time.Second),
		},
		Simulation: Simulation{
			Trials:    10000,
			Size:      100,
			MaxWeight: 100,
			Workers:   0,
			Seed:      1,
			Source:    0,
			Target:    12,
		},
		Logging: Logging{Level: "info", Format: "text"},
		Merge:   Merge{AllowAutoPad: true},
	}
}

// Load builds a Config in layers:
//  1. Default();
//  2. the file at path, if path is not empty (.yaml/.yml or .toml);
//  3. envFiles loaded with godotenv (".env" when none are given; a missing
//     default file is ignored), never overriding variables already set;
//  4. AMO_* environment overrides;
//  5. Validate.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("config: env files: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// readFile decodes path over cfg, picking the format by extension.
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: failed to read config file '%s': %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("config: failed to parse YAML: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("config: failed to parse TOML: %w", err)
		}
	default:
		return fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}

	return nil
}

// applyEnv overlays AMO_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	int64v := func(key string, dst *int64) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	uint64v := func(key string, dst *uint64) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *Duration) {
		if v, ok := lookup(EnvPrefix + key); ok {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			}
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}

	str("SERVER_ADDR", &c.Server.Addr)
	duration("SERVER_READ_TIMEOUT", &c.Server.ReadTimeout)
	duration("SERVER_WRITE_TIMEOUT", &c.Server.WriteTimeout)
	integer("SIM_TRIALS", &c.Simulation.Trials)
	integer("SIM_SIZE", &c.Simulation.Size)
	int64v("SIM_MAX_WEIGHT", &c.Simulation.MaxWeight)
	integer("SIM_WORKERS", &c.Simulation.Workers)
	uint64v("SIM_SEED", &c.Simulation.Seed)
	integer("SIM_SOURCE", &c.Simulation.Source)
	integer("SIM_TARGET", &c.Simulation.Target)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
	boolean("MERGE_AUTOPAD", &c.Merge.AllowAutoPad)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}

	return nil
}

var validate = validator.New()

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (%s)", fe.Namespace(), fe.Tag(), fe.Param()))
			}

			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}

		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return nil
}
