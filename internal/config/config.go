package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/hookmine/hookmine/pkg/pattern"
	"github.com/hookmine/hookmine/pkg/scheme"
	"github.com/hookmine/hookmine/pkg/types"
)

// Scheme names accepted on the command line.
const (
	SchemeCreate2 = "create2"
	SchemeCreate3 = "create3"
)

// Errors
var (
	ErrNoInitCodeHash = errors.New("create2 requires an init code hash")
	ErrNoPattern      = errors.New("must specify flags, --prefix, or both")
	ErrUnknownScheme  = errors.New("unknown deployment scheme")
)

// Config holds the application configuration. String fields carry raw CLI
// input; typed accessors parse them after Validate has run.
type Config struct {
	Scheme       string
	Deployer     string
	Factory      string
	InitCodeHash string
	Flags        string
	Prefix       string
	Workers      int
	Verbose      bool
	LogFile      string
	LogInterval  int // Logging interval in seconds
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Workers:     runtime.NumCPU(),
		LogInterval: 5,
	}
}

// Validate checks all raw inputs. Every malformed-input error surfaces
// here, before the mining core is built.
func (c *Config) Validate() error {
	if c.Scheme != SchemeCreate2 && c.Scheme != SchemeCreate3 {
		return fmt.Errorf("%w: %q", ErrUnknownScheme, c.Scheme)
	}
	if _, err := types.ParseAddress(c.Deployer); err != nil {
		return fmt.Errorf("deployer: %w", err)
	}
	if c.Factory != "" {
		if _, err := types.ParseAddress(c.Factory); err != nil {
			return fmt.Errorf("factory: %w", err)
		}
	}
	if c.Scheme == SchemeCreate2 {
		if c.InitCodeHash == "" {
			return ErrNoInitCodeHash
		}
		if _, err := types.ParseHash(c.InitCodeHash); err != nil {
			return fmt.Errorf("init code hash: %w", err)
		}
	}
	if c.Flags == "" && c.Prefix == "" {
		return ErrNoPattern
	}
	if _, err := c.Pattern(); err != nil {
		return err
	}
	return nil
}

// DeployerAddress returns the parsed deployer address.
func (c *Config) DeployerAddress() (types.Address, error) {
	return types.ParseAddress(c.Deployer)
}

// FactoryAddress returns the parsed factory address, falling back to the
// scheme's well-known default when none was given.
func (c *Config) FactoryAddress() (types.Address, error) {
	if c.Factory == "" {
		if c.Scheme == SchemeCreate3 {
			return scheme.Create3DefaultFactory, nil
		}
		return scheme.Create2DefaultFactory, nil
	}
	return types.ParseAddress(c.Factory)
}

// Pattern compiles the target pattern. The core takes bare hex digits; a
// leading 0x on either string is stripped here.
func (c *Config) Pattern() (pattern.Pattern, error) {
	return pattern.Compile(stripHexPrefix(c.Flags), stripHexPrefix(c.Prefix))
}

func stripHexPrefix(s string) string {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return s[2:]
	}
	return s
}

// BuildScheme constructs the deployment scheme selected by the config.
func (c *Config) BuildScheme() (scheme.Scheme, error) {
	factory, err := c.FactoryAddress()
	if err != nil {
		return nil, err
	}
	switch c.Scheme {
	case SchemeCreate2:
		hash, err := types.ParseHash(c.InitCodeHash)
		if err != nil {
			return nil, err
		}
		return scheme.NewCreate2(factory, hash), nil
	case SchemeCreate3:
		return scheme.NewCreate3(factory), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, c.Scheme)
	}
}

// TargetDescription returns a human-readable description of the target
func (c *Config) TargetDescription() string {
	switch {
	case c.Flags != "" && c.Prefix != "":
		return "flags " + c.Flags + ", prefix " + c.Prefix
	case c.Flags != "":
		return "flags " + c.Flags
	case c.Prefix != "":
		return "prefix " + c.Prefix
	}
	return "unknown"
}
