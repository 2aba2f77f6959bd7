package config

import (
	"testing"

	"github.com/hookmine/hookmine/pkg/scheme"
)

const (
	testDeployer = "0x9fC3dc011b461664c835F2527fffb1169b3C213e"
	testHash     = "0x21c35dbe1b344a2488cf3321d6ce542f8e9f305544ff09e4993a62319a497c1f"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid create2",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid create3 without hash",
			mutate: func(c *Config) { c.Scheme = SchemeCreate3; c.InitCodeHash = "" },
		},
		{
			name:    "unknown scheme",
			mutate:  func(c *Config) { c.Scheme = "create4" },
			wantErr: true,
		},
		{
			name:    "malformed deployer",
			mutate:  func(c *Config) { c.Deployer = "0x1234" },
			wantErr: true,
		},
		{
			name:    "malformed factory",
			mutate:  func(c *Config) { c.Factory = "zz" },
			wantErr: true,
		},
		{
			name:    "create2 missing hash",
			mutate:  func(c *Config) { c.InitCodeHash = "" },
			wantErr: true,
		},
		{
			name:    "create2 malformed hash",
			mutate:  func(c *Config) { c.InitCodeHash = "0xabc" },
			wantErr: true,
		},
		{
			name:    "no pattern at all",
			mutate:  func(c *Config) { c.Flags = ""; c.Prefix = "" },
			wantErr: true,
		},
		{
			name:    "non-hex prefix",
			mutate:  func(c *Config) { c.Prefix = "0xgg" },
			wantErr: true,
		},
		{
			name:    "prefix wider than an address",
			mutate:  func(c *Config) { c.Prefix = "00000000000000000000000000000000000000000" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Scheme = SchemeCreate2
			cfg.Deployer = testDeployer
			cfg.InitCodeHash = testHash
			cfg.Flags = "2aaa"
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFactoryAddressDefaults(t *testing.T) {
	cfg := NewConfig()
	cfg.Deployer = testDeployer

	cfg.Scheme = SchemeCreate2
	addr, err := cfg.FactoryAddress()
	if err != nil {
		t.Fatal(err)
	}
	if addr != scheme.Create2DefaultFactory {
		t.Errorf("create2 default factory = %s, want %s", addr.Hex(), scheme.Create2DefaultFactory.Hex())
	}

	cfg.Scheme = SchemeCreate3
	addr, err = cfg.FactoryAddress()
	if err != nil {
		t.Fatal(err)
	}
	if addr != scheme.Create3DefaultFactory {
		t.Errorf("create3 default factory = %s, want %s", addr.Hex(), scheme.Create3DefaultFactory.Hex())
	}

	cfg.Factory = testDeployer
	addr, err = cfg.FactoryAddress()
	if err != nil {
		t.Fatal(err)
	}
	if addr.Hex() != "0x9fc3dc011b461664c835f2527fffb1169b3c213e" {
		t.Errorf("explicit factory not honored, got %s", addr.Hex())
	}
}

func TestBuildScheme(t *testing.T) {
	cfg := NewConfig()
	cfg.Deployer = testDeployer
	cfg.Flags = "2aaa"

	cfg.Scheme = SchemeCreate2
	cfg.InitCodeHash = testHash
	s, err := cfg.BuildScheme()
	if err != nil {
		t.Fatal(err)
	}
	if s.Name() != SchemeCreate2 || s.Layout().Size != 32 {
		t.Errorf("BuildScheme gave %s with %d-byte salt, want create2 with 32", s.Name(), s.Layout().Size)
	}

	cfg.Scheme = SchemeCreate3
	s, err = cfg.BuildScheme()
	if err != nil {
		t.Fatal(err)
	}
	if s.Name() != SchemeCreate3 || s.Layout().Size != 52 {
		t.Errorf("BuildScheme gave %s with %d-byte salt, want create3 with 52", s.Name(), s.Layout().Size)
	}
}

func TestTargetDescription(t *testing.T) {
	cfg := NewConfig()
	cfg.Flags = "2aaa"
	if got := cfg.TargetDescription(); got != "flags 2aaa" {
		t.Errorf("TargetDescription = %q", got)
	}
	cfg.Prefix = "c0ffee"
	if got := cfg.TargetDescription(); got != "flags 2aaa, prefix c0ffee" {
		t.Errorf("TargetDescription = %q", got)
	}
}
