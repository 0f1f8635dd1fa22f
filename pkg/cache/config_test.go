package cache

import (
	"encoding/json"
	"testing"

	kiterrors "github.com/c360/streamkit/errors"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid minimal",
			config: Config{Name: "cache"},
		},
		{
			name:   "valid bounded",
			config: Config{Name: "cache", Capacity: 100},
		},
		{
			name:   "valid with soft limit",
			config: Config{Name: "cache", SoftLimit: 1000},
		},
		{
			name:    "missing name",
			config:  Config{Capacity: 100},
			wantErr: true,
		},
		{
			name:    "negative soft limit",
			config:  Config{Name: "cache", SoftLimit: -1},
			wantErr: true,
		},
		{
			name:   "negative capacity means unbounded",
			config: Config{Name: "cache", Capacity: -5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !kiterrors.IsInvalid(err) {
					t.Errorf("validation errors should classify as invalid, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestConfigEffectiveCapacity(t *testing.T) {
	tests := []struct {
		name         string
		config       Config
		wantCapacity int
		wantSoft     bool
	}{
		{
			name:         "hard capacity",
			config:       Config{Capacity: 100},
			wantCapacity: 100,
			wantSoft:     false,
		},
		{
			name:         "hard capacity wins over soft limit",
			config:       Config{Capacity: 100, SoftLimit: 10},
			wantCapacity: 100,
			wantSoft:     false,
		},
		{
			name:         "unbounded uses soft limit",
			config:       Config{SoftLimit: 500},
			wantCapacity: 500,
			wantSoft:     true,
		},
		{
			name:         "unbounded default watermark",
			config:       Config{},
			wantCapacity: DefaultSoftLimit,
			wantSoft:     true,
		},
		{
			name:         "negative capacity falls back to watermark",
			config:       Config{Capacity: -1},
			wantCapacity: DefaultSoftLimit,
			wantSoft:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capacity, soft := tt.config.effectiveCapacity()
			if capacity != tt.wantCapacity {
				t.Errorf("expected capacity %d, got %d", tt.wantCapacity, capacity)
			}
			if soft != tt.wantSoft {
				t.Errorf("expected soft=%v, got %v", tt.wantSoft, soft)
			}
		})
	}
}

func TestConfigJSON(t *testing.T) {
	raw := `{"name":"lookup","capacity":256,"allow_nil_values":true}`

	var cfg Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	if cfg.Name != "lookup" || cfg.Capacity != 256 || !cfg.AllowNilValues {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestNewFromConfig(t *testing.T) {
	c, err := NewFromConfig[string, string](
		[]byte(`{"name":"from-json","capacity":10}`), upperProvider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name() != "from-json" {
		t.Errorf("expected name 'from-json', got %q", c.Name())
	}

	if _, err := NewFromConfig[string, string]([]byte(`{not json`), nil); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := NewFromConfig[string, string]([]byte(`{"capacity":10}`), nil); err == nil {
		t.Error("expected validation error for missing name")
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New[string, string](Config{}, nil)
	if err == nil {
		t.Fatal("expected error for missing name")
	}
	if !kiterrors.IsInvalid(err) {
		t.Errorf("expected invalid classification, got %v", err)
	}
}

func TestNew_NameAccessor(t *testing.T) {
	c := newTestCache(t, Config{Name: "vocab-terms"}, nil)
	if c.Name() != "vocab-terms" {
		t.Errorf("expected name 'vocab-terms', got %q", c.Name())
	}
	if err := c.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}
