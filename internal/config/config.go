// Package config loads the controller configuration from YAML, fills
// defaults, and validates the effective result against an embedded JSON
// Schema.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/dsetzer/codingame-fall-2024/network"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

//go:embed schema.json
var schemaJSON string

// Budget modes for Engine.BudgetMode.
const (
	BudgetIndependent = "independent"
	BudgetShared      = "shared"
)

type Config struct {
	Rules    Rules    `yaml:"rules" json:"rules"`
	Engine   Engine   `yaml:"engine" json:"engine"`
	Limits   Limits   `yaml:"limits" json:"limits"`
	Log      Log      `yaml:"log" json:"log"`
	Metrics  Metrics  `yaml:"metrics" json:"metrics"`
	Tracing  Tracing  `yaml:"tracing" json:"tracing"`
	Journal  Journal  `yaml:"journal" json:"journal"`
	Observer Observer `yaml:"observer" json:"observer"`
}

type Rules struct {
	TubeCostPerUnit    float64 `yaml:"tube_cost_per_unit" json:"tube_cost_per_unit"`
	TeleportCost       int     `yaml:"teleport_cost" json:"teleport_cost"`
	PodCost            int     `yaml:"pod_cost" json:"pod_cost"`
	PodRefund          int     `yaml:"pod_refund" json:"pod_refund"`
	PodCapacity        int     `yaml:"pod_capacity" json:"pod_capacity"`
	MaxLinksPerStation int     `yaml:"max_links_per_station" json:"max_links_per_station"`
	MaxLinkCapacity    int     `yaml:"max_link_capacity" json:"max_link_capacity"`
}

type Engine struct {
	BudgetMode string `yaml:"budget_mode" json:"budget_mode"`
}

// Limits bound the work done per turn. Zero disables a bound.
type Limits struct {
	MaxLinkCandidates int           `yaml:"max_link_candidates" json:"max_link_candidates"`
	MaxLinkPairs      int           `yaml:"max_link_pairs" json:"max_link_pairs"`
	TwoOptMaxPasses   int           `yaml:"two_opt_max_passes" json:"two_opt_max_passes"`
	TwoOptTimeLimit   time.Duration `yaml:"two_opt_time_limit" json:"two_opt_time_limit"`
	TurnTimeLimit     time.Duration `yaml:"turn_time_limit" json:"turn_time_limit"`
}

type Log struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type Metrics struct {
	Addr string `yaml:"addr" json:"addr"`
}

type Tracing struct {
	Enabled     bool    `yaml:"enabled" json:"enabled"`
	ServiceName string  `yaml:"service_name" json:"service_name"`
	Exporter    string  `yaml:"exporter" json:"exporter"`
	Endpoint    string  `yaml:"endpoint" json:"endpoint"`
	SampleRatio float64 `yaml:"sample_ratio" json:"sample_ratio"`
}

// Journal enables the turn journal when Dir is set; Index names an optional
// SQLite file indexing the journaled turns.
type Journal struct {
	Dir   string `yaml:"dir" json:"dir"`
	Index string `yaml:"index" json:"index"`
}

type Observer struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Default returns the standard economy with independent budgets, a 2-opt
// pass cap, and everything optional switched off.
func Default() Config {
	r := network.DefaultRules()
	return Config{
		Rules: Rules{
			TubeCostPerUnit:    r.TubeCostPerUnit,
			TeleportCost:       r.TeleportCost,
			PodCost:            r.PodCost,
			PodRefund:          r.PodRefund,
			PodCapacity:        r.PodCapacity,
			MaxLinksPerStation: r.MaxLinksPerStation,
			MaxLinkCapacity:    r.MaxLinkCapacity,
		},
		Engine: Engine{BudgetMode: BudgetIndependent},
		Limits: Limits{
			TwoOptMaxPasses: 50,
			TurnTimeLimit:   450 * time.Millisecond,
		},
		Log: Log{Level: "info", Format: "text"},
		Tracing: Tracing{
			ServiceName: "transitbot",
			Exporter:    "stdout",
			SampleRatio: 1,
		},
	}
}

// Load reads path over Default and validates the result. An empty path
// returns the validated defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads YAML from r over Default and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: yaml: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the effective configuration against the embedded schema
// and the economy constraints of network.Rules.
func (c Config) Validate() error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("config: decode: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := c.NetworkRules().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	s, err := jsonschema.CompileString("config.schema.json", schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("config: schema: %w", err)
	}
	return s, nil
}

// NetworkRules converts the rules section.
func (c Config) NetworkRules() network.Rules {
	return network.Rules{
		TubeCostPerUnit:    c.Rules.TubeCostPerUnit,
		TeleportCost:       c.Rules.TeleportCost,
		PodCost:            c.Rules.PodCost,
		PodRefund:          c.Rules.PodRefund,
		PodCapacity:        c.Rules.PodCapacity,
		MaxLinksPerStation: c.Rules.MaxLinksPerStation,
		MaxLinkCapacity:    c.Rules.MaxLinkCapacity,
	}
}
