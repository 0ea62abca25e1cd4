// Package gameconfig loads the starting state of a town: balances, idle
// behaviour weights, personality variance and the player record.
package gameconfig

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"slowtown.ai/internal/sim/world/logic/ledger"
	"slowtown.ai/internal/sim/world/logic/personality"
)

//go:embed game.schema.json
var schemaJSON []byte

const DefaultPlayerName = "Unnamed"

type Config struct {
	InitialResources    map[string]int      `json:"initial_resources"`
	IdleWeights         personality.Weights `json:"idle_weights"`
	PersonalityVariance float64             `json:"personality_variance"`
	Player              Player              `json:"player"`
	Starters            []Starter           `json:"starters"`

	// Resources is InitialResources after validation.
	Resources ledger.Amounts `json:"-"`
}

type Player struct {
	Level int    `json:"level"`
	Exp   int    `json:"exp"`
	Name  string `json:"name"`
}

// Starter is a completed structure present when a fresh world is created.
type Starter struct {
	Type string     `json:"type"`
	Pos  [3]float64 `json:"pos"`
}

func Defaults() Config {
	return Config{
		InitialResources:    map[string]int{},
		IdleWeights:         personality.Defaults(),
		PersonalityVariance: 0.2,
		Player:              Player{Level: 1, Name: DefaultPlayerName},
	}
}

func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Defaults(), err
	}
	cfg, err := Parse(raw)
	if err != nil {
		return cfg, fmt.Errorf("game.json: %w", err)
	}
	return cfg, nil
}

// Parse validates raw against the embedded schema and decodes it over Defaults().
func Parse(raw []byte) (Config, error) {
	cfg := Defaults()
	if err := validate(raw); err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	cfg.Normalize()
	res, err := ledger.FromMap(cfg.InitialResources)
	if err != nil {
		return cfg, err
	}
	cfg.Resources = res
	return cfg, nil
}

func (c *Config) Normalize() {
	c.Player.Name = strings.TrimSpace(c.Player.Name)
	if c.Player.Name == "" {
		c.Player.Name = DefaultPlayerName
	}
	if c.Player.Level < 1 {
		c.Player.Level = 1
	}
	if c.Player.Exp < 0 {
		c.Player.Exp = 0
	}
	if w, ok := c.IdleWeights.Normalize(); ok {
		c.IdleWeights = w
	} else {
		c.IdleWeights = personality.Defaults()
	}
	if c.PersonalityVariance < 0 {
		c.PersonalityVariance = 0
	}
}

func compileSchema() (*jsonschema.Schema, error) {
	comp := jsonschema.NewCompiler()
	if err := comp.AddResource("game.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return comp.Compile("game.schema.json")
}

func validate(raw []byte) error {
	s, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return s.Validate(v)
}
