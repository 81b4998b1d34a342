package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz      int     `yaml:"tick_rate_hz"`
	ClickCooldownMs int     `yaml:"click_cooldown_ms"`
	DepthPerDig     float64 `yaml:"depth_per_dig"`

	BaseDirtChance  float64 `yaml:"base_dirt_chance"`
	BaseStoneChance float64 `yaml:"base_stone_chance"`
	BaseGemChance   float64 `yaml:"base_gem_chance"`

	StartingDirt  float64 `yaml:"starting_dirt"`
	StartingStone float64 `yaml:"starting_stone"`
	StartingGems  float64 `yaml:"starting_gems"`

	AutosaveIntervalS  int `yaml:"autosave_interval_s"`
	StateEveryTicks    int `yaml:"state_every_ticks"`
	DiscoveryCooldownS int `yaml:"discovery_cooldown_s"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion:    "1.0",
		TickRateHz:         10,
		ClickCooldownMs:    200,
		DepthPerDig:        0.1,
		BaseDirtChance:     0.8,
		BaseStoneChance:    0.15,
		BaseGemChance:      0.05,
		AutosaveIntervalS:  30,
		StateEveryTicks:    10,
		DiscoveryCooldownS: 30,
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
