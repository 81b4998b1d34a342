package game

import "time"

type Config struct {
	Slot string
	Seed int64

	TickRateHz    int
	ClickCooldown time.Duration
	DepthPerDig   float64

	BaseDirtChance  float64
	BaseStoneChance float64
	BaseGemChance   float64

	StartingDirt  float64
	StartingStone float64
	StartingGems  float64

	AutosaveInterval  time.Duration
	StateEveryTicks   int
	DiscoveryCooldown time.Duration
}

func (c *Config) applyDefaults() {
	if c.Slot == "" {
		c.Slot = "default"
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 10
	}
	if c.ClickCooldown <= 0 {
		c.ClickCooldown = 200 * time.Millisecond
	}
	if c.DepthPerDig <= 0 {
		c.DepthPerDig = 0.1
	}
	if c.BaseDirtChance <= 0 {
		c.BaseDirtChance = 0.8
	}
	if c.BaseStoneChance <= 0 {
		c.BaseStoneChance = 0.15
	}
	if c.BaseGemChance <= 0 {
		c.BaseGemChance = 0.05
	}
	if c.AutosaveInterval <= 0 {
		c.AutosaveInterval = 30 * time.Second
	}
	if c.StateEveryTicks <= 0 {
		c.StateEveryTicks = 10
	}
	if c.DiscoveryCooldown <= 0 {
		c.DiscoveryCooldown = 30 * time.Second
	}
}
