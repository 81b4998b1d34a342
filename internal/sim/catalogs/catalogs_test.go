package catalogs

import (
	"os"
	"path/filepath"
	"testing"
)

func loadShipped(t *testing.T) *Catalogs {
	t.Helper()
	c, err := Load(filepath.Join("..", "..", "..", "configs"))
	if err != nil {
		t.Fatalf("load configs: %v", err)
	}
	return c
}

func TestLoadShippedConfigs(t *testing.T) {
	c := loadShipped(t)

	if len(c.Upgrades.IDs) != 7 {
		t.Fatalf("upgrades = %d, want 7", len(c.Upgrades.IDs))
	}
	if len(c.Hazards.IDs) != 3 {
		t.Fatalf("hazards = %d, want 3", len(c.Hazards.IDs))
	}
	if len(c.Achievements.IDs) != 18 {
		t.Fatalf("achievements = %d, want 18", len(c.Achievements.IDs))
	}
	if len(c.Layers.Ordered) != 6 {
		t.Fatalf("layers = %d, want 6", len(c.Layers.Ordered))
	}
	if len(c.Discoveries.IDs) != 4 {
		t.Fatalf("discoveries = %d, want 4", len(c.Discoveries.IDs))
	}

	for name, digest := range map[string]string{
		"upgrades":     c.Upgrades.Digest,
		"hazards":      c.Hazards.Digest,
		"achievements": c.Achievements.Digest,
		"layers":       c.Layers.Digest,
		"discoveries":  c.Discoveries.Digest,
	} {
		if len(digest) != 64 {
			t.Fatalf("%s digest = %q, want sha256 hex", name, digest)
		}
	}
}

func TestCostAtScales(t *testing.T) {
	c := loadShipped(t)

	// shovel: base 10 dirt, scaling 1.5.
	cost := c.Upgrades.CostAt("shovel", 0)
	if cost["dirt"] != 10 {
		t.Fatalf("level 0 cost = %v", cost)
	}
	cost = c.Upgrades.CostAt("shovel", 1)
	if cost["dirt"] != 15 {
		t.Fatalf("level 1 cost = %v", cost)
	}
	cost = c.Upgrades.CostAt("shovel", 2)
	if cost["dirt"] != 22 { // floor(10 * 2.25)
		t.Fatalf("level 2 cost = %v", cost)
	}
	if c.Upgrades.CostAt("warpDrive", 0) != nil {
		t.Fatalf("unknown upgrade should cost nil")
	}
}

func TestLayerAtDepth(t *testing.T) {
	c := loadShipped(t)

	if got := c.Layers.AtDepth(0).ID; got != "surface" {
		t.Fatalf("layer at 0 = %s", got)
	}
	if got := c.Layers.AtDepth(9.999).ID; got != "surface" {
		t.Fatalf("layer at 9.999 = %s", got)
	}
	if got := c.Layers.AtDepth(10).ID; got != "topsoil" {
		t.Fatalf("layer at 10 = %s", got)
	}
	// Out-of-band depths fall back to the shallowest layer.
	if got := c.Layers.AtDepth(1e9).ID; got != "surface" {
		t.Fatalf("layer past the bottom = %s", got)
	}
}

func TestLayerResourceMultiplier(t *testing.T) {
	c := loadShipped(t)
	l := c.Layers.ByID["surface"]
	if l.ResourceMultiplier("dirt") != l.DirtMultiplier {
		t.Fatalf("dirt multiplier mismatch")
	}
	if l.ResourceMultiplier("unobtainium") != 1 {
		t.Fatalf("unknown kind should default to 1")
	}
}

func TestLoadRejectsBadDefs(t *testing.T) {
	write := func(t *testing.T, dir, name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	base := func(t *testing.T) string {
		t.Helper()
		dir := t.TempDir()
		write(t, dir, "upgrades.json", `[{"id":"shovel","max_level":1,"cost_scaling":1.5,"base_cost":{"dirt":10},"effect":{"kind":"multiplier","target":"clickPower","per_level":1}}]`)
		write(t, dir, "hazards.json", `[{"id":"caveIn","min_depth":30,"base_chance":0.001,"warning_s":5,"duration_s":20}]`)
		write(t, dir, "achievements.json", `[{"id":"firstDig","criteria":{"clicks":1}}]`)
		write(t, dir, "layers.json", `[{"id":"surface","depth_start":0,"depth_end":10,"dirt_multiplier":1,"stone_multiplier":1,"gem_multiplier":1}]`)
		return dir
	}

	t.Run("valid baseline", func(t *testing.T) {
		if _, err := Load(base(t)); err != nil {
			t.Fatalf("baseline should load: %v", err)
		}
	})

	t.Run("zero max_level", func(t *testing.T) {
		dir := base(t)
		write(t, dir, "upgrades.json", `[{"id":"shovel","max_level":0,"cost_scaling":1.5}]`)
		if _, err := Load(dir); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("inverted layer band", func(t *testing.T) {
		dir := base(t)
		write(t, dir, "layers.json", `[{"id":"surface","depth_start":10,"depth_end":10}]`)
		if _, err := Load(dir); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("empty criteria", func(t *testing.T) {
		dir := base(t)
		write(t, dir, "achievements.json", `[{"id":"firstDig","criteria":{}}]`)
		if _, err := Load(dir); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("missing discoveries is fine", func(t *testing.T) {
		c, err := Load(base(t))
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(c.Discoveries.IDs) != 0 {
			t.Fatalf("discoveries = %d, want 0", len(c.Discoveries.IDs))
		}
	})
}
