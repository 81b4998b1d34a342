package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.TickRateHz != 10 {
		t.Fatalf("tick rate: %d", d.TickRateHz)
	}
	if d.BaseDirtChance != 0.8 || d.BaseStoneChance != 0.15 || d.BaseGemChance != 0.05 {
		t.Fatalf("base chances: %v %v %v", d.BaseDirtChance, d.BaseStoneChance, d.BaseGemChance)
	}
	if d.AutosaveIntervalS != 30 {
		t.Fatalf("autosave: %d", d.AutosaveIntervalS)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tuning.yaml")
	body := "tick_rate_hz: 20\nclick_cooldown_ms: 100\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	tn, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tn.TickRateHz != 20 || tn.ClickCooldownMs != 100 {
		t.Fatalf("overrides not applied: %+v", tn)
	}
	// Unmentioned keys keep defaults.
	if tn.DepthPerDig != 0.1 {
		t.Fatalf("depth_per_dig default lost: %v", tn.DepthPerDig)
	}
}
