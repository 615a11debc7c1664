package leveling

import "testing"

func TestCalculatorMaxXP(t *testing.T) {
	c := NewCalculator(NewDefaultConfig())
	tests := []struct {
		level int
		want  int64
	}{
		{1, 100},
		{2, 282},
		{3, 519},
		{5, 1118},
		{10, 3162},
	}
	for _, tt := range tests {
		if got := c.MaxXP(tt.level); got != tt.want {
			t.Errorf("MaxXP(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestCalculatorCreationCost(t *testing.T) {
	c := NewCalculator(NewDefaultConfig())
	tests := []struct {
		existing int
		want     int64
	}{
		{0, 0},
		{1, 100},
		{2, 158},
		{3, 200},
		{7, 300},
	}
	for _, tt := range tests {
		if got := c.CreationCost(tt.existing); got != tt.want {
			t.Errorf("CreationCost(%d) = %d, want %d", tt.existing, got, tt.want)
		}
	}
}

func TestCalculatorActionCoins(t *testing.T) {
	c := NewCalculator(NewDefaultConfig())
	tests := []struct {
		name        string
		action      string
		state       string
		wantCoins   int64
		wantMatched bool
	}{
		{"matched feed", "feed", "hungry", 10, true},
		{"unmatched feed", "feed", "content", 5, false},
		{"matched lullaby", "lullaby", "sleepy", 10, true},
		{"mismatched pair", "play", "sad", 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coins, matched := c.ActionCoins(tt.action, tt.state)
			if coins != tt.wantCoins || matched != tt.wantMatched {
				t.Errorf("ActionCoins(%s, %s) = (%d, %v), want (%d, %v)",
					tt.action, tt.state, coins, matched, tt.wantCoins, tt.wantMatched)
			}
		})
	}
}

func TestCalculatorApplyXP(t *testing.T) {
	c := NewCalculator(NewDefaultConfig())
	tests := []struct {
		name        string
		level       int
		xp          int64
		gain        int64
		wantLevel   int
		wantXP      int64
		wantLeveled bool
	}{
		{"no level up", 1, 0, 25, 1, 25, false},
		{"exact threshold", 1, 75, 25, 2, 0, true},
		{"carry forward", 1, 90, 25, 2, 15, true},
		{"multi level", 1, 0, 450, 3, 68, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, xp, maxXP, leveled := c.ApplyXP(tt.level, tt.xp, tt.gain)
			if level != tt.wantLevel || xp != tt.wantXP || leveled != tt.wantLeveled {
				t.Errorf("ApplyXP(%d, %d, %d) = (%d, %d, %v), want (%d, %d, %v)",
					tt.level, tt.xp, tt.gain, level, xp, leveled, tt.wantLevel, tt.wantXP, tt.wantLeveled)
			}
			if maxXP != c.MaxXP(level) {
				t.Errorf("ApplyXP max XP = %d, want %d", maxXP, c.MaxXP(level))
			}
		})
	}
}
