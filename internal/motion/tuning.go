// internal/motion/tuning.go
//
// Scene geometry and the level → speed tier table.

package motion

// Scene geometry, in display units (CSS pixels on the web surface).
const (
	ButtonArea   = 120.0 // right-hand strip reserved for player buttons
	BottomMargin = 50.0  // word counts as gone once its top passes height-BottomMargin
	SpawnMinX    = 20.0  // new words never start closer than this to the left edge
)

// Tier is the (vy, vx) speed pair for a range of levels.
// MaxLevel 0 means "and above".
type Tier struct {
	MinLevel int
	MaxLevel int
	VY       float64
	VX       float64
}

// Tiers is an ordered difficulty table.
type Tiers []Tier

// DefaultTiers: 1–3 slow, 4–6 medium, 7+ fast. Units per display refresh.
var DefaultTiers = Tiers{
	{MinLevel: 1, MaxLevel: 3, VY: 1.5, VX: 0.75},
	{MinLevel: 4, MaxLevel: 6, VY: 2.25, VX: 1.1},
	{MinLevel: 7, MaxLevel: 0, VY: 3.0, VX: 1.5},
}

// Contains reports whether level falls inside the tier.
func (t Tier) Contains(level int) bool {
	if level < t.MinLevel {
		return false
	}
	return t.MaxLevel == 0 || level <= t.MaxLevel
}

// For returns the first tier containing level. Levels below the table use
// the first tier, levels past a closed table use the last one.
func (ts Tiers) For(level int) Tier {
	if len(ts) == 0 {
		return DefaultTiers.For(level)
	}
	for _, t := range ts {
		if t.Contains(level) {
			return t
		}
	}
	if level < ts[0].MinLevel {
		return ts[0]
	}
	return ts[len(ts)-1]
}
