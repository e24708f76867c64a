// Package config provides YAML-based balance and level configuration
// loading plus difficulty scaling for the Loopy runtime.
package config

// Balance contains all tunable gameplay constants.
type Balance struct {
	Player    PlayerBalance      `yaml:"player"`
	Damage    DamageTable        `yaml:"damage"`
	Cooldowns map[string]float64 `yaml:"ability_cooldowns_ms"`
	Combat    CombatBalance      `yaml:"combat"`
	Economy   EconomyBalance     `yaml:"economy"`
	Hints     HintBalance        `yaml:"hints"`
}

// PlayerBalance defines the player controller parameters.
type PlayerBalance struct {
	MaxHealth          float64 `yaml:"max_health"`
	BaseSpeed          float64 `yaml:"base_speed"`
	Radius             float64 `yaml:"radius"`
	InvulnMs           float64 `yaml:"invuln_ms"`
	RespawnInvulnMs    float64 `yaml:"respawn_invuln_ms"`
	RespawnHealthRatio float64 `yaml:"respawn_health_ratio"`
	RespawnShieldMs    float64 `yaml:"respawn_shield_ms"`
	DashSpeed          float64 `yaml:"dash_speed"`
	DashVerticalDamp   float64 `yaml:"dash_vertical_damp"`
	GlideSpeedFactor   float64 `yaml:"glide_speed_factor"`
	GlideLift          float64 `yaml:"glide_lift"`
	GlideDurationMs    float64 `yaml:"glide_duration_ms"`
	SteerRate          float64 `yaml:"steer_rate"`
	GlideSteerRate     float64 `yaml:"glide_steer_rate"`
	ReleaseRate        float64 `yaml:"release_rate"`
	FacingDeadzone     float64 `yaml:"facing_deadzone"`
	StartLives         int     `yaml:"start_lives"`
	MaxLives           int     `yaml:"max_lives"`
}

// DamageTable lists base damage values.
type DamageTable struct {
	Projectile          float64 `yaml:"projectile"`
	BlackHoleProjectile float64 `yaml:"black_hole_projectile"`
	PredatorContact     float64 `yaml:"predator_contact"`
	HazardTouch         float64 `yaml:"hazard_touch"`
	WormholeCoreReset   float64 `yaml:"wormhole_core_reset"`
	BossContact         float64 `yaml:"boss_contact"`
}

// CombatBalance defines player weapon and area ability tuning.
type CombatBalance struct {
	TapShot ShotBalance   `yaml:"tap_shot"`
	Hold    HoldBalance   `yaml:"hold_fire"`
	Bomb    BombBalance   `yaml:"bomb"`
	Shield  ShieldBalance `yaml:"shield"`
	Bloom   BloomBalance  `yaml:"bloom"`

	AutoAimRange float64 `yaml:"auto_aim_range"`
	KillSeeds    int     `yaml:"kill_seeds"`
	ReflectFloor float64 `yaml:"reflect_damage_floor"`
}

// ShotBalance defines a single player shot.
type ShotBalance struct {
	CooldownMs float64 `yaml:"cooldown_ms"`
	Damage     float64 `yaml:"damage"`
	Speed      float64 `yaml:"speed"`
}

// HoldBalance defines continuous fire while the primary input is held.
type HoldBalance struct {
	Damage     float64 `yaml:"damage"`
	Speed      float64 `yaml:"speed"`
	BaseMs     float64 `yaml:"base_interval_ms"`
	PerLevelMs float64 `yaml:"per_level_ms"`
	MinMs      float64 `yaml:"min_interval_ms"`
	MaxMs      float64 `yaml:"max_interval_ms"`
	ArcEvery   int     `yaml:"arc_every"`
	ArcSpread  float64 `yaml:"arc_spread"`
	ArcDamage  float64 `yaml:"arc_damage"`
	ArcSpeed   float64 `yaml:"arc_speed"`
}

// BombBalance defines the two-tap area bomb.
type BombBalance struct {
	CooldownMs     float64 `yaml:"cooldown_ms"`
	Radius         float64 `yaml:"radius"`
	PredatorReach  float64 `yaml:"predator_reach"`
	PredatorStunMs float64 `yaml:"predator_stun_ms"`
	PredatorDamage float64 `yaml:"predator_damage"`
	Knockback      float64 `yaml:"knockback"`
	BossReach      float64 `yaml:"boss_reach"`
	BossStunMs     float64 `yaml:"boss_stun_ms"`
	BossDamage     float64 `yaml:"boss_damage"`
}

// ShieldBalance defines the three-tap reflecting shield.
type ShieldBalance struct {
	CooldownMs       float64 `yaml:"cooldown_ms"`
	DurationMs       float64 `yaml:"duration_ms"`
	ReflectRadius    float64 `yaml:"reflect_radius"`
	ReflectMult      float64 `yaml:"reflect_mult"`
	PulseEveryMs     float64 `yaml:"pulse_every_ms"`
	PulseRadius      float64 `yaml:"pulse_radius"`
	PulseReflectMult float64 `yaml:"pulse_reflect_mult"`
	PulseReach       float64 `yaml:"pulse_predator_reach"`
	PulseStunMs      float64 `yaml:"pulse_stun_ms"`
	PulseDamage      float64 `yaml:"pulse_damage"`
}

// BloomBalance defines the universe bloom special.
type BloomBalance struct {
	MeterMax       float64 `yaml:"meter_max"`
	DurationMs     float64 `yaml:"duration_ms"`
	ShieldMs       float64 `yaml:"shield_ms"`
	PredatorStunMs float64 `yaml:"predator_stun_ms"`
	PredatorDamage float64 `yaml:"predator_damage"`
	BossStunMs     float64 `yaml:"boss_stun_ms"`
	BossDamage     float64 `yaml:"boss_damage"`
	WormholePull   float64 `yaml:"wormhole_pull_scale"`
}

// EconomyBalance defines food, pickups and scoring.
type EconomyBalance struct {
	FoodBloomGain      float64      `yaml:"food_bloom_gain"`
	LifeDropChance     float64      `yaml:"life_drop_chance"`
	UniverseDropChance float64      `yaml:"universe_drop_chance"`
	SeedDropChance     float64      `yaml:"seed_drop_chance"`
	PickupLifetimeMs   float64      `yaml:"pickup_lifetime_ms"`
	SeedPickupValue    int          `yaml:"seed_pickup_value"`
	UniverseBloomGain  float64      `yaml:"universe_bloom_gain"`
	Score              ScoreWeights `yaml:"score"`
}

// ScoreWeights are the completion score coefficients.
type ScoreWeights struct {
	Collected     int     `yaml:"collected"`
	Seeds         int     `yaml:"seeds"`
	UniverseSeeds int     `yaml:"universe_seeds"`
	TimeLeft      float64 `yaml:"time_left"`
	DeathPenalty  int     `yaml:"death_penalty"`
}

// HintBalance defines hint debounce intervals.
type HintBalance struct {
	CheckpointMs float64 `yaml:"checkpoint_ms"`
	ExitMs       float64 `yaml:"exit_ms"`
	CombatMs     float64 `yaml:"combat_ms"`
	HazardMs     float64 `yaml:"hazard_debounce_ms"`
}

// Cooldown returns the configured cooldown for an ability name.
func (b Balance) Cooldown(name string) float64 {
	return b.Cooldowns[name]
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a flag value to a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch DifficultyPreset(s) {
	case "", DifficultyNormal:
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s), true
	}
	return DifficultyNormal, false
}

// EffectiveLevel returns the difficulty index a preset uses for a level.
// Easy plays two levels softer, hard three levels harder, and fixed pins
// every level to the entry difficulty.
func EffectiveLevel(preset DifficultyPreset, levelID int) int {
	switch preset {
	case DifficultyEasy:
		return max(1, levelID-2)
	case DifficultyHard:
		return levelID + 3
	case DifficultyFixed:
		return 1
	default:
		return levelID
	}
}

// IsFixedPreset returns true if the preset disables scaling.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
