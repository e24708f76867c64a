package config

import (
	_ "embed"
)

//go:embed defaults/balance.yaml
var defaultBalanceYAML []byte

//go:embed defaults/levels.yaml
var defaultLevelsYAML []byte

// DefaultBalance returns the built-in balance used when no YAML is available.
func DefaultBalance() Balance {
	return Balance{
		Player: PlayerBalance{
			MaxHealth:          100,
			BaseSpeed:          330,
			Radius:             12,
			InvulnMs:           900,
			RespawnInvulnMs:    800,
			RespawnHealthRatio: 0.6,
			RespawnShieldMs:    1000,
			DashSpeed:          470,
			DashVerticalDamp:   0.3,
			GlideSpeedFactor:   0.82,
			GlideLift:          30,
			GlideDurationMs:    1600,
			SteerRate:          20,
			GlideSteerRate:     12,
			ReleaseRate:        28,
			FacingDeadzone:     2,
			StartLives:         3,
			MaxLives:           9,
		},
		Damage: DamageTable{
			Projectile:          14,
			BlackHoleProjectile: 22,
			PredatorContact:     18,
			HazardTouch:         16,
			WormholeCoreReset:   999,
			BossContact:         28,
		},
		Cooldowns: map[string]float64{
			"dash":        3200,
			"glide":       2600,
			"shockwave":   5000,
			"phase_blink": 4200,
		},
		Combat: CombatBalance{
			TapShot: ShotBalance{CooldownMs: 80, Damage: 44, Speed: 930},
			Hold: HoldBalance{
				Damage:     26,
				Speed:      860,
				BaseMs:     180,
				PerLevelMs: 5,
				MinMs:      95,
				MaxMs:      150,
				ArcEvery:   5,
				ArcSpread:  0.24,
				ArcDamage:  20,
				ArcSpeed:   700,
			},
			Bomb: BombBalance{
				CooldownMs:     620,
				Radius:         220,
				PredatorReach:  250,
				PredatorStunMs: 1400,
				PredatorDamage: 48,
				Knockback:      330,
				BossReach:      290,
				BossStunMs:     900,
				BossDamage:     220,
			},
			Shield: ShieldBalance{
				CooldownMs:       2600,
				DurationMs:       2300,
				ReflectRadius:    210,
				ReflectMult:      1.35,
				PulseEveryMs:     220,
				PulseRadius:      132,
				PulseReflectMult: 1.22,
				PulseReach:       148,
				PulseStunMs:      260,
				PulseDamage:      6,
			},
			Bloom: BloomBalance{
				MeterMax:       100,
				DurationMs:     2300,
				ShieldMs:       1300,
				PredatorStunMs: 2200,
				PredatorDamage: 24,
				BossStunMs:     1900,
				BossDamage:     520,
				WormholePull:   0.22,
			},
			AutoAimRange: 900,
			KillSeeds:    2,
			ReflectFloor: 20,
		},
		Economy: EconomyBalance{
			FoodBloomGain:      1.8,
			LifeDropChance:     0.03,
			UniverseDropChance: 0.12,
			SeedDropChance:     0.46,
			PickupLifetimeMs:   14000,
			SeedPickupValue:    3,
			UniverseBloomGain:  34,
			Score: ScoreWeights{
				Collected:     110,
				Seeds:         8,
				UniverseSeeds: 55,
				TimeLeft:      12,
				DeathPenalty:  85,
			},
		},
		Hints: HintBalance{
			CheckpointMs: 1200,
			ExitMs:       1200,
			CombatMs:     260,
			HazardMs:     360,
		},
	}
}
