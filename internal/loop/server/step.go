package server

import (
	"github.com/tomz197/starfall/internal/audio"
	"github.com/tomz197/starfall/internal/input"
	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

// Env carries the collaborators of a simulation step.
type Env struct {
	Screen object.Screen
	Rand   Rand
	Sink   audio.Sink
	Grid   *physics.SpatialGrid // Optional broad phase for bullet/enemy pairs
}

// Step advances the session by one tick and returns the updated session state.
// Once the session is over, Step changes nothing.
func Step(store *Store, s Session, in input.Input, env Env) Session {
	if s.Over {
		return s
	}
	if env.Sink == nil {
		env.Sink = audio.Nop{}
	}
	s.Tick++
	spawner := NewSpawner(env.Screen, env.Rand)

	spawner.SpawnBoss(store, s)
	store.Player.Move(in, env.Screen)
	advanceProjectiles(store, env.Screen)
	advanceEnemies(store, env.Screen)
	advancePowerUps(store, env.Screen)
	enemiesFire(store, env.Rand)
	advanceBoss(store, env.Screen, env.Rand)

	s = resolveBulletEnemy(store, s, env)
	s = resolveBulletBoss(store, s, env.Sink)
	s = resolvePlayerHits(store, s, env.Sink)
	if s.Over {
		return s
	}

	var granted bool
	s, granted = resolvePickups(store, s, env.Sink)
	// A slot granted this tick starts counting down on the next one.
	if !granted {
		s.Power.Decay()
	}
	return s
}

// advanceProjectiles moves both bullet collections and drops those that left the field.
func advanceProjectiles(store *Store, screen object.Screen) {
	kept := store.bullets[:0]
	for _, b := range store.bullets {
		b.Advance()
		if !b.AboveTop() {
			kept = append(kept, b)
		}
	}
	clear(store.bullets[len(kept):])
	store.bullets = kept

	kept = store.enemyBullets[:0]
	for _, b := range store.enemyBullets {
		b.Advance()
		if !b.BelowBottom(screen) {
			kept = append(kept, b)
		}
	}
	clear(store.enemyBullets[len(kept):])
	store.enemyBullets = kept
}

// advanceEnemies moves enemies down. Escaped enemies are dropped without penalty.
func advanceEnemies(store *Store, screen object.Screen) {
	kept := store.enemies[:0]
	for _, e := range store.enemies {
		e.Advance()
		if !e.Escaped(screen) {
			kept = append(kept, e)
		}
	}
	clear(store.enemies[len(kept):])
	store.enemies = kept
}

func advancePowerUps(store *Store, screen object.Screen) {
	kept := store.powerUps[:0]
	for _, p := range store.powerUps {
		p.Advance()
		if !p.Escaped(screen) {
			kept = append(kept, p)
		}
	}
	clear(store.powerUps[len(kept):])
	store.powerUps = kept
}

// enemiesFire gives every enemy an independent chance to shoot straight down.
// Iterates over a fixed count so bullets added here never alias the enemy slice.
func enemiesFire(store *Store, r Rand) {
	n := len(store.enemies)
	for i := 0; i < n; i++ {
		if r.Float64() < config.EnemyFireRate {
			x, y := store.enemies[i].Muzzle()
			store.AddEnemyBullet(object.NewProjectile(x, y, config.EnemyBulletVelocity))
		}
	}
}

// advanceBoss patrols the boss and rolls its fire chance.
func advanceBoss(store *Store, screen object.Screen, r Rand) {
	boss := store.Boss()
	if boss == nil {
		return
	}
	boss.Patrol(screen)
	if r.Float64() < config.BossFireRate {
		x, y := boss.Muzzle()
		store.AddEnemyBullet(object.NewProjectile(x, y, config.BossBulletVelocity))
	}
}
