package server

import (
	"github.com/tomz197/starfall/internal/audio"
	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/object"
)

// Rand is the random source the simulation draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Spawner creates enemies, power-up drops, the boss and player fire.
type Spawner struct {
	screen object.Screen
	rand   Rand
}

// NewSpawner creates a spawner for the given field.
func NewSpawner(screen object.Screen, r Rand) Spawner {
	return Spawner{screen: screen, rand: r}
}

// SpawnWave adds one enemy above the field and, with a fixed chance, one power-up.
// Reports whether a power-up was dropped.
func (sp Spawner) SpawnWave(store *Store) bool {
	x := sp.rand.Float64() * (sp.screen.W() - config.EnemySpawnPad)
	store.AddEnemy(object.NewEnemy(x))

	if sp.rand.Float64() >= config.PowerUpDropChance {
		return false
	}
	px := sp.rand.Float64() * sp.screen.W()
	kind := object.PowerShield
	if sp.rand.Float64() < 0.5 {
		kind = object.PowerTripleShot
	}
	store.AddPowerUp(object.NewPowerUp(px, kind))
	return true
}

// SpawnBoss creates the boss iff none exists and the score has reached the threshold.
func (sp Spawner) SpawnBoss(store *Store, s Session) bool {
	if store.Boss() != nil || s.Score < config.BossScoreThreshold {
		return false
	}
	store.SetBoss(object.NewBoss(sp.screen))
	return true
}

// Fire emits the player's shot: one bullet, or a spread of three under triple-shot.
// Returns the number of bullets created.
func (sp Spawner) Fire(store *Store, s Session, sink audio.Sink) int {
	sink.Play(audio.Shoot)

	px, py := store.Player.GetPosition()
	if !s.Power.Has(FlagTripleShot) {
		store.AddBullet(object.NewProjectile(px, py, config.BulletVelocity))
		return 1
	}
	for _, dx := range [...]float64{0, -config.TripleShotSpread, config.TripleShotSpread} {
		store.AddBullet(object.NewProjectile(px+dx, py, config.BulletVelocity))
	}
	return 3
}
