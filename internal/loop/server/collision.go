package server

import (
	"sort"

	"github.com/tomz197/starfall/internal/audio"
	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/physics"
)

// Every resolver below first collects its matches into a list, then applies
// removals and counters from that list, so iteration order never changes the outcome.

// collisionGridCellSize must be >= the largest bullet-to-enemy-center distance
// that still counts as a hit (half the enemy size on each axis).
const collisionGridCellSize = 40.0

// bulletHit is a matched (player bullet, enemy) pair, by slice index.
type bulletHit struct {
	bullet int
	enemy  int
}

// collectBulletEnemyHits returns every overlapping pair, ordered by bullet then enemy.
func collectBulletEnemyHits(store *Store, grid *physics.SpatialGrid) []bulletHit {
	var hits []bulletHit
	if len(store.bullets) == 0 || len(store.enemies) == 0 {
		return hits
	}

	if grid == nil {
		for i, b := range store.bullets {
			for j := range store.enemies {
				if store.enemies[j].Box().Contains(b.X, b.Y) {
					hits = append(hits, bulletHit{bullet: i, enemy: j})
				}
			}
		}
		return hits
	}

	grid.Clear()
	for j := range store.enemies {
		cx, cy := store.enemies[j].Box().Center()
		grid.Insert(cx, cy, j)
	}
	for i, b := range store.bullets {
		grid.QueryAround(b.X, b.Y, func(j int) bool {
			if store.enemies[j].Box().Contains(b.X, b.Y) {
				hits = append(hits, bulletHit{bullet: i, enemy: j})
			}
			return false
		})
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].bullet != hits[b].bullet {
			return hits[a].bullet < hits[b].bullet
		}
		return hits[a].enemy < hits[b].enemy
	})
	return hits
}

// resolveBulletEnemy destroys every matched bullet and enemy.
// Each destroyed enemy scores once, even when several bullets hit it.
func resolveBulletEnemy(store *Store, s Session, env Env) Session {
	hits := collectBulletEnemyHits(store, env.Grid)
	if len(hits) == 0 {
		return s
	}

	deadBullets := make(IDSet, len(hits))
	deadEnemies := make(IDSet, len(hits))
	for _, h := range hits {
		deadBullets.Add(store.bullets[h.bullet].ID)
		if deadEnemies.Add(store.enemies[h.enemy].ID) {
			s.Score += config.ScoreEnemy
			env.Sink.Play(audio.Explosion)
		}
	}
	store.RemoveBullets(deadBullets)
	store.RemoveEnemies(deadEnemies)
	return s
}

// resolveBulletBoss applies every bullet inside the boss box as one hit.
// Bullets matched after the killing hit stay in flight.
func resolveBulletBoss(store *Store, s Session, sink audio.Sink) Session {
	boss := store.Boss()
	if boss == nil {
		return s
	}

	box := boss.Box()
	var matched []int
	for i, b := range store.bullets {
		if box.Contains(b.X, b.Y) {
			matched = append(matched, i)
		}
	}
	if len(matched) == 0 {
		return s
	}

	spent := make(IDSet, len(matched))
	for _, i := range matched {
		spent.Add(store.bullets[i].ID)
		sink.Play(audio.Explosion)
		if boss.Hit() {
			s.Score += config.ScoreBoss
			store.ClearBoss()
			break
		}
	}
	store.RemoveBullets(spent)
	return s
}

// resolvePlayerHits consumes every enemy bullet near the player center.
// The shield absorbs the first hit; each further hit costs a life.
// Reaching zero lives ends the session.
func resolvePlayerHits(store *Store, s Session, sink audio.Sink) Session {
	px, py := store.Player.GetPosition()
	var matched []int
	for i, b := range store.enemyBullets {
		if physics.WithinSquare(b.X, b.Y, px, py, config.PlayerHitTolerance) {
			matched = append(matched, i)
		}
	}
	if len(matched) == 0 {
		return s
	}

	spent := make(IDSet, len(matched))
	for _, i := range matched {
		spent.Add(store.enemyBullets[i].ID)
		if s.Power.Absorb() {
			continue
		}
		s.Lives--
		if s.Lives <= 0 {
			s.Lives = 0
			s.Over = true
			sink.Play(audio.GameOver)
			break
		}
	}
	store.RemoveEnemyBullets(spent)
	return s
}

// resolvePickups collects every power-up within reach of the player.
// Reports whether anything was granted.
func resolvePickups(store *Store, s Session, sink audio.Sink) (Session, bool) {
	px, py := store.Player.GetPosition()
	var matched []int
	for i, p := range store.powerUps {
		if physics.PointInCircle(p.X, p.Y, px, py, config.PickupRadius) {
			matched = append(matched, i)
		}
	}
	if len(matched) == 0 {
		return s, false
	}

	taken := make(IDSet, len(matched))
	for _, i := range matched {
		p := store.powerUps[i]
		taken.Add(p.ID)
		sink.Play(audio.Pickup)
		s.Power.Grant(flagFor(p.Kind))
	}
	store.RemovePowerUps(taken)
	return s, true
}
