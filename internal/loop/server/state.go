package server

import (
	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/object"
)

// PowerFlag is a buff held in the power-up slot.
type PowerFlag uint8

const (
	FlagTripleShot PowerFlag = 1 << iota
	FlagShield
)

// flagFor maps a power-up kind to the flag it grants.
func flagFor(kind object.PowerKind) PowerFlag {
	if kind == object.PowerShield {
		return FlagShield
	}
	return FlagTripleShot
}

// PowerSlot is the single timed-buff slot. All flags share one countdown
// and are cleared together when it runs out.
type PowerSlot struct {
	Flags PowerFlag
	Timer int // Ticks remaining
}

// Has reports whether flag f is active.
func (p PowerSlot) Has(f PowerFlag) bool {
	return p.Timer > 0 && p.Flags&f != 0
}

// Grant sets flag f and restarts the shared countdown. Grants extend, never stack.
func (p *PowerSlot) Grant(f PowerFlag) {
	p.Flags |= f
	p.Timer = config.PowerDuration
}

// Absorb consumes the shield if it is active and reports whether it did.
// The countdown keeps running for any other flag.
func (p *PowerSlot) Absorb() bool {
	if !p.Has(FlagShield) {
		return false
	}
	p.Flags &^= FlagShield
	return true
}

// Decay advances the countdown by one tick, clearing every flag when it reaches zero.
func (p *PowerSlot) Decay() {
	if p.Timer <= 0 {
		return
	}
	p.Timer--
	if p.Timer == 0 {
		p.Flags = 0
	}
}

// Session holds the counters of one play-through.
type Session struct {
	Score int
	Lives int
	Power PowerSlot
	Over  bool   // Terminal: no further ticks, spawns or fire are processed
	Tick  uint64 // Ticks processed so far
}

// NewSession creates a fresh session.
func NewSession() Session {
	return Session{Lives: config.InitialLives}
}

// Store holds every entity collection of a session.
// It enforces no cross-collection rules; Step does.
type Store struct {
	Player       *object.Player
	bullets      []object.Projectile
	enemyBullets []object.Projectile
	enemies      []object.Enemy
	powerUps     []object.PowerUp
	boss         *object.Boss
	nextID       object.ID
}

// NewStore creates a store with the player placed on the given screen.
func NewStore(screen object.Screen) *Store {
	return &Store{Player: object.NewPlayer(screen)}
}

// Reset clears every collection and places a fresh player.
func (s *Store) Reset(screen object.Screen) {
	s.Player = object.NewPlayer(screen)
	s.bullets = s.bullets[:0]
	s.enemyBullets = s.enemyBullets[:0]
	s.enemies = s.enemies[:0]
	s.powerUps = s.powerUps[:0]
	s.boss = nil
}

func (s *Store) allocID() object.ID {
	s.nextID++
	return s.nextID
}

// AddBullet stores a fully constructed player bullet and returns its ID.
func (s *Store) AddBullet(p object.Projectile) object.ID {
	p.ID = s.allocID()
	s.bullets = append(s.bullets, p)
	return p.ID
}

// AddEnemyBullet stores an enemy or boss bullet and returns its ID.
func (s *Store) AddEnemyBullet(p object.Projectile) object.ID {
	p.ID = s.allocID()
	s.enemyBullets = append(s.enemyBullets, p)
	return p.ID
}

// AddEnemy stores an enemy and returns its ID.
func (s *Store) AddEnemy(e object.Enemy) object.ID {
	e.ID = s.allocID()
	s.enemies = append(s.enemies, e)
	return e.ID
}

// AddPowerUp stores a power-up and returns its ID.
func (s *Store) AddPowerUp(p object.PowerUp) object.ID {
	p.ID = s.allocID()
	s.powerUps = append(s.powerUps, p)
	return p.ID
}

// SetBoss installs the boss, replacing any existing one.
func (s *Store) SetBoss(b *object.Boss) { s.boss = b }

// ClearBoss removes the boss.
func (s *Store) ClearBoss() { s.boss = nil }

// Boss returns the boss, or nil when none exists.
func (s *Store) Boss() *object.Boss { return s.boss }

// Bullets returns the player bullets. The slice must not be retained across mutations.
func (s *Store) Bullets() []object.Projectile { return s.bullets }

// EnemyBullets returns the enemy bullets. The slice must not be retained across mutations.
func (s *Store) EnemyBullets() []object.Projectile { return s.enemyBullets }

// Enemies returns the enemies. The slice must not be retained across mutations.
func (s *Store) Enemies() []object.Enemy { return s.enemies }

// PowerUps returns the power-ups. The slice must not be retained across mutations.
func (s *Store) PowerUps() []object.PowerUp { return s.powerUps }

// IDSet is a set of entity IDs marked for removal.
type IDSet map[object.ID]struct{}

// Add inserts id and reports whether it was new.
func (ids IDSet) Add(id object.ID) bool {
	if _, ok := ids[id]; ok {
		return false
	}
	ids[id] = struct{}{}
	return true
}

// Has reports whether id is in the set.
func (ids IDSet) Has(id object.ID) bool {
	_, ok := ids[id]
	return ok
}

// RemoveBullets drops the player bullets with the given IDs and returns how many were removed.
func (s *Store) RemoveBullets(ids IDSet) int {
	var n int
	s.bullets, n = removeIDs(s.bullets, ids, func(p *object.Projectile) object.ID { return p.ID })
	return n
}

// RemoveEnemyBullets drops the enemy bullets with the given IDs.
func (s *Store) RemoveEnemyBullets(ids IDSet) int {
	var n int
	s.enemyBullets, n = removeIDs(s.enemyBullets, ids, func(p *object.Projectile) object.ID { return p.ID })
	return n
}

// RemoveEnemies drops the enemies with the given IDs.
func (s *Store) RemoveEnemies(ids IDSet) int {
	var n int
	s.enemies, n = removeIDs(s.enemies, ids, func(e *object.Enemy) object.ID { return e.ID })
	return n
}

// RemovePowerUps drops the power-ups with the given IDs.
func (s *Store) RemovePowerUps(ids IDSet) int {
	var n int
	s.powerUps, n = removeIDs(s.powerUps, ids, func(p *object.PowerUp) object.ID { return p.ID })
	return n
}

// removeIDs compacts items in place, keeping those whose ID is not in ids.
func removeIDs[T any](items []T, ids IDSet, id func(*T) object.ID) ([]T, int) {
	if len(ids) == 0 {
		return items, 0
	}
	kept := items[:0] // reuse backing array
	for i := range items {
		if !ids.Has(id(&items[i])) {
			kept = append(kept, items[i])
		}
	}
	removed := len(items) - len(kept)
	clear(items[len(kept):])
	return kept, removed
}
