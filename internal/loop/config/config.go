// Package config centralizes all tunable game parameters.
package config

import "time"

// Canvas - the logical play field. Rendering scales it to whatever the host offers.
const (
	CanvasWidth  = 800
	CanvasHeight = 600
)

// Player
const (
	InitialLives       = 3
	PlayerSize         = 40
	PlayerSpeed        = 6.0
	PlayerBottomOffset = 80 // Player y is CanvasHeight - PlayerBottomOffset
)

// Projectiles (velocities are per tick, negative is up)
const (
	BulletVelocity      = -8.0
	EnemyBulletVelocity = 4.0
	BossBulletVelocity  = 5.0
	TripleShotSpread    = 15.0
)

// Enemies
const (
	EnemySize     = 35
	EnemySpawnPad = 40 // Spawn x is drawn from [0, CanvasWidth-EnemySpawnPad)
	EnemySpawnY   = -40
	EnemyHP       = 1
	EnemySpeed    = 2.0
	EnemyFireRate = 0.01 // Chance per enemy per tick
)

// Boss
const (
	BossWidth          = 120
	BossHeight         = 60
	BossY              = 60
	BossHP             = 30
	BossStep           = 3.0
	BossFireRate       = 0.03 // Chance per tick
	BossScoreThreshold = 200
)

// Power-ups
const (
	PowerUpSpawnY     = -20
	PowerUpSpeed      = 2.0
	PowerUpDropChance = 0.10
	PowerDuration     = 500 // Ticks
)

// Collision tolerances
const (
	PlayerHitTolerance = 20.0 // Square half-extent around the player center
	PickupRadius       = 30.0
)

// Scoring
const (
	ScoreEnemy = 10
	ScoreBoss  = 200
)

// Cadences. Spawning and firing run on wall-clock time, independent of the tick rate.
const (
	EnemySpawnInterval = 700 * time.Millisecond
	FireInterval       = 400 * time.Millisecond
	MusicDelay         = 2 * time.Second
)

// Simulation tick rate
const (
	DefaultTickRate = 60
	MaxTickRate     = 240
)

// Entity shapes as drawn. Collision uses the tolerances above, not these.
const (
	PlayerRadius  = 20.0
	ShieldRadius  = 30.0
	BulletWidth   = 6.0
	BulletHeight  = 15.0
	PowerUpRadius = 12.0
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 200
	MaxTermHeight         = 60
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Audio queue between a session and a frontend that drains it per frame.
const SoundQueueSize = 64
