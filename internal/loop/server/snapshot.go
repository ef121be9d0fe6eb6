package server

import "github.com/tomz197/starfall/internal/object"

// Point is a projectile position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a box with its top-left corner at (X, Y).
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// PowerUpView is a power-up as seen by a renderer.
type PowerUpView struct {
	X    float64          `json:"x"`
	Y    float64          `json:"y"`
	Kind object.PowerKind `json:"kind"`
}

// BossView is the boss as seen by a renderer.
type BossView struct {
	Rect
	HP int `json:"hp"`
}

// PlayerView is the player as seen by a renderer.
type PlayerView struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// Snapshot is an immutable copy of everything a renderer needs for one frame.
type Snapshot struct {
	Tick         uint64        `json:"tick"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	Player       PlayerView    `json:"player"`
	Shield       bool          `json:"shield"`
	TripleShot   bool          `json:"tripleShot"`
	PowerTimer   int           `json:"powerTimer"`
	Bullets      []Point       `json:"bullets"`
	EnemyBullets []Point       `json:"enemyBullets"`
	Enemies      []Rect        `json:"enemies"`
	PowerUps     []PowerUpView `json:"powerUps"`
	Boss         *BossView     `json:"boss"`
	Score        int           `json:"score"`
	Lives        int           `json:"lives"`
	Over         bool          `json:"over"`
}

// Snapshot copies the current state of the game.
func (g *Game) Snapshot() *Snapshot {
	st := g.store
	snap := &Snapshot{
		Tick:   g.session.Tick,
		Width:  g.env.Screen.Width,
		Height: g.env.Screen.Height,
		Player: PlayerView{
			X:    st.Player.X,
			Y:    st.Player.Y,
			Size: st.Player.Size,
		},
		Shield:       g.session.Power.Has(FlagShield),
		TripleShot:   g.session.Power.Has(FlagTripleShot),
		PowerTimer:   g.session.Power.Timer,
		Bullets:      make([]Point, len(st.bullets)),
		EnemyBullets: make([]Point, len(st.enemyBullets)),
		Enemies:      make([]Rect, len(st.enemies)),
		PowerUps:     make([]PowerUpView, len(st.powerUps)),
		Score:        g.session.Score,
		Lives:        g.session.Lives,
		Over:         g.session.Over,
	}
	for i, b := range st.bullets {
		snap.Bullets[i] = Point{X: b.X, Y: b.Y}
	}
	for i, b := range st.enemyBullets {
		snap.EnemyBullets[i] = Point{X: b.X, Y: b.Y}
	}
	for i, e := range st.enemies {
		snap.Enemies[i] = Rect{X: e.X, Y: e.Y, W: e.Size, H: e.Size}
	}
	for i, p := range st.powerUps {
		snap.PowerUps[i] = PowerUpView{X: p.X, Y: p.Y, Kind: p.Kind}
	}
	if b := st.Boss(); b != nil {
		snap.Boss = &BossView{Rect: Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}, HP: b.HP}
	}
	return snap
}
