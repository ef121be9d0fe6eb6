package server

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/tomz197/starfall/internal/audio"
	"github.com/tomz197/starfall/internal/input"
	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

func testEnv(rec *audio.Recorder) Env {
	return Env{Screen: DefaultScreen, Rand: quietRand(), Sink: rec}
}

func TestStepShieldPickup(t *testing.T) {
	st := NewStore(DefaultScreen)
	rec := &audio.Recorder{}
	px, py := st.Player.GetPosition()
	// Power-ups drift down one step before pickup is checked.
	st.AddPowerUp(object.PowerUp{X: px + 10, Y: py - config.PowerUpSpeed, Kind: object.PowerShield})

	s := Step(st, NewSession(), input.Input{}, testEnv(rec))

	if !s.Power.Has(FlagShield) {
		t.Fatal("shield not granted")
	}
	if s.Power.Timer != config.PowerDuration {
		t.Fatalf("Timer = %d, want %d", s.Power.Timer, config.PowerDuration)
	}
	if len(st.PowerUps()) != 0 {
		t.Fatal("collected power-up still stored")
	}
	if rec.Count(audio.Pickup) != 1 {
		t.Fatalf("pickup sounds = %d, want 1", rec.Count(audio.Pickup))
	}
	if s.Score != 0 {
		t.Fatalf("Score = %d, want 0", s.Score)
	}

	s = Step(st, s, input.Input{}, testEnv(rec))
	if s.Power.Timer != config.PowerDuration-1 {
		t.Fatalf("Timer on next tick = %d, want %d", s.Power.Timer, config.PowerDuration-1)
	}
}

func TestStepPickupOutOfReach(t *testing.T) {
	st := NewStore(DefaultScreen)
	px, py := st.Player.GetPosition()
	st.AddPowerUp(object.PowerUp{X: px + 30, Y: py - config.PowerUpSpeed, Kind: object.PowerShield})

	s := Step(st, NewSession(), input.Input{}, testEnv(&audio.Recorder{}))
	if s.Power.Has(FlagShield) || len(st.PowerUps()) != 1 {
		t.Fatal("power-up at exactly the pickup radius was collected")
	}
}

func TestStepBossThreshold(t *testing.T) {
	for _, tc := range []struct {
		score    int
		wantBoss bool
	}{
		{199, false},
		{200, true},
	} {
		st := NewStore(DefaultScreen)
		s := NewSession()
		s.Score = tc.score
		Step(st, s, input.Input{}, testEnv(&audio.Recorder{}))
		if got := st.Boss() != nil; got != tc.wantBoss {
			t.Errorf("score %d: boss = %v, want %v", tc.score, got, tc.wantBoss)
		}
	}
}

func TestStepBossKill(t *testing.T) {
	st := NewStore(DefaultScreen)
	rec := &audio.Recorder{}
	boss := object.NewBoss(DefaultScreen)
	boss.HP = 1
	st.SetBoss(boss)
	// After patrol the boss spans x 343..463, y 60..120.
	st.AddBullet(object.NewProjectile(400, 100-config.BulletVelocity, config.BulletVelocity))

	s := Step(st, NewSession(), input.Input{}, testEnv(rec))
	if s.Score != config.ScoreBoss {
		t.Fatalf("Score = %d, want %d", s.Score, config.ScoreBoss)
	}
	if st.Boss() != nil {
		t.Fatal("boss not removed")
	}
	if len(st.Bullets()) != 0 {
		t.Fatal("killing bullet not removed")
	}

	// Score is still at threshold, so the next tick brings a fresh boss.
	Step(st, s, input.Input{}, testEnv(rec))
	if b := st.Boss(); b == nil || b.HP != config.BossHP {
		t.Fatalf("boss after respawn = %+v, want full hp", b)
	}
}

func TestStepBossBulletsAfterKillStayInFlight(t *testing.T) {
	st := NewStore(DefaultScreen)
	boss := object.NewBoss(DefaultScreen)
	boss.HP = 1
	st.SetBoss(boss)
	st.AddBullet(object.NewProjectile(400, 108, config.BulletVelocity))
	st.AddBullet(object.NewProjectile(410, 108, config.BulletVelocity))

	s := Step(st, NewSession(), input.Input{}, testEnv(&audio.Recorder{}))
	if s.Score != config.ScoreBoss {
		t.Fatalf("Score = %d, want %d", s.Score, config.ScoreBoss)
	}
	if len(st.Bullets()) != 1 || st.Bullets()[0].X != 410 {
		t.Fatalf("bullets = %+v, want the second one left", st.Bullets())
	}
}

func TestStepBulletEnemy(t *testing.T) {
	for _, grid := range []bool{false, true} {
		env := testEnv(&audio.Recorder{})
		if grid {
			env.Grid = physics.NewSpatialGrid(DefaultScreen.W(), DefaultScreen.H(), collisionGridCellSize)
		}

		st := NewStore(DefaultScreen)
		// Two overlapping enemies under one bullet, at y 102..137 after advancing.
		st.AddEnemy(object.Enemy{X: 100, Y: 100, Size: config.EnemySize, HP: 1})
		st.AddEnemy(object.Enemy{X: 105, Y: 100, Size: config.EnemySize, HP: 1})
		st.AddBullet(object.NewProjectile(110, 128, config.BulletVelocity))
		// Two bullets into one enemy.
		st.AddEnemy(object.Enemy{X: 500, Y: 100, Size: config.EnemySize, HP: 1})
		st.AddBullet(object.NewProjectile(510, 128, config.BulletVelocity))
		st.AddBullet(object.NewProjectile(520, 128, config.BulletVelocity))
		// Far away, untouched.
		st.AddEnemy(object.Enemy{X: 700, Y: 300, Size: config.EnemySize, HP: 1})

		s := Step(st, NewSession(), input.Input{}, env)
		if s.Score != 3*config.ScoreEnemy {
			t.Errorf("grid=%v: Score = %d, want %d", grid, s.Score, 3*config.ScoreEnemy)
		}
		if len(st.Bullets()) != 0 {
			t.Errorf("grid=%v: %d bullets left, want 0", grid, len(st.Bullets()))
		}
		if len(st.Enemies()) != 1 || st.Enemies()[0].X != 700 {
			t.Errorf("grid=%v: enemies = %+v, want only the far one", grid, st.Enemies())
		}
	}
}

func TestStepShieldAbsorbsOneHit(t *testing.T) {
	st := NewStore(DefaultScreen)
	rec := &audio.Recorder{}
	px, py := st.Player.GetPosition()
	st.AddEnemyBullet(object.NewProjectile(px, py-config.EnemyBulletVelocity, config.EnemyBulletVelocity))

	s := NewSession()
	s.Power.Grant(FlagShield)
	s = Step(st, s, input.Input{}, testEnv(rec))

	if s.Lives != config.InitialLives {
		t.Fatalf("Lives = %d, want %d", s.Lives, config.InitialLives)
	}
	if s.Power.Has(FlagShield) {
		t.Fatal("shield not consumed")
	}
	if len(st.EnemyBullets()) != 0 {
		t.Fatal("absorbed bullet not removed")
	}

	// Two hits in one tick: the shield takes the first, the second costs a life.
	st.AddEnemyBullet(object.NewProjectile(px-5, py-config.EnemyBulletVelocity, config.EnemyBulletVelocity))
	st.AddEnemyBullet(object.NewProjectile(px+5, py-config.EnemyBulletVelocity, config.EnemyBulletVelocity))
	s.Power.Grant(FlagShield)
	s = Step(st, s, input.Input{}, testEnv(rec))
	if s.Lives != config.InitialLives-1 {
		t.Fatalf("Lives = %d, want %d", s.Lives, config.InitialLives-1)
	}
}

func TestStepGameOverIsTerminal(t *testing.T) {
	st := NewStore(DefaultScreen)
	rec := &audio.Recorder{}
	px, py := st.Player.GetPosition()
	for i := 0; i < 3; i++ {
		st.AddEnemyBullet(object.NewProjectile(px+float64(i), py-config.EnemyBulletVelocity, config.EnemyBulletVelocity))
	}
	st.AddEnemy(object.NewEnemy(100))

	s := NewSession()
	s.Lives = 1
	s = Step(st, s, input.Input{}, testEnv(rec))
	if !s.Over || s.Lives != 0 {
		t.Fatalf("session = %+v, want over with 0 lives", s)
	}
	if rec.Count(audio.GameOver) != 1 {
		t.Fatalf("gameover sounds = %d, want 1", rec.Count(audio.GameOver))
	}

	tick := s.Tick
	enemyY := st.Enemies()[0].Y
	for i := 0; i < 10; i++ {
		s = Step(st, s, input.Input{Left: true}, testEnv(rec))
	}
	if s.Tick != tick || s.Lives != 0 {
		t.Fatalf("session changed after game over: %+v", s)
	}
	if st.Enemies()[0].Y != enemyY || st.Player.X != px {
		t.Fatal("entities moved after game over")
	}
	if rec.Count(audio.GameOver) != 1 {
		t.Fatal("gameover played again")
	}
}

func TestStepExpiryClearsBothFlags(t *testing.T) {
	st := NewStore(DefaultScreen)
	s := NewSession()
	s.Power = PowerSlot{Flags: FlagTripleShot | FlagShield, Timer: 1}

	s = Step(st, s, input.Input{}, testEnv(&audio.Recorder{}))
	if s.Power.Has(FlagTripleShot) || s.Power.Has(FlagShield) || s.Power.Flags != 0 {
		t.Fatalf("slot after expiry = %+v", s.Power)
	}
}

func TestStepMovesAndCullsEntities(t *testing.T) {
	st := NewStore(DefaultScreen)
	st.AddEnemy(object.Enemy{X: 10, Y: 599, Size: config.EnemySize, HP: 1})
	st.AddBullet(object.NewProjectile(10, 5, config.BulletVelocity))
	st.AddEnemyBullet(object.NewProjectile(10, 598, config.EnemyBulletVelocity))
	st.AddPowerUp(object.PowerUp{X: 10, Y: 599, Kind: object.PowerShield})

	s := Step(st, NewSession(), input.Input{Left: true}, testEnv(&audio.Recorder{}))

	if len(st.Enemies())+len(st.Bullets())+len(st.EnemyBullets())+len(st.PowerUps()) != 0 {
		t.Fatal("entities past the field edges were kept")
	}
	if s.Lives != config.InitialLives {
		t.Fatal("escaped enemy cost a life")
	}
	if st.Player.X != 400-config.PlayerSpeed {
		t.Fatalf("player X = %v, want %v", st.Player.X, 400-config.PlayerSpeed)
	}
	if s.Tick != 1 {
		t.Fatalf("Tick = %d, want 1", s.Tick)
	}
}

func TestStepEnemiesFire(t *testing.T) {
	st := NewStore(DefaultScreen)
	st.AddEnemy(object.Enemy{X: 100, Y: 100, Size: config.EnemySize, HP: 1})
	st.AddEnemy(object.Enemy{X: 300, Y: 100, Size: config.EnemySize, HP: 1})

	env := testEnv(&audio.Recorder{})
	env.Rand = &scriptedRand{values: []float64{0.005, 0.5}, fallback: 0.99}
	Step(st, NewSession(), input.Input{}, env)

	eb := st.EnemyBullets()
	if len(eb) != 1 {
		t.Fatalf("got %d enemy bullets, want 1", len(eb))
	}
	if eb[0].X != 100 || eb[0].Y != 102 || eb[0].VY != config.EnemyBulletVelocity {
		t.Fatalf("enemy bullet = %+v", eb[0])
	}
}

func TestStepBossFires(t *testing.T) {
	if config.BossBulletVelocity <= config.EnemyBulletVelocity {
		t.Fatalf("boss bullets (%v) should fall faster than enemy bullets (%v)",
			config.BossBulletVelocity, config.EnemyBulletVelocity)
	}
	for _, tc := range []struct {
		roll float64
		want int
	}{
		{0.01, 1},
		{0.5, 0},
	} {
		st := NewStore(DefaultScreen)
		st.SetBoss(object.NewBoss(DefaultScreen))

		env := testEnv(&audio.Recorder{})
		// No enemies, so the boss roll is the first draw.
		env.Rand = &scriptedRand{values: []float64{tc.roll}, fallback: 0.99}
		Step(st, NewSession(), input.Input{}, env)

		eb := st.EnemyBullets()
		if len(eb) != tc.want {
			t.Fatalf("roll %v: got %d enemy bullets, want %d", tc.roll, len(eb), tc.want)
		}
		if tc.want == 0 {
			continue
		}
		b := st.Boss()
		if eb[0].X != b.X+b.W/2 || eb[0].Y != b.Y || eb[0].VY != config.BossBulletVelocity {
			t.Fatalf("boss bullet = %+v, want (%v,%v) vy %v", eb[0], b.X+b.W/2, b.Y, config.BossBulletVelocity)
		}
		if eb[0].X != 403 || eb[0].Y != 60 {
			t.Fatalf("boss bullet at (%v,%v), want (403,60) after one patrol step", eb[0].X, eb[0].Y)
		}
	}
}

func TestStepInvariantsOverLongRun(t *testing.T) {
	g := NewGame(rand.New(rand.NewSource(7)), nil)
	prev := 0
	for i := 0; i < 3000 && !g.Over(); i++ {
		if i%42 == 0 {
			g.SpawnWave()
		}
		if i%24 == 0 {
			g.Fire()
		}
		g.Tick(input.Input{Left: i%200 < 100, Right: i%200 >= 100})

		s := g.Session()
		if s.Lives < 0 {
			t.Fatalf("tick %d: lives = %d", i, s.Lives)
		}
		if d := s.Score - prev; d < 0 || d%config.ScoreEnemy != 0 {
			t.Fatalf("tick %d: score moved by %d", i, d)
		}
		prev = s.Score
		if g.Store().Player.X < 0 || g.Store().Player.X > DefaultScreen.W() {
			t.Fatalf("tick %d: player X = %v", i, g.Store().Player.X)
		}
	}
}

func TestGameIsDeterministicForASeed(t *testing.T) {
	run := func() *Snapshot {
		g := NewGame(rand.New(rand.NewSource(42)), nil)
		for i := 0; i < 600; i++ {
			if i%42 == 0 {
				g.SpawnWave()
			}
			if i%24 == 0 {
				g.Fire()
			}
			g.Tick(input.Input{Right: i%90 < 45})
		}
		return g.Snapshot()
	}
	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two runs with the same seed diverged")
	}
}

func TestGameOverStopsTimers(t *testing.T) {
	g := NewGame(quietRand(), nil)
	g.session.Over = true

	g.SpawnWave()
	g.Fire()
	if len(g.Store().Enemies()) != 0 || len(g.Store().Bullets()) != 0 {
		t.Fatal("timers acted after game over")
	}

	g.Reset()
	if g.Over() || g.Session().Lives != config.InitialLives {
		t.Fatalf("session after reset = %+v", g.Session())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	g := NewGame(quietRand(), nil)
	g.Store().AddEnemy(object.NewEnemy(100))
	g.Store().SetBoss(object.NewBoss(DefaultScreen))
	g.session.Power.Grant(FlagShield)

	snap := g.Snapshot()
	if len(snap.Enemies) != 1 || snap.Boss == nil || !snap.Shield || snap.TripleShot {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Boss.HP != config.BossHP || snap.Lives != config.InitialLives {
		t.Fatalf("snapshot counters = %+v", snap)
	}

	g.Tick(input.Input{})
	if snap.Enemies[0].Y != config.EnemySpawnY {
		t.Fatal("snapshot changed after a tick")
	}
}
