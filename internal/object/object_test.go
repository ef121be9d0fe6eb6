package object

import (
	"math"
	"testing"

	"github.com/tomz197/starfall/internal/loop/config"
)

var testScreen = Screen{Width: config.CanvasWidth, Height: config.CanvasHeight}

func TestPlayerMoveClampsX(t *testing.T) {
	p := NewPlayer(testScreen)
	if p.X != 400 || p.Y != 520 {
		t.Fatalf("NewPlayer at (%v,%v), want (400,520)", p.X, p.Y)
	}

	p.X = 3
	p.Move(Input{Left: true}, testScreen)
	if p.X != 0 {
		t.Fatalf("X after moving left past edge = %v, want 0", p.X)
	}

	p.X = 797
	p.Move(Input{Right: true}, testScreen)
	if p.X != 800 {
		t.Fatalf("X after moving right past edge = %v, want 800", p.X)
	}

	p.X = 100
	p.Move(Input{Left: true, Right: true}, testScreen)
	if p.X != 100 {
		t.Fatalf("X with both keys held = %v, want 100", p.X)
	}
	if p.Y != 520 {
		t.Fatalf("Y changed to %v, want 520", p.Y)
	}
}

func TestPlayerMoveRecoversFromNaN(t *testing.T) {
	p := NewPlayer(testScreen)
	p.X = math.NaN()
	p.Move(Input{}, testScreen)
	if p.X != 400 {
		t.Fatalf("X after NaN = %v, want 400", p.X)
	}
}

func TestProjectileBounds(t *testing.T) {
	b := NewProjectile(10, 8, config.BulletVelocity)
	b.Advance()
	if b.Y != 0 || !b.AboveTop() {
		t.Fatalf("player bullet at y=%v should be above the top", b.Y)
	}

	e := NewProjectile(10, 596, config.EnemyBulletVelocity)
	e.Advance()
	if !e.BelowBottom(testScreen) {
		t.Fatalf("enemy bullet at y=%v should be below the bottom", e.Y)
	}
}

func TestBossPatrolReflects(t *testing.T) {
	b := NewBoss(testScreen)
	if b.X != 340 || b.Dir != 1 || b.HP != config.BossHP {
		t.Fatalf("NewBoss = %+v, want centered, moving right, full hp", b)
	}

	b.X = testScreen.W() - b.W - 1
	b.Patrol(testScreen)
	if b.Dir != -1 {
		t.Fatalf("Dir after hitting right edge = %v, want -1", b.Dir)
	}
	if b.X+b.W > testScreen.W() {
		t.Fatalf("boss right edge %v beyond field", b.X+b.W)
	}

	b.X = 1
	b.Patrol(testScreen)
	if b.Dir != 1 || b.X != 0 {
		t.Fatalf("after hitting left edge: X=%v Dir=%v, want X=0 Dir=1", b.X, b.Dir)
	}
}

func TestBossHit(t *testing.T) {
	b := NewBoss(testScreen)
	b.HP = 2
	if b.Hit() {
		t.Fatal("boss with 2 hp should survive one hit")
	}
	if !b.Hit() {
		t.Fatal("boss should be destroyed on its last hit point")
	}
	if b.HP != 0 {
		t.Fatalf("HP = %d, want 0", b.HP)
	}
}

func TestEnemyAdvanceAndEscape(t *testing.T) {
	e := NewEnemy(50)
	if e.Y != config.EnemySpawnY || e.HP != 1 {
		t.Fatalf("NewEnemy = %+v", e)
	}
	e.Y = 598
	e.Advance()
	if !e.Escaped(testScreen) {
		t.Fatalf("enemy at y=%v should have escaped", e.Y)
	}
	box := e.Box()
	if !box.Contains(60, 610) {
		t.Fatal("box should contain a point inside it")
	}
}

func TestPowerKindText(t *testing.T) {
	text, err := PowerShield.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(text) != "shield" {
		t.Fatalf("MarshalText = %q, want shield", text)
	}
	if PowerTripleShot.String() != "triple" {
		t.Fatalf("String = %q, want triple", PowerTripleShot.String())
	}

	var k PowerKind
	if err := k.UnmarshalText([]byte("triple")); err != nil || k != PowerTripleShot {
		t.Fatalf("UnmarshalText(triple) = %v, %v", k, err)
	}
	if err := k.UnmarshalText([]byte("laser")); err == nil {
		t.Fatal("unknown kind should fail")
	}
}
