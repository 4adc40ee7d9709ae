package main

import (
	"testing"
	"time"
)

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func TestSnakeRespawnsWithNewID(t *testing.T) {
	g := newTestGame()
	snake := g.Spawn(&Entity{Type: TypeSnake, X: 300, Y: 120})
	oldID := snake.ID

	snake.HP = 0
	g.update()

	if g.FindByID(oldID) != nil {
		t.Fatal("defeated snake should leave the store immediately")
	}

	if !waitFor(t, time.Second, func() bool { return g.EntityCount() == 1 }) {
		t.Fatal("snake never respawned")
	}

	// The same entity object returns, but under a fresh id: identity is not
	// preserved across a respawn cycle.
	if snake.ID == oldID {
		t.Errorf("respawned snake kept id %d, want a new one", oldID)
	}
	if snake.ID <= oldID {
		t.Errorf("respawn id %d should continue the counter past %d", snake.ID, oldID)
	}
	if snake.HP != RespawnHP {
		t.Errorf("respawn health %d, want %d", snake.HP, RespawnHP)
	}
	if snake.X != 300 || snake.Y != 120 {
		t.Errorf("respawn moved the snake to (%v, %v)", snake.X, snake.Y)
	}
}

func TestSpiderRespawnClearsAggro(t *testing.T) {
	g := newTestGame()
	spider := g.Spawn(&Entity{Type: TypeSpider, X: 10, Y: 10})
	spider.AggroTargetID = 42

	spider.HP = 0
	g.update()

	if !waitFor(t, time.Second, func() bool { return g.EntityCount() == 1 }) {
		t.Fatal("spider never respawned")
	}
	if spider.AggroTargetID != 0 {
		t.Errorf("respawned spider still has aggro target %d", spider.AggroTargetID)
	}
}

func TestBulletDoesNotRespawn(t *testing.T) {
	g := newTestGame()
	b := g.Spawn(&Entity{Type: TypeBullet, X: 10, Y: 10})
	b.HP = 0
	g.update()

	time.Sleep(50 * time.Millisecond)
	if g.EntityCount() != 0 {
		t.Error("only snakes and spiders respawn")
	}
}

func TestRespawnGuardedAfterStop(t *testing.T) {
	g := newTestGame()
	snake := g.Spawn(&Entity{Type: TypeSnake, X: 10, Y: 10})

	snake.HP = 0
	g.update()
	g.Stop()

	time.Sleep(50 * time.Millisecond)
	if g.EntityCount() != 0 {
		t.Error("respawn timer revived an entity into a stopped game")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	g := newTestGame()
	g.Stop()
	g.Stop() // second call must not panic on the closed channel
}
