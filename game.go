package main

import (
	"sync"
	"time"
)

const (
	DefaultTickRate     = 30 // simulation ticks per second
	DefaultRespawnDelay = 10 * time.Second
)

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game holds the entity store and the session registry. A single mutex
// serializes the ticker loop and the per-message handlers, so neither ever
// observes the other's partial writes.
type Game struct {
	mu       sync.Mutex
	entities []*Entity
	nextID   int64
	sessions []*Session
	tick     uint64
	stopped  bool
	stop     chan struct{}

	tickRate     int
	respawnDelay time.Duration
}

// NewGame creates a new Game. Entity ids start at 1 and only ever increase.
func NewGame(tickRate int, respawnDelay time.Duration) *Game {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	if respawnDelay <= 0 {
		respawnDelay = DefaultRespawnDelay
	}
	return &Game{
		nextID:       1,
		stop:         make(chan struct{}),
		tickRate:     tickRate,
		respawnDelay: respawnDelay,
	}
}

// Run drives the simulation at the configured tick rate until Stop is called.
func (g *Game) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop and tears down the store. Pending respawn
// timers that fire afterwards become no-ops.
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.stopped {
		g.stopped = true
		close(g.stop)
	}
}

// Spawn assigns the next id, defaults health to 100 when unset, and appends
// the entity to the store.
func (g *Game) Spawn(e *Entity) *Entity {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.spawn(e)
}

func (g *Game) spawn(e *Entity) *Entity {
	e.ID = g.nextID
	g.nextID++
	if e.HP <= 0 {
		e.HP = DefaultHP
	}
	g.entities = append(g.entities, e)
	return e
}

// Remove deletes the first identity match from the store. Removing an entity
// that is already gone is a no-op, so disconnect races are safe.
func (g *Game) Remove(e *Entity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.remove(e)
}

func (g *Game) remove(e *Entity) {
	for i, cur := range g.entities {
		if cur == e {
			g.entities = append(g.entities[:i], g.entities[i+1:]...)
			return
		}
	}
}

// FindByID scans the store for an entity. Returns nil when absent.
func (g *Game) FindByID(id int64) *Entity {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.findByID(id)
}

func (g *Game) findByID(id int64) *Entity {
	for _, e := range g.entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// EntityCount returns the number of live entities.
func (g *Game) EntityCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entities)
}

// Seed populates the world with creatures so AI and respawn have subjects.
// Positions fan out on a fixed grid away from the player spawn point.
func (g *Game) Seed(snakes, spiders int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := 0; i < snakes; i++ {
		g.spawn(&Entity{Type: TypeSnake, X: 200 + float64(i)*80, Y: 200})
	}
	for i := 0; i < spiders; i++ {
		g.spawn(&Entity{Type: TypeSpider, X: 200 + float64(i)*80, Y: 400})
	}
}

// update runs one simulation tick: AI pass in insertion order, then the reap
// pass in reverse index order so in-place removal is safe.
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tick++

	for _, e := range g.entities {
		switch e.Type {
		case TypeBullet:
			g.stepBullet(e)
		case TypeSpider:
			g.stepSpider(e)
		}
	}

	for i := len(g.entities) - 1; i >= 0; i-- {
		e := g.entities[i]
		if e.HP > 0 {
			continue
		}
		g.entities = append(g.entities[:i], g.entities[i+1:]...)
		if e.Type == TypeSnake || e.Type == TypeSpider {
			g.scheduleRespawn(e)
		}
	}
}

// scheduleRespawn re-inserts a defeated creature after the respawn delay.
// The same entity object returns with health reset and aggro cleared, but
// Spawn hands it a new id: identity is not preserved across a respawn cycle.
func (g *Game) scheduleRespawn(e *Entity) {
	time.AfterFunc(g.respawnDelay, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.stopped {
			return
		}
		e.HP = RespawnHP
		e.AggroTargetID = 0
		g.spawn(e)
	})
}
