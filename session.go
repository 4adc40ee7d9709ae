package main

import (
	"log"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Session is one connected client's server-side state, bound to exactly one
// player entity while connected. Events queued here drain on the session's
// next broadcast.
type Session struct {
	ID       string
	client   Broadcaster
	playerID int64
	events   []Entity
	binary   bool // msgpack snapshots instead of JSON
}

// Connect spawns a player entity at the default position, registers a
// session for the client and pushes the initial snapshot.
func (g *Game) Connect(client Broadcaster, binary bool) *Session {
	g.mu.Lock()
	defer g.mu.Unlock()

	player := g.spawn(&Entity{Type: TypePlayer, X: PlayerSpawnX, Y: PlayerSpawnY})
	sess := &Session{
		ID:       uuid.NewString(),
		client:   client,
		playerID: player.ID,
		binary:   binary,
	}
	g.sessions = append(g.sessions, sess)
	g.broadcast(sess)
	return sess
}

// Disconnect unregisters the session and removes its player entity. Both
// halves are no-ops when already gone, so racing teardown paths are safe.
func (g *Game) Disconnect(sess *Session) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, s := range g.sessions {
		if s == sess {
			g.sessions = append(g.sessions[:i], g.sessions[i+1:]...)
			break
		}
	}
	if player := g.findByID(sess.playerID); player != nil {
		g.remove(player)
	}
}

// SessionCount returns the number of registered sessions.
func (g *Game) SessionCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}

// HandleUpdate processes one inbound position report. A payload missing
// numeric x or y is silently dropped — no state change, no broadcast.
// Carried events are stamped with the sender's player id before dispatch:
// bullets enter the entity store, chat messages fan out to every session's
// queue including the sender's. The originating session always gets an
// immediate snapshot afterwards.
func (g *Game) HandleUpdate(sess *Session, msg UpdateMsg) {
	if msg.X == nil || msg.Y == nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if player := g.findByID(sess.playerID); player != nil {
		player.X = *msg.X
		player.Y = *msg.Y
		player.DX = msg.DX
		player.DY = msg.DY
	}

	for _, ev := range msg.Events {
		ev.ParentID = sess.playerID
		switch ev.Type {
		case TypeBullet:
			bullet := ev
			g.spawn(&bullet)
		case TypeMessage:
			for _, s := range g.sessions {
				s.events = append(s.events, ev)
			}
		}
	}

	g.broadcast(sess)
}

// broadcast sends the current snapshot to one session and clears its event
// queue. Only connect and inbound updates trigger this; the simulation tick
// never pushes state on its own.
func (g *Game) broadcast(sess *Session) {
	state := GameState{
		Entities:        make([]Entity, 0, len(g.entities)),
		Events:          append([]Entity{}, sess.events...),
		CurrentEntityID: sess.playerID,
	}
	for _, e := range g.entities {
		state.Entities = append(state.Entities, *e)
	}
	sess.events = nil

	if sess.binary {
		data, err := msgpack.Marshal(state)
		if err != nil {
			log.Printf("msgpack marshal error: %v", err)
			return
		}
		sess.client.SendBinary(data)
		return
	}
	sess.client.SendJSON(Envelope{T: MsgUpdate, Data: state})
}
