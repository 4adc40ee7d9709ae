package main

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hands
const (
	HandRock     = "rock"
	HandPaper    = "paper"
	HandScissors = "scissors"
)

// beats maps each hand to the hand it defeats
var beats = map[string]string{
	HandRock:     HandScissors,
	HandPaper:    HandRock,
	HandScissors: HandPaper,
}

// RPSPlayer is one connected rock-paper-scissors client, either waiting in
// the lobby or bound to a match.
type RPSPlayer struct {
	client Broadcaster
	match  *rpsMatch
	hand   string
}

type rpsMatch struct {
	id   string
	a, b *RPSPlayer
}

func (m *rpsMatch) opponent(p *RPSPlayer) *RPSPlayer {
	if m.a == p {
		return m.b
	}
	return m.a
}

// Matchmaker pairs rock-paper-scissors players two at a time. One waiting
// slot is enough: the first client parks there, the second completes a
// match. Finished players drop straight back into the lobby.
type Matchmaker struct {
	mu      sync.Mutex
	waiting *RPSPlayer
	store   Store
}

// NewMatchmaker creates a Matchmaker persisting its counter through store
func NewMatchmaker(store Store) *Matchmaker {
	return &Matchmaker{store: store}
}

// Join enters a client into the lobby, starting a match when a peer is
// already waiting
func (mm *Matchmaker) Join(client Broadcaster) *RPSPlayer {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	p := &RPSPlayer{client: client}
	mm.join(p)
	return p
}

func (mm *Matchmaker) join(p *RPSPlayer) {
	p.match = nil
	p.hand = ""

	if mm.waiting == nil {
		mm.waiting = p
		return
	}

	opp := mm.waiting
	mm.waiting = nil

	match := &rpsMatch{id: uuid.NewString(), a: opp, b: p}
	opp.match = match
	p.match = match

	opp.client.SendJSON(Envelope{T: MsgStart, Data: StartMsg{MatchID: match.id}})
	p.client.SendJSON(Envelope{T: MsgStart, Data: StartMsg{MatchID: match.id}})
}

// Guess records one player's hand and resolves the match once both are in.
// Invalid hands and guesses outside a match are ignored; only the first
// guess per round counts.
func (mm *Matchmaker) Guess(p *RPSPlayer, hand string) {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if hand != HandRock && hand != HandPaper && hand != HandScissors {
		return
	}
	if p.match == nil || p.hand != "" {
		return
	}
	p.hand = hand

	opp := p.match.opponent(p)
	if opp.hand == "" {
		return
	}
	mm.resolve(p, opp)
}

func (mm *Matchmaker) resolve(a, b *RPSPlayer) {
	switch {
	case a.hand == b.hand:
		a.client.SendJSON(Envelope{T: MsgDraw, Data: ResultMsg{You: a.hand, Opponent: b.hand}})
		b.client.SendJSON(Envelope{T: MsgDraw, Data: ResultMsg{You: b.hand, Opponent: a.hand}})
	case beats[a.hand] == b.hand:
		a.client.SendJSON(Envelope{T: MsgWin, Data: ResultMsg{You: a.hand, Opponent: b.hand}})
		b.client.SendJSON(Envelope{T: MsgLose, Data: ResultMsg{You: b.hand, Opponent: a.hand}})
	default:
		a.client.SendJSON(Envelope{T: MsgLose, Data: ResultMsg{You: a.hand, Opponent: b.hand}})
		b.client.SendJSON(Envelope{T: MsgWin, Data: ResultMsg{You: b.hand, Opponent: a.hand}})
	}

	if _, err := mm.store.Increment(KeyGamesPlayed, 1); err != nil {
		log.Printf("games played counter error: %v", err)
	}

	a.client.SendJSON(Envelope{T: MsgEnd})
	b.client.SendJSON(Envelope{T: MsgEnd})

	// Straight back into the lobby; a lone pair re-matches immediately
	mm.join(a)
	mm.join(b)
}

// Leave drops a player from the lobby or their match. A deserted opponent
// gets an end message and returns to the lobby.
func (mm *Matchmaker) Leave(p *RPSPlayer) {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if mm.waiting == p {
		mm.waiting = nil
		return
	}
	if p.match == nil {
		return
	}

	opp := p.match.opponent(p)
	p.match = nil
	opp.client.SendJSON(Envelope{T: MsgEnd})
	mm.join(opp)
}

// WaitingCount reports whether the lobby holds a parked player
func (mm *Matchmaker) WaitingCount() int {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if mm.waiting != nil {
		return 1
	}
	return 0
}
