package main

import "encoding/json"

// Game message types (both directions use "update")
const (
	MsgUpdate = "update"
)

// Rock-paper-scissors message types
const (
	MsgStart = "start"
	MsgGuess = "guess"
	MsgWin   = "win"
	MsgLose  = "lose"
	MsgDraw  = "draw"
	MsgEnd   = "end"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// UpdateMsg is a client position report, optionally carrying game events
// (spawned bullets, chat messages). X and Y are pointers so a missing field
// is distinguishable from zero; a payload without both is discarded.
type UpdateMsg struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	DX     float64  `json:"dx"`
	DY     float64  `json:"dy"`
	Events []Entity `json:"events"`
}

// GameState is the full snapshot pushed to one session: every live entity,
// that session's queued events, and its own player id.
type GameState struct {
	Entities        []Entity `json:"entities" msgpack:"entities"`
	Events          []Entity `json:"events" msgpack:"events"`
	CurrentEntityID int64    `json:"currentEntityId" msgpack:"currentEntityId"`
}

// StartMsg opens a rock-paper-scissors match
type StartMsg struct {
	MatchID string `json:"mid"`
}

// GuessMsg carries one player's hand
type GuessMsg struct {
	Hand string `json:"hand"` // rock, paper or scissors
}

// ResultMsg accompanies win/lose/draw
type ResultMsg struct {
	You      string `json:"you"`
	Opponent string `json:"opponent"`
}
