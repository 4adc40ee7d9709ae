package main

// Entity types
const (
	TypePlayer  = "player"
	TypeBullet  = "bullet"
	TypeDamage  = "damage"
	TypeSnake   = "snake"
	TypeSpider  = "spider"
	TypeMessage = "message"
)

const (
	DefaultHP        = 100  // assigned at spawn when no health was set
	RespawnHP        = 20   // health a creature comes back with
	BulletHitRange   = 8.0  // units
	BulletDamage     = 10
	SpiderAggroRange = 40.0 // units
	PlayerSpawnX     = 50.0
	PlayerSpawnY     = 50.0
)

// Entity is any simulated object tracked by the store: players, bullets,
// creatures and chat message markers all share this shape. It doubles as the
// wire representation for both state snapshots and client-submitted events.
type Entity struct {
	ID            int64   `json:"id" msgpack:"id"`
	Type          string  `json:"type" msgpack:"type"`
	X             float64 `json:"x" msgpack:"x"`
	Y             float64 `json:"y" msgpack:"y"`
	DX            float64 `json:"dx,omitempty" msgpack:"dx,omitempty"`
	DY            float64 `json:"dy,omitempty" msgpack:"dy,omitempty"`
	HP            int     `json:"health,omitempty" msgpack:"health,omitempty"`
	ParentID      int64   `json:"parentId,omitempty" msgpack:"parentId,omitempty"`
	AggroTargetID int64   `json:"aggroTargetId,omitempty" msgpack:"aggroTargetId,omitempty"`
	Text          string  `json:"text,omitempty" msgpack:"text,omitempty"`
}
