package main

// stepBullet advances a bullet by its velocity and applies contact damage.
// Damage lands on EVERY qualifying entity found this tick, not just the
// first; a bullet passing between two adjacent targets hurts both. The
// owner (ParentID) is immune regardless of distance. Bullets burn one point
// of health per tick, so they expire on their own even without a hit.
func (g *Game) stepBullet(b *Entity) {
	b.X += b.DX
	b.Y += b.DY

	for _, other := range g.entities {
		if other.ID == b.ID || other.ID == b.ParentID {
			continue
		}
		if Distance(b.X, b.Y, other.X, other.Y) < BulletHitRange {
			b.HP = 0
			other.HP -= BulletDamage
		}
	}

	b.HP--
}

// stepSpider either pursues its current aggro target or tries to acquire
// one. Pursuit steps one unit per axis toward the target, sign of the delta
// only, no diagonal normalization. A vanished target clears the aggro and
// the spider holds position for the rest of the tick.
func (g *Game) stepSpider(s *Entity) {
	if s.AggroTargetID != 0 {
		target := g.findByID(s.AggroTargetID)
		if target == nil {
			s.AggroTargetID = 0
			return
		}
		s.X += sign(target.X - s.X)
		s.Y += sign(target.Y - s.Y)
		return
	}

	// Acquire the nearest player strictly inside aggro range. Strict
	// less-than means the first store-order entity wins distance ties.
	var best *Entity
	bestDist := SpiderAggroRange
	for _, e := range g.entities {
		if e.Type != TypePlayer || e.ID == s.ID {
			continue
		}
		if d := Distance(s.X, s.Y, e.X, e.Y); d < bestDist {
			bestDist = d
			best = e
		}
	}
	if best != nil {
		s.AggroTargetID = best.ID
	}
}
