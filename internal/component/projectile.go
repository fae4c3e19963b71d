package component

import (
	"time"

	"github.com/burrowstrike/core/internal/core/ecs"
	"github.com/burrowstrike/core/internal/geom"
)

// Body is a moving point in world units.
// Pure data, zero methods. Systems do the integration.
type Body struct {
	Pos geom.Vec
	Vel geom.Vec // units per second
}

// Projectile marks an entity as an enemy shot.
type Projectile struct {
	Owner ecs.EntityID
	Life  time.Duration // remaining
}
