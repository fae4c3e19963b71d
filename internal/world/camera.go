package world

import "github.com/burrowstrike/core/internal/geom"

// Camera is a fixed orthographic view used to project gesture positions.
// Screen y grows downward; world y grows upward.
type Camera struct {
	Center        geom.Vec
	ScreenWidth   float64
	ScreenHeight  float64
	PixelsPerUnit float64
}

func (c Camera) ppu() float64 {
	if c.PixelsPerUnit <= 0 {
		return 1
	}
	return c.PixelsPerUnit
}

// ScreenToWorld maps a screen pixel onto the world plane.
func (c Camera) ScreenToWorld(screen geom.Vec) geom.Vec {
	ppu := c.ppu()
	return geom.V(
		c.Center.X+(screen.X-c.ScreenWidth/2)/ppu,
		c.Center.Y+(c.ScreenHeight/2-screen.Y)/ppu,
	)
}

// WorldToScreen is the inverse of ScreenToWorld.
func (c Camera) WorldToScreen(p geom.Vec) geom.Vec {
	ppu := c.ppu()
	return geom.V(
		c.ScreenWidth/2+(p.X-c.Center.X)*ppu,
		c.ScreenHeight/2-(p.Y-c.Center.Y)*ppu,
	)
}

// View returns the visible world rectangle.
func (c Camera) View() geom.Bounds {
	ppu := c.ppu()
	hw, hh := c.ScreenWidth/2/ppu, c.ScreenHeight/2/ppu
	return geom.Bounds{
		MinX: c.Center.X - hw, MinY: c.Center.Y - hh,
		MaxX: c.Center.X + hw, MaxY: c.Center.Y + hh,
	}
}
