package tunnel

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/burrowstrike/core/internal/core/event"
	"github.com/burrowstrike/core/internal/geom"
	"github.com/burrowstrike/core/internal/phase"
	"github.com/burrowstrike/core/internal/world"
)

// Navigator accepts a finished path.
type Navigator interface {
	StartNavigation(path Path) error
}

// DrawerConfig shapes the curve a gesture can produce.
type DrawerConfig struct {
	StartZone     float64 // width of the start window centered on the player
	MaxCurveWidth float64
	MaxCurveDepth float64
	MinCurveDepth float64
	EdgePadding   float64
	Resolution    int
	View          geom.Bounds
}

// Drawer owns the Drawing phase. A press picks the start point, drags shape
// the curve and the release hands the path to the navigator.
type Drawer struct {
	cfg       DrawerConfig
	player    *world.Player
	director  phase.Director
	navigator Navigator
	bus       *event.Bus
	log       *zap.Logger

	drawing bool
	start   geom.Vec
	control geom.Vec
	end     geom.Vec
}

func NewDrawer(cfg DrawerConfig, player *world.Player, director phase.Director,
	navigator Navigator, bus *event.Bus, log *zap.Logger) *Drawer {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Resolution < 1 {
		cfg.Resolution = 20
	}
	return &Drawer{cfg: cfg, player: player, director: director, navigator: navigator, bus: bus, log: log}
}

func (d *Drawer) Drawing() bool { return d.drawing }

// Shape returns the current start, control and end points.
func (d *Drawer) Shape() (start, control, end geom.Vec) { return d.start, d.control, d.end }

func (d *Drawer) OnEnter()                 { d.drawing = false }
func (d *Drawer) OnUpdate(_ time.Duration) {}
func (d *Drawer) OnExit()                  { d.drawing = false }

func (d *Drawer) canDraw() bool {
	return d.director.Phase() == phase.Drawing &&
		!d.player.Underground() &&
		!d.player.Animating() &&
		!d.director.InputLocked()
}

func (d *Drawer) GesturePressStarted(pos geom.Vec) {
	if !d.canDraw() {
		d.log.Warn("cannot start drawing",
			zap.Bool("underground", d.player.Underground()),
			zap.Stringer("anim", d.player.Animation()),
			zap.Bool("locked", d.director.InputLocked()),
		)
		return
	}
	px := d.player.Position().X
	half := d.cfg.StartZone / 2
	d.start = geom.V(geom.Clamp(pos.X, px-half, px+half), d.player.Ground())
	d.drawing = true
	d.reshape(pos)
}

func (d *Drawer) GestureDragged(pos geom.Vec) {
	if !d.drawing {
		return
	}
	d.reshape(pos)
	preview, err := BuildPath(d.start, d.control, d.end, d.cfg.Resolution)
	if err != nil {
		return
	}
	deepest, _ := preview.Deepest()
	event.Emit(d.bus, event.TunnelPreview{
		Depth:    d.player.Ground() - deepest.Y,
		Distance: math.Abs(deepest.X - d.start.X),
	})
}

func (d *Drawer) GesturePressEnded(pos geom.Vec) {
	if !d.drawing {
		return
	}
	d.drawing = false
	d.reshape(pos)

	path, err := BuildPath(d.start, d.control, d.end, d.cfg.Resolution)
	if err != nil {
		d.log.Warn("tunnel rejected", zap.Error(err))
		return
	}
	d.director.SetInputLock(true)
	if err := d.navigator.StartNavigation(path); err != nil {
		d.director.SetInputLock(false)
		d.log.Warn("tunnel rejected", zap.Error(err))
		return
	}
	d.log.Info("tunnel finalized",
		zap.Float64("start_x", d.start.X),
		zap.Float64("end_x", d.end.X),
		zap.Float64("control_y", d.control.Y),
	)
	d.director.SetPhase(phase.Navigating)
}

// reshape derives the end and control points from the pointer position.
func (d *Drawer) reshape(pos geom.Vec) {
	ground := d.player.Ground()
	dx := geom.Clamp(pos.X-d.start.X, -d.cfg.MaxCurveWidth, d.cfg.MaxCurveWidth)
	endX := d.start.X + dx
	if v := d.cfg.View; v.MaxX > v.MinX {
		endX = geom.Clamp(endX, v.MinX+d.cfg.EdgePadding, v.MaxX-d.cfg.EdgePadding)
	}
	d.end = geom.V(endX, ground)

	dy := geom.Clamp(pos.Y-ground, -d.cfg.MaxCurveDepth, 0)
	if math.Abs(dy) < d.cfg.MinCurveDepth {
		dy = -d.cfg.MinCurveDepth
	}
	d.control = geom.V((d.start.X+d.end.X)/2, ground+dy)
}
