package combat

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/burrowstrike/core/internal/core/ecs"
	"github.com/burrowstrike/core/internal/geom"
	"github.com/burrowstrike/core/internal/phase"
	"github.com/burrowstrike/core/internal/tunnel"
	"github.com/burrowstrike/core/internal/world"
)

// HandlerConfig tunes the swipe-to-dash attack.
type HandlerConfig struct {
	DashSpeed   float64
	DashDamage  int
	MinSwipe    float64
	SlashRadius float64
	HitRadius   float64
	CurveJitter float64
	Resolution  int
}

// Handler turns swipes into dashes. Enemy countdowns are paused before a dash
// starts and resumed after it lands; the charge is spent on landing.
type Handler struct {
	cfg      HandlerConfig
	orch     *Orchestrator
	player   *world.Player
	director phase.Director
	rng      *rand.Rand
	log      *zap.Logger

	pressing   bool
	pressStart geom.Vec

	dashing  bool
	path     tunnel.Path
	elapsed  time.Duration
	duration time.Duration
	hit      map[ecs.EntityID]struct{}
}

func NewHandler(cfg HandlerConfig, orch *Orchestrator, player *world.Player,
	director phase.Director, rng *rand.Rand, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if cfg.Resolution < 1 {
		cfg.Resolution = 12
	}
	if cfg.DashDamage <= 0 {
		cfg.DashDamage = 1
	}
	return &Handler{
		cfg:      cfg,
		orch:     orch,
		player:   player,
		director: director,
		rng:      rng,
		log:      log,
		hit:      make(map[ecs.EntityID]struct{}),
	}
}

func (h *Handler) Dashing() bool { return h.dashing }

func (h *Handler) GesturePressStarted(pos geom.Vec) {
	if !h.orch.Active() || h.director.InputLocked() || h.player.Underground() || h.dashing {
		return
	}
	h.pressing = true
	h.pressStart = pos
}

func (h *Handler) GesturePressEnded(pos geom.Vec) {
	if !h.pressing {
		return
	}
	h.pressing = false
	if !h.orch.Active() || h.dashing {
		return
	}
	swipe := pos.Sub(h.pressStart)
	length := swipe.Length()
	if length < h.cfg.MinSwipe || length == 0 {
		h.log.Debug("swipe too short", zap.Float64("length", length))
		return
	}
	dir := swipe.Mult(1 / length)
	from := h.player.Position()
	target := from.Add(dir.Mult(min(length, h.cfg.SlashRadius)))
	target.Y = max(target.Y, h.player.Ground())

	jitter := (h.rng.Float64()*2 - 1) * h.cfg.CurveJitter
	control := from.Lerp(target, 0.5).Add(dir.Perp().Mult(jitter))
	path, err := tunnel.BuildPath(from, control, target, h.cfg.Resolution)
	if err != nil {
		h.log.Warn("dash path rejected", zap.Error(err))
		return
	}
	h.startDash(path, from.Distance(target))
}

func (h *Handler) startDash(path tunnel.Path, distance float64) {
	h.director.SetInputLock(true)
	h.orch.PauseAllCountdowns()
	h.player.SetAnimation(world.AnimAttacking)

	h.dashing = true
	h.path = path
	h.elapsed = 0
	h.duration = 0
	if h.cfg.DashSpeed > 0 {
		h.duration = time.Duration(distance / h.cfg.DashSpeed * float64(time.Second))
	}
	clear(h.hit)
	h.log.Debug("dash", zap.Float64("distance", distance), zap.Duration("duration", h.duration))
}

// Update advances an in-flight dash.
func (h *Handler) Update(dt time.Duration) {
	if !h.dashing {
		return
	}
	h.elapsed += dt
	t := 1.0
	if h.duration > 0 {
		t = geom.Clamp01(float64(h.elapsed) / float64(h.duration))
	}
	prev := h.player.Position()
	pos := h.path.At(geom.EaseOutSine(t))
	h.player.Face(pos.Sub(prev))
	h.player.SetPosition(pos)

	for _, a := range h.orch.LiveEnemies() {
		if _, done := h.hit[a.ID()]; done {
			continue
		}
		if a.Position().Distance(pos) <= h.cfg.HitRadius {
			h.hit[a.ID()] = struct{}{}
			a.TakeDamage(h.cfg.DashDamage)
		}
	}
	if t >= 1 {
		h.finish()
	}
}

func (h *Handler) finish() {
	h.dashing = false
	h.orch.ResumeAllCountdowns()
	h.player.SetAnimation(world.AnimNone)
	h.director.SetInputLock(false)
	h.orch.UseCharge()
}

// Cancel drops a pending press and aborts an in-flight dash without spending
// a charge.
func (h *Handler) Cancel() {
	h.pressing = false
	if !h.dashing {
		return
	}
	h.dashing = false
	h.orch.ResumeAllCountdowns()
	h.player.SetAnimation(world.AnimNone)
	h.director.SetInputLock(false)
}
