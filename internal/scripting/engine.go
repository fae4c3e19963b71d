// Package scripting hosts the Lua VM that runs enemy attack scripts.
package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/burrowstrike/core/internal/enemy"
	"github.com/burrowstrike/core/internal/geom"
)

// APIVersion is exposed to scripts as API_VERSION.
const APIVersion = 1

// Script directories loaded in order. Missing directories are skipped.
var scriptDirs = []string{"common", "attack"}

// Engine wraps a single gopher-lua VM.
// Single-goroutine access only (game loop). Reload swaps the VM in place.
type Engine struct {
	dir string
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts under scriptsDir.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{dir: scriptsDir, log: log}
	vm, err := e.newState()
	if err != nil {
		return nil, err
	}
	e.vm = vm
	return e, nil
}

func (e *Engine) newState() (*lua.LState, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))
	vm.SetGlobal("aim", vm.NewFunction(luaAim))

	for _, sub := range scriptDirs {
		p := filepath.Join(e.dir, sub)
		if err := e.loadDir(vm, p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return vm, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(vm *lua.LState, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Reload rebuilds the VM from disk. On error the running VM is kept.
func (e *Engine) Reload() error {
	vm, err := e.newState()
	if err != nil {
		return err
	}
	old := e.vm
	e.vm = vm
	old.Close()
	e.log.Info("lua scripts reloaded", zap.String("dir", e.dir))
	return nil
}

// Has reports whether a global Lua function named fn exists.
func (e *Engine) Has(fn string) bool {
	_, ok := e.vm.GetGlobal(fn).(*lua.LFunction)
	return ok
}

// RunAttack calls the Lua function fn with the attack context and decodes
// the list of commands it returns. A nil return means no commands.
func (e *Engine) RunAttack(fn string, ctx enemy.AttackContext) ([]enemy.Command, error) {
	f, ok := e.vm.GetGlobal(fn).(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("lua function %s not found", fn)
	}

	t := e.vm.NewTable()
	t.RawSetString("enemy_id", lua.LNumber(ctx.EnemyID))
	t.RawSetString("x", lua.LNumber(ctx.Position.X))
	t.RawSetString("y", lua.LNumber(ctx.Position.Y))
	t.RawSetString("health", lua.LNumber(ctx.Health))
	t.RawSetString("max_health", lua.LNumber(ctx.MaxHealth))
	t.RawSetString("has_target", lua.LBool(ctx.HasTarget))
	if ctx.HasTarget {
		tgt := e.vm.NewTable()
		tgt.RawSetString("x", lua.LNumber(ctx.Target.X))
		tgt.RawSetString("y", lua.LNumber(ctx.Target.Y))
		t.RawSetString("target", tgt)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		return nil, fmt.Errorf("lua %s: %w", fn, err)
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)

	if result == lua.LNil {
		return nil, nil
	}
	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("lua %s returned %s, want table", fn, result.Type())
	}

	var cmds []enemy.Command
	var decodeErr error
	rt.ForEach(func(_, v lua.LValue) {
		if decodeErr != nil {
			return
		}
		ct, ok := v.(*lua.LTable)
		if !ok {
			decodeErr = fmt.Errorf("lua %s: command is %s, want table", fn, v.Type())
			return
		}
		cmd, err := decodeCommand(ct)
		if err != nil {
			decodeErr = fmt.Errorf("lua %s: %w", fn, err)
			return
		}
		cmds = append(cmds, cmd)
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return cmds, nil
}

func decodeCommand(t *lua.LTable) (enemy.Command, error) {
	kind := enemy.CommandKind(lua.LVAsString(t.RawGetString("kind")))
	cmd := enemy.Command{Kind: kind}
	switch kind {
	case enemy.CmdAnimation:
		cmd.Anim = lua.LVAsString(t.RawGetString("anim"))
		if cmd.Anim == "" {
			return cmd, fmt.Errorf("animation command without anim")
		}
	case enemy.CmdProjectile:
		cmd.Velocity = geom.V(
			float64(lua.LVAsNumber(t.RawGetString("vx"))),
			float64(lua.LVAsNumber(t.RawGetString("vy"))),
		)
	case enemy.CmdSelfDestruct, enemy.CmdIdle:
	default:
		return cmd, fmt.Errorf("unknown command kind %q", kind)
	}
	return cmd, nil
}

// luaAim(x, y, tx, ty, speed) returns the velocity from (x, y) toward
// (tx, ty) at speed. A zero-length aim returns (0, 0).
func luaAim(L *lua.LState) int {
	x, y := float64(L.CheckNumber(1)), float64(L.CheckNumber(2))
	tx, ty := float64(L.CheckNumber(3)), float64(L.CheckNumber(4))
	speed := float64(L.CheckNumber(5))
	dx, dy := tx-x, ty-y
	l := math.Hypot(dx, dy)
	if l == 0 {
		L.Push(lua.LNumber(0))
		L.Push(lua.LNumber(0))
		return 2
	}
	L.Push(lua.LNumber(dx / l * speed))
	L.Push(lua.LNumber(dy / l * speed))
	return 2
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
