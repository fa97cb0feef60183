package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM holding the steering functions.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file in dir. A
// missing directory is not an error; templates that name a script then
// simply drift.
func NewEngine(dir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(dir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load steering scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
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
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasFunction reports whether a global Lua function with the given name
// exists, so callers can warn once at spawn time instead of every tick.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// SteerContext holds the pre-packed state passed to a steering function.
type SteerContext struct {
	X, Y          float64
	Heading       float64 // radians
	Speed         float64
	HP, MaxHP     int
	Width, Height float64 // arena bounds
	Tick          uint64
	Dt            float64 // seconds
}

// SteerResult carries the new motion. Fields the script leaves out keep
// the actor's current values.
type SteerResult struct {
	Heading float64
	Speed   float64
}

// Steer calls the named Lua steering function with ctx and unpacks the
// returned table. The second return is false when the function is
// missing, fails, or returns a non-table; callers keep the current
// motion in that case.
func (e *Engine) Steer(name string, ctx SteerContext) (SteerResult, bool) {
	out := SteerResult{Heading: ctx.Heading, Speed: ctx.Speed}

	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return out, false
	}

	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("heading", lua.LNumber(ctx.Heading))
	t.RawSetString("speed", lua.LNumber(ctx.Speed))
	t.RawSetString("hp", lua.LNumber(ctx.HP))
	t.RawSetString("max_hp", lua.LNumber(ctx.MaxHP))
	t.RawSetString("width", lua.LNumber(ctx.Width))
	t.RawSetString("height", lua.LNumber(ctx.Height))
	t.RawSetString("tick", lua.LNumber(ctx.Tick))
	t.RawSetString("dt", lua.LNumber(ctx.Dt))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua steering error", zap.String("func", name), zap.Error(err))
		return out, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua steering returned non-table", zap.String("func", name))
		return out, false
	}

	if v := rt.RawGetString("heading"); v != lua.LNil {
		out.Heading = float64(lua.LVAsNumber(v))
	}
	if v := rt.RawGetString("speed"); v != lua.LNil {
		out.Speed = float64(lua.LVAsNumber(v))
	}
	return out, true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
