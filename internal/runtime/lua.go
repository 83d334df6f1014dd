package runtime

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// LuaRuntime loads *.lua plugin scripts. A script must define a global
// register() function returning a table with a string "name" and a
// function "fn".
type LuaRuntime struct{}

// NewLua returns the Lua runtime.
func NewLua() *LuaRuntime { return &LuaRuntime{} }

func (r *LuaRuntime) Name() string { return RuntimeLua }

func (r *LuaRuntime) Matches(fileName string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ".lua")
}

// Load runs the script in a fresh sandboxed state and calls register().
// The state is closed on any failure.
func (r *LuaRuntime) Load(ctx context.Context, path string) (Plugin, error) {
	L := newSandbox()
	L.SetContext(ctx)

	p, err := register(L, path)
	L.RemoveContext()
	if err != nil {
		L.Close()
		return nil, err
	}
	return p, nil
}

func register(L *lua.LState, path string) (*luaPlugin, error) {
	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("executing %s: %w", filepath.Base(path), err)
	}

	entry := L.GetGlobal("register")
	if entry.Type() != lua.LTFunction {
		return nil, fmt.Errorf("%w: no register() function", ErrInvalidPlugin)
	}
	if err := L.CallByParam(lua.P{Fn: entry, NRet: 1, Protect: true}); err != nil {
		return nil, fmt.Errorf("calling register(): %w", err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: register() returned %s, want table", ErrInvalidPlugin, ret.Type())
	}
	name, ok := tbl.RawGetString("name").(lua.LString)
	if !ok || strings.TrimSpace(string(name)) == "" {
		return nil, fmt.Errorf("%w: register() table has no string name", ErrInvalidPlugin)
	}
	fn, ok := tbl.RawGetString("fn").(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("%w: plugin %q has no fn function", ErrInvalidPlugin, string(name))
	}

	return &luaPlugin{name: string(name), state: L, fn: fn}, nil
}

// newSandbox opens only the base, table, string and math libraries and
// removes the base functions that reach the filesystem.
func newSandbox() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

type luaPlugin struct {
	name string

	mu    sync.Mutex
	state *lua.LState
	fn    *lua.LFunction
}

func (p *luaPlugin) Name() string { return p.name }

func (p *luaPlugin) Invoke(ctx context.Context, args ...any) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == nil {
		return nil, fmt.Errorf("plugin %q is closed", p.name)
	}

	largs := make([]lua.LValue, 0, len(args))
	for i, a := range args {
		v, err := toLua(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		largs = append(largs, v)
	}

	L := p.state
	L.SetContext(ctx)
	defer L.RemoveContext()

	if err := L.CallByParam(lua.P{Fn: p.fn, NRet: 1, Protect: true}, largs...); err != nil {
		return nil, fmt.Errorf("plugin %q: %w", p.name, err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	return fromLua(ret)
}

func (p *luaPlugin) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != nil {
		p.state.Close()
		p.state = nil
	}
	return nil
}

func toLua(v any) (lua.LValue, error) {
	switch x := v.(type) {
	case nil:
		return lua.LNil, nil
	case float64:
		return lua.LNumber(x), nil
	case int:
		return lua.LNumber(x), nil
	case string:
		return lua.LString(x), nil
	case bool:
		return lua.LBool(x), nil
	default:
		return nil, fmt.Errorf("unsupported argument type %T", v)
	}
}

func fromLua(v lua.LValue) (any, error) {
	switch x := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LNumber:
		return float64(x), nil
	case lua.LString:
		return string(x), nil
	case lua.LBool:
		return bool(x), nil
	default:
		return nil, fmt.Errorf("unsupported result type %s", v.Type())
	}
}
