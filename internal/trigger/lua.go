package trigger

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Lua predicate errors.
var (
	// ErrNoPredicate indicates the script does not define the predicate
	// function.
	ErrNoPredicate = errors.New("lua script does not define " + luaPredicateFunc)
	// ErrPredicateClosed indicates the Lua state has been released.
	ErrPredicateClosed = errors.New("lua predicate closed")
)

// luaPredicateFunc is the global function a predicate script must define.
const luaPredicateFunc = "is_trigger_command"

// Globals removed before running predicate scripts. Scripts classify
// command names; they have no business loading code or touching the
// filesystem.
var luaUnsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring", "io", "os"}

// LuaPredicate answers IsTriggerCommand from a user script. The script
// runs once at construction and must leave a global function
//
//	function is_trigger_command(name)
//	    return name == "self-insert" or name:find("^electric%-") ~= nil
//	end
//
// whose return value is taken as a Lua boolean. The state is serialized
// behind a mutex; gopher-lua states are not safe for concurrent use.
type LuaPredicate struct {
	mu    sync.Mutex
	state *lua.LState
	fn    lua.LValue
}

// NewLuaPredicate compiles source and resolves the predicate function.
// The caller owns the returned predicate and must Close it.
func NewLuaPredicate(source string) (*LuaPredicate, error) {
	L := lua.NewState()
	for _, name := range luaUnsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("lua predicate: %w", err)
	}

	fn := L.GetGlobal(luaPredicateFunc)
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, ErrNoPredicate
	}

	return &LuaPredicate{state: L, fn: fn}, nil
}

// Check invokes the script for one command name.
func (lp *LuaPredicate) Check(command string) (bool, error) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if lp.state == nil {
		return false, ErrPredicateClosed
	}

	err := lp.state.CallByParam(lua.P{
		Fn:      lp.fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(command))
	if err != nil {
		return false, fmt.Errorf("lua predicate: %w", err)
	}

	ret := lp.state.Get(-1)
	lp.state.Pop(1)
	return lua.LVAsBool(ret), nil
}

// Func adapts the script to the Predicate type. Script errors read as
// "not a trigger"; callers wanting the error use Check directly.
func (lp *LuaPredicate) Func() Predicate {
	return func(command string) bool {
		ok, err := lp.Check(command)
		return err == nil && ok
	}
}

// Close releases the Lua state. Further Check calls return
// ErrPredicateClosed.
func (lp *LuaPredicate) Close() {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if lp.state != nil {
		lp.state.Close()
		lp.state = nil
	}
}
