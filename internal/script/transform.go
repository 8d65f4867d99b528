// Package script runs an optional user Lua hook over sampled colors
// before they are converted and sent to a light.
package script

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Transform wraps a Lua script that defines
//
//	function transform(r, g, b)
//	    return r, g, b
//	end
//
// with all six values in 0-255. The Lua VM is single-threaded, so
// Apply serializes callers.
type Transform struct {
	mu sync.Mutex
	ls *lua.LState
}

// Load reads and executes the script, then checks that it defines a
// transform function.
func Load(path string) (*Transform, error) {
	ls := lua.NewState()
	if err := ls.DoFile(path); err != nil {
		ls.Close()
		return nil, fmt.Errorf("load transform script: %w", err)
	}
	if ls.GetGlobal("transform").Type() != lua.LTFunction {
		ls.Close()
		return nil, fmt.Errorf("transform script %s does not define transform(r, g, b)", path)
	}
	return &Transform{ls: ls}, nil
}

// Apply runs the hook over one color. On script error the input color
// is returned unchanged along with the error.
func (t *Transform) Apply(r, g, b uint8) (uint8, uint8, uint8, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.ls.CallByParam(lua.P{
		Fn:      t.ls.GetGlobal("transform"),
		NRet:    3,
		Protect: true,
	}, lua.LNumber(r), lua.LNumber(g), lua.LNumber(b))
	if err != nil {
		return r, g, b, fmt.Errorf("transform call: %w", err)
	}

	outB := t.ls.Get(-1)
	outG := t.ls.Get(-2)
	outR := t.ls.Get(-3)
	t.ls.Pop(3)

	rr, ok1 := channelValue(outR)
	gg, ok2 := channelValue(outG)
	bb, ok3 := channelValue(outB)
	if !ok1 || !ok2 || !ok3 {
		return r, g, b, fmt.Errorf("transform returned non-numeric values")
	}
	return rr, gg, bb, nil
}

// Close releases the Lua state.
func (t *Transform) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ls.Close()
}

// channelValue converts a Lua return value to a clamped 8-bit channel.
func channelValue(v lua.LValue) (uint8, bool) {
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0, false
	}
	f := float64(n)
	if f < 0 {
		return 0, true
	}
	if f > 255 {
		return 255, true
	}
	return uint8(f), true
}
