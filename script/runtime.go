// Package script runs tengo playback scripts against an animator.
//
// A script defines update(anim, input, state). anim exposes the animator's
// playback surface, input carries this frame's clicks, keys and animator
// events, and state is a map that persists between frames.
package script

import (
	"fmt"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/spriteanimator/animator"
)

const dispatchScript = `
update(__anim, __input, __state)
`

// Input is what a script sees of the frame it runs in.
type Input struct {
	Clicked bool
	Keys    []string
	Events  []string
	DT      time.Duration
}

// Runtime is one compiled script and its persistent state.
type Runtime struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
}

// Compile prepares src for running. name is used in errors only.
func Compile(name string, src []byte) (*Runtime, error) {
	script := tengo.NewScript(append(append([]byte{}, src...), dispatchScript...))
	_ = script.Add("__anim", map[string]any{})
	_ = script.Add("__input", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &Runtime{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

func (rt *Runtime) Name() string { return rt.name }

// Run calls the script's update with a bound to anim.
func (rt *Runtime) Run(a animator.Animator, in Input) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("script: nil runtime")
	}
	if a == nil {
		return fmt.Errorf("script: %s: %w", rt.name, animator.ErrNotAnimatable)
	}
	if err := rt.compiled.Set("__anim", animatorModule(a)); err != nil {
		return err
	}
	if err := rt.compiled.Set("__input", inputModule(in)); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.state); err != nil {
		return err
	}
	if err := rt.compiled.Run(); err != nil {
		return fmt.Errorf("script: run %s: %w", rt.name, err)
	}
	return nil
}

// State returns the value a script stored under key.
func (rt *Runtime) State(key string) any {
	v, ok := rt.state.Value[key]
	if !ok {
		return nil
	}
	return tengo.ToInterface(v)
}
