package script

import (
	"log"

	"github.com/milk9111/spriteanimator/animator"
	"github.com/milk9111/spriteanimator/ecs"
	"github.com/milk9111/spriteanimator/ecs/component"
)

// Script binds a playback script to the animator on the same entity.
type Script struct {
	Path string
}

var Component = component.NewComponent[*Script]()

// Loader returns a script's source by path.
type Loader func(path string) ([]byte, error)

// System runs each entity's script once per frame. Compiled scripts are
// cached per entity and recompiled after Invalidate.
type System struct {
	Load Loader

	input    Input
	runtimes map[ecs.Entity]*Runtime
	pending  map[ecs.Entity][]string
	failed   map[string]bool
}

func NewSystem(load Loader) *System {
	return &System{
		Load:     load,
		runtimes: make(map[ecs.Entity]*Runtime),
		pending:  make(map[ecs.Entity][]string),
		failed:   make(map[string]bool),
	}
}

// SetInput sets the input every script sees on the next Update.
func (s *System) SetInput(in Input) {
	s.input = in
}

// Notify queues an animator event for the script of the entity it names.
// It fits system.EventSystem's handler signature.
func (s *System) Notify(_ *ecs.World, evt ecs.Event) {
	data, ok := evt.Data.(animator.AnimationEvent)
	if !ok {
		return
	}
	s.pending[data.Entity] = append(s.pending[data.Entity], evt.Type)
}

// Invalidate drops every runtime compiled from path. An empty path drops all.
func (s *System) Invalidate(path string) {
	for e, rt := range s.runtimes {
		if path == "" || rt.Name() == path {
			delete(s.runtimes, e)
		}
	}
	if path == "" {
		clear(s.failed)
		return
	}
	delete(s.failed, path)
}

// Runtime returns the compiled script of e, if it has run.
func (s *System) Runtime(e ecs.Entity) (*Runtime, bool) {
	rt, ok := s.runtimes[e]
	return rt, ok
}

func (s *System) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, Component, animator.Component, func(e ecs.Entity, sc *Script, a animator.Animator) {
		if sc == nil || sc.Path == "" || a == nil || !ecs.ActiveInHierarchy(w, e) {
			return
		}
		rt, ok := s.runtime(e, sc.Path)
		if !ok {
			return
		}
		in := s.input
		in.Events = s.pending[e]
		if err := rt.Run(a, in); err != nil {
			log.Printf("script: entity=%s %v", e, err)
		}
	})
	clear(s.pending)
}

func (s *System) runtime(e ecs.Entity, path string) (*Runtime, bool) {
	if rt, ok := s.runtimes[e]; ok && rt.Name() == path {
		return rt, true
	}
	if s.failed[path] || s.Load == nil {
		return nil, false
	}
	src, err := s.Load(path)
	if err != nil {
		log.Printf("script: load %s: %v", path, err)
		s.failed[path] = true
		return nil, false
	}
	rt, err := Compile(path, src)
	if err != nil {
		log.Printf("script: %v", err)
		s.failed[path] = true
		return nil, false
	}
	s.runtimes[e] = rt
	return rt, true
}
