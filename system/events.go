package system

import (
	"log"

	"github.com/milk9111/spriteanimator/animator"
	"github.com/milk9111/spriteanimator/ecs"
	"github.com/milk9111/spriteanimator/ecs/component"
)

// EventHandler receives one drained world event.
type EventHandler func(w *ecs.World, evt ecs.Event)

// EventSystem drains the world's event queue once per frame and hands each
// event to the registered handlers. Animator events are logged when Verbose
// is set.
type EventSystem struct {
	Verbose  bool
	handlers []EventHandler
}

func NewEventSystem(verbose bool) *EventSystem {
	return &EventSystem{Verbose: verbose}
}

func (s *EventSystem) Handle(h EventHandler) {
	if h == nil {
		return
	}
	s.handlers = append(s.handlers, h)
}

func (s *EventSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, evt := range w.Events().Drain() {
		if s.Verbose {
			logEvent(w, evt)
		}
		for _, h := range s.handlers {
			h(w, evt)
		}
	}
}

func logEvent(w *ecs.World, evt ecs.Event) {
	data, ok := evt.Data.(animator.AnimationEvent)
	if !ok {
		log.Printf("event %s: %v", evt.Type, evt.Data)
		return
	}
	name := data.Entity.String()
	if n, ok := ecs.Get(w, data.Entity, component.NameComponent); ok && n != "" {
		name = string(n)
	}
	if data.Err != nil {
		log.Printf("event %s: %s animation=%d counter=%d err=%v", evt.Type, name, data.Animation, data.Counter, data.Err)
		return
	}
	log.Printf("event %s: %s animation=%d counter=%d", evt.Type, name, data.Animation, data.Counter)
}
