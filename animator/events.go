package animator

import "github.com/milk9111/spriteanimator/ecs"

const (
	EventInvalidIndex = "animator.invalid_index"
	EventCompleted    = "animator.completed"
	EventTickFailed   = "animator.tick_failed"
)

// AnimationEvent is the payload of every animator event.
type AnimationEvent struct {
	Entity    ecs.Entity
	Animation int
	Counter   uint64
	Err       error
}

func emit(w *ecs.World, typ string, evt AnimationEvent) {
	if w == nil {
		return
	}
	w.Events().Push(ecs.Event{Type: typ, Data: evt})
}
