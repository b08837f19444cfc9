package animator

import (
	"log"
	"math"
	"time"

	"github.com/milk9111/spriteanimator/animation"
)

// playback is the frame-index/timer state shared by every animator.
type playback struct {
	state     PlaybackState
	index     int
	counter   uint64
	next      time.Duration
	speed     float64
	timeScale float64
	enabled   bool
}

func newPlayback() playback {
	return playback{index: -1, speed: 1, timeScale: 1, enabled: true}
}

func (p *playback) State() PlaybackState   { return p.state }
func (p *playback) IsRunning() bool        { return p.state == Running }
func (p *playback) CurrentAnimation() int  { return p.index }
func (p *playback) FrameCounter() uint64   { return p.counter }
func (p *playback) PlaybackSpeed() float64 { return p.speed }
func (p *playback) Enabled() bool          { return p.enabled }
func (p *playback) SetEnabled(v bool)      { p.enabled = v }

func (p *playback) setSpeed(v float64) {
	p.speed = math.Max(0, v)
}

// tick writes the frame for the current index and counter through t, then
// advances the counter. The returned duration was computed before the
// counter moved.
func (p *playback) tick(t Ticker) error {
	d, err := t.TickFrame(p.index, p.counter, p.timeScale)
	p.counter++
	if err != nil {
		p.next = animation.Forever
		return err
	}
	p.next = d
	return nil
}

// start moves to Running and writes the first frame immediately when the
// host drives this animator.
func (p *playback) start(t Ticker) error {
	p.state = Running
	if !p.enabled {
		p.next = 0
		return nil
	}
	return p.tick(t)
}

func (p *playback) reset() {
	p.state = Stopped
	p.index = -1
	p.counter = 0
	p.next = 0
}

// advance runs at most one tick per host frame and none while disabled. A
// frame that comes due restarts the wait from its own duration; overshoot is
// dropped. A frame held forever is re-timed on every call.
func (p *playback) advance(t Ticker, dt time.Duration, timeScale float64) (time.Duration, error) {
	p.timeScale = timeScale
	if p.state != Running || !p.enabled {
		return p.next, nil
	}
	if p.next == animation.Forever && p.counter > 0 {
		// held by a zero speed or time scale; pick up a rate that came back
		d, err := t.FrameWait(p.index, p.counter-1, timeScale)
		if err != nil {
			return p.next, err
		}
		p.next = d
	}
	if p.next != animation.Forever {
		p.next -= dt
	}
	if p.next > 0 {
		return p.next, nil
	}
	err := p.tick(t)
	return p.next, err
}

func logTickError(name string, err error) {
	log.Printf("animator: %s: tick failed, stopping: %v", name, err)
}
