package frame

import (
	"time"

	"github.com/yogeshw/ncrads9/internal/logging"
)

// BlinkMode selects the stepping order of the blink sequence.
type BlinkMode int

const (
	BlinkForward BlinkMode = iota
	BlinkBackward
	BlinkBounce
)

func (m BlinkMode) String() string {
	switch m {
	case BlinkForward:
		return "forward"
	case BlinkBackward:
		return "backward"
	case BlinkBounce:
		return "bounce"
	}
	return "unknown"
}

// BlinkState is the controller's run state.
type BlinkState int

const (
	BlinkStopped BlinkState = iota
	BlinkRunning
	BlinkPaused
)

// DefaultBlinkInterval is the time between frame steps.
const DefaultBlinkInterval = 500 * time.Millisecond

const minBlinkInterval = 10 * time.Millisecond

// BlinkController steps the active frame through a sequence on a
// host-driven clock. It owns no timer or goroutine: the host calls
// Update from its tick loop and the controller decides when to
// advance. Blink stepping wraps around the sequence ends, unlike
// manual frame navigation. Not safe for concurrent use; drive it from
// the host's event loop.
type BlinkController struct {
	m *Manager

	interval time.Duration
	mode     BlinkMode
	loop     bool
	start    int
	end      int // negative = through the last frame

	state     BlinkState
	order     []int
	pos       int
	direction int
	last      time.Time
}

// NewBlinkController builds a stopped controller over the manager's
// frames, covering all of them in forward looping order.
func NewBlinkController(m *Manager) *BlinkController {
	return &BlinkController{
		m:         m,
		interval:  DefaultBlinkInterval,
		loop:      true,
		end:       -1,
		direction: 1,
	}
}

// SetInterval sets the time between steps, floored to a small minimum.
func (c *BlinkController) SetInterval(d time.Duration) {
	if d < minBlinkInterval {
		d = minBlinkInterval
	}
	c.interval = d
}

// Interval returns the time between steps.
func (c *BlinkController) Interval() time.Duration {
	return c.interval
}

// SetMode sets the stepping order. Changing mode mid-run adjusts the
// stepping direction immediately.
func (c *BlinkController) SetMode(mode BlinkMode) {
	c.mode = mode
	switch mode {
	case BlinkForward:
		c.direction = 1
	case BlinkBackward:
		c.direction = -1
	}
}

// SetLoop controls whether forward and backward runs wrap at the ends.
// Without looping the controller stops when the sequence runs out.
// Bounce mode always reverses instead.
func (c *BlinkController) SetLoop(loop bool) {
	c.loop = loop
}

// SetRange restricts the blink sequence to the frame indices
// [start, end]. A negative end means through the last frame. The range
// takes effect on the next Start.
func (c *BlinkController) SetRange(start, end int) {
	if start < 0 {
		start = 0
	}
	c.start = start
	c.end = end
}

// State returns the run state.
func (c *BlinkController) State() BlinkState {
	return c.state
}

// Running reports whether the controller is advancing.
func (c *BlinkController) Running() bool {
	return c.state == BlinkRunning
}

// Position returns the current index within the blink sequence.
func (c *BlinkController) Position() int {
	return c.pos
}

// SequenceLen returns the number of frames in the blink sequence.
func (c *BlinkController) SequenceLen() int {
	return len(c.order)
}

// buildOrder snapshots the frame indices covered by the configured
// range.
func (c *BlinkController) buildOrder() {
	count := c.m.Count()
	start := c.start
	if start > count-1 {
		start = count - 1
	}
	end := c.end
	if end < 0 || end > count-1 {
		end = count - 1
	}
	c.order = c.order[:0]
	for i := start; i <= end; i++ {
		c.order = append(c.order, i)
	}
}

// Start builds the blink sequence and activates its first frame.
// Returns false when the configured range selects no frames.
func (c *BlinkController) Start() bool {
	c.buildOrder()
	if len(c.order) == 0 {
		return false
	}
	c.pos = 0
	if c.mode == BlinkBackward {
		c.direction = -1
	} else {
		c.direction = 1
	}
	c.state = BlinkRunning
	c.last = time.Time{}
	_ = c.m.SetActive(c.order[0])

	logging.Logger().Info("blink started",
		"frames", len(c.order), "interval", c.interval, "mode", c.mode.String())
	return true
}

// Stop halts blinking and rewinds the sequence.
func (c *BlinkController) Stop() {
	c.state = BlinkStopped
	c.pos = 0
	c.direction = 1
}

// Pause suspends a running blink, keeping its position.
func (c *BlinkController) Pause() {
	if c.state == BlinkRunning {
		c.state = BlinkPaused
	}
}

// Resume continues a paused blink.
func (c *BlinkController) Resume() {
	if c.state == BlinkPaused {
		c.state = BlinkRunning
		c.last = time.Time{}
	}
}

// Toggle cycles running, paused, and stopped states: a running blink
// pauses, a paused one resumes, a stopped one starts.
func (c *BlinkController) Toggle() {
	switch c.state {
	case BlinkRunning:
		c.Pause()
	case BlinkPaused:
		c.Resume()
	default:
		c.Start()
	}
}

// Update advances the blink when at least one interval has elapsed
// since the previous step. The host passes its tick time. Reports
// whether the active frame changed.
func (c *BlinkController) Update(now time.Time) bool {
	if c.state != BlinkRunning || len(c.order) == 0 {
		return false
	}
	if c.last.IsZero() {
		c.last = now
		return false
	}
	if now.Sub(c.last) < c.interval {
		return false
	}
	c.last = now
	return c.Advance()
}

// Advance steps to the next frame in the sequence immediately,
// wrapping per the mode and loop settings. Reports whether the active
// frame changed; a non-looping run that falls off the end stops.
func (c *BlinkController) Advance() bool {
	if len(c.order) == 0 {
		return false
	}

	next := c.pos + c.direction
	switch c.mode {
	case BlinkForward:
		if next >= len(c.order) {
			if !c.loop {
				c.Stop()
				return false
			}
			next = 0
		}
	case BlinkBackward:
		if next < 0 {
			if !c.loop {
				c.Stop()
				return false
			}
			next = len(c.order) - 1
		}
	case BlinkBounce:
		if next >= len(c.order) {
			c.direction = -1
			next = len(c.order) - 2
			if next < 0 {
				next = 0
			}
		} else if next < 0 {
			c.direction = 1
			next = 1
			if next >= len(c.order) {
				next = 0
			}
		}
	}

	c.pos = next
	if err := c.m.SetActive(c.order[c.pos]); err != nil {
		// The frame list shrank since Start. Rebuild and retarget.
		c.buildOrder()
		if len(c.order) == 0 {
			c.Stop()
			return false
		}
		if c.pos >= len(c.order) {
			c.pos = 0
		}
		_ = c.m.SetActive(c.order[c.pos])
	}
	return true
}
