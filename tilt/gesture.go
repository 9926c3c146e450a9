package tilt

import "time"

const (
	DefaultLongPress = 500 * time.Millisecond
	DefaultDoubleTap = 300 * time.Millisecond
)

type Gesture int

const (
	NoGesture Gesture = iota
	ShortTap
	LongPress
	DoubleTap
)

func (g Gesture) String() string {
	switch g {
	case ShortTap:
		return "short-tap"
	case LongPress:
		return "long-press"
	case DoubleTap:
		return "double-tap"
	}
	return "none"
}

// Classifier turns press/release timestamps into gestures.
type Classifier struct {
	LongPress time.Duration
	DoubleTap time.Duration

	pressed   bool
	pressedAt time.Time
	lastTap   time.Time // zero when there is no tap to pair with
}

func NewClassifier(longPress, doubleTap time.Duration) *Classifier {
	return &Classifier{LongPress: longPress, DoubleTap: doubleTap}
}

// Press records the start of a press. While a press is held further presses
// are ignored.
func (c *Classifier) Press(t time.Time) {
	if c.pressed {
		return
	}
	c.pressed = true
	c.pressedAt = t
}

// Release ends the current press and classifies it. A release without a
// matching press yields NoGesture.
func (c *Classifier) Release(t time.Time) Gesture {
	if !c.pressed {
		return NoGesture
	}
	c.pressed = false

	if t.Sub(c.pressedAt) >= c.LongPress {
		return LongPress
	}
	if !c.lastTap.IsZero() && t.Sub(c.lastTap) < c.DoubleTap {
		// a third tap must not pair with the second one
		c.lastTap = time.Time{}
		return DoubleTap
	}
	c.lastTap = t
	return ShortTap
}

// Pressed reports whether a press is being held.
func (c *Classifier) Pressed() bool { return c.pressed }
