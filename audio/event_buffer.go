package audio

import "sync/atomic"

type event struct {
	freq     float64
	offset   int
	duration int
}

// eventBuffer is a lock-free spsc queue. The transport pushes from the audio
// thread ahead of the instrument reading in the same callback.
type eventBuffer struct {
	events      []event
	read, write *uint32
}

func newEventBuffer(size int) *eventBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("event buffer size must be a power of 2")
	}
	return &eventBuffer{
		events: make([]event, size),
		read:   new(uint32),
		write:  new(uint32),
	}
}

// push adds ev to the queue. It reports false when the queue is full.
func (b *eventBuffer) push(ev event) bool {
	write := atomic.LoadUint32(b.write)
	if write-atomic.LoadUint32(b.read) == uint32(len(b.events)) {
		return false
	}
	b.events[write%uint32(len(b.events))] = ev
	atomic.StoreUint32(b.write, write+1)
	return true
}

func (b *eventBuffer) iter(untilOffset int, f func(event)) {
	read := atomic.LoadUint32(b.read)
	write := atomic.LoadUint32(b.write)
	for read != write {
		event := b.events[read%uint32(len(b.events))]
		if event.offset >= untilOffset && untilOffset != -1 {
			break
		}
		f(event)
		read++
	}
	atomic.StoreUint32(b.read, read)
}

func (b *eventBuffer) len() int {
	return int(atomic.LoadUint32(b.write) - atomic.LoadUint32(b.read))
}
