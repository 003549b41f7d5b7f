package field

// Event is an input message consumed by the Field before the next tick.
type Event interface {
	isEvent()
}

// PointerDown activates the pointer at a position.
type PointerDown struct{ X, Y float64 }

// PointerMove updates the pointer position while it is active.
type PointerMove struct{ X, Y float64 }

// PointerUp deactivates the pointer.
type PointerUp struct{}

// Resize changes the surface dimensions.
type Resize struct{ W, H float64 }

func (PointerDown) isEvent() {}
func (PointerMove) isEvent() {}
func (PointerUp) isEvent()   {}
func (Resize) isEvent()      {}

// Send queues an event. It is safe to call from any goroutine; events are
// applied in arrival order at the start of the next Tick.
func (f *Field) Send(ev Event) {
	f.inboxMu.Lock()
	f.inbox = append(f.inbox, ev)
	f.inboxMu.Unlock()
}

// drainInbox applies queued events in order.
func (f *Field) drainInbox() {
	f.inboxMu.Lock()
	events := f.inbox
	f.inbox = f.spare[:0]
	f.inboxMu.Unlock()

	for _, ev := range events {
		f.apply(ev)
	}
	f.spare = events[:0]
}

func (f *Field) apply(ev Event) {
	switch e := ev.(type) {
	case PointerDown:
		f.pointer.Active = true
		f.pointer.X, f.pointer.Y = e.X, e.Y
	case PointerMove:
		if f.pointer.Active {
			f.pointer.X, f.pointer.Y = e.X, e.Y
		}
	case PointerUp:
		f.pointer.Active = false
	case Resize:
		f.Resize(e.W, e.H)
	}
}
