package physics

// Contact is a pair of bodies in touch. A has the lower id.
type Contact struct {
	A, B *Body
}

// Other returns the partner of b in the contact, or nil if b is not part of it.
func (c Contact) Other(b *Body) *Body {
	switch b {
	case c.A:
		return c.B
	case c.B:
		return c.A
	}
	return nil
}

func makeContact(a, b *Body) Contact {
	if a.id > b.id {
		a, b = b, a
	}
	return Contact{A: a, B: b}
}

type pairKey [2]uint64

func (c Contact) key() pairKey {
	return pairKey{c.A.id, c.B.id}
}

// Event fans a contact notification out to every subscriber.
type Event[T any] struct {
	listeners []func(T)
}

// AddListener registers callback. nil callbacks are ignored.
func (e *Event[T]) AddListener(callback func(T)) {
	if callback == nil {
		return
	}
	e.listeners = append(e.listeners, callback)
}

func (e *Event[T]) invoke(arg T) {
	for _, fn := range e.listeners {
		fn(arg)
	}
}
