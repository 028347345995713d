package model

// observers is a small listener list embedded by the editors. Callbacks run
// synchronously after each change, on the goroutine that made it.
type observers struct {
	nextID    int
	listeners map[int]func()
}

// Subscribe registers fn to be called after every change. The returned func
// removes it again.
func (o *observers) Subscribe(fn func()) func() {
	if o.listeners == nil {
		o.listeners = make(map[int]func())
	}
	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	return func() {
		delete(o.listeners, id)
	}
}

func (o *observers) notify() {
	for _, fn := range o.listeners {
		fn()
	}
}
