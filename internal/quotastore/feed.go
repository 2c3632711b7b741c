package quotastore

import "sync"

// Feed is a change feed registry shared by store adapters.
// The zero value is ready to use.
type Feed struct {
	subs   map[uint64]func([]Change)
	order  []uint64
	nextID uint64
	mu     sync.Mutex
}

// Subscribe registers fn. The returned function removes it and may be
// called more than once.
func (f *Feed) Subscribe(fn func([]Change)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subs == nil {
		f.subs = make(map[uint64]func([]Change))
	}
	f.nextID++
	id := f.nextID
	f.subs[id] = fn
	f.order = append(f.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			f.unsubscribe(id)
		})
	}
}

func (f *Feed) unsubscribe(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.subs, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// Notify delivers batch to every subscriber in subscription order.
// Empty batches are dropped. Subscribers run on the caller's goroutine.
func (f *Feed) Notify(batch []Change) {
	if len(batch) == 0 {
		return
	}

	f.mu.Lock()
	fns := make([]func([]Change), 0, len(f.order))
	for _, id := range f.order {
		fns = append(fns, f.subs[id])
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(batch)
	}
}

// Len returns the number of subscribers.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.order)
}
