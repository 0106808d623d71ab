package reactive

// Writable holds a primitive value.
type Writable[T any] struct {
	n     *node
	value T
	equal func(a, b T) bool
}

// NewWritable creates a writable whose every Set propagates.
func NewWritable[T any](g *Graph, initial T) *Writable[T] {
	return &Writable[T]{n: g.newNode(0), value: initial}
}

// NewComparable creates a writable that ignores Sets of an equal value.
func NewComparable[T comparable](g *Graph, initial T) *Writable[T] {
	w := NewWritable(g, initial)
	w.equal = func(a, b T) bool { return a == b }
	return w
}

func (w *Writable[T]) base() *node { return w.n }

// Get returns the current value.
func (w *Writable[T]) Get() T {
	return w.value
}

// Set stores v and propagates the change.
func (w *Writable[T]) Set(v T) {
	if w.equal != nil && w.equal(w.value, v) {
		return
	}
	w.value = v
	w.n.graph.touch(w.n)
}

// Update stores fn applied to the current value.
func (w *Writable[T]) Update(fn func(T) T) {
	w.Set(fn(w.value))
}

// Subscribe calls fn with the current value now and with the settled value
// after every propagation pass that changes it.
func (w *Writable[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	fn(w.value)
	return w.Watch(fn)
}

// Watch is Subscribe without the initial call.
func (w *Writable[T]) Watch(fn func(T)) (unsubscribe func()) {
	return w.n.subscribe(func() { fn(w.value) })
}

// Derived holds a value computed from other nodes.
type Derived[T any] struct {
	n       *node
	value   T
	compute func() T
}

// NewDerived creates a derived value over inputs. compute must read only the
// listed inputs; it runs once immediately and again whenever an input
// changes. All inputs must belong to g.
func NewDerived[T any](g *Graph, compute func() T, inputs ...Node) *Derived[T] {
	rank := 1
	for _, in := range inputs {
		b := in.base()
		if b.graph != g {
			panic("reactive: derived input belongs to another graph")
		}
		if b.rank >= rank {
			rank = b.rank + 1
		}
	}

	d := &Derived[T]{n: g.newNode(rank), compute: compute}
	d.n.recompute = func() { d.value = d.compute() }
	d.value = compute()
	for _, in := range inputs {
		b := in.base()
		b.dependents = append(b.dependents, d.n)
	}
	return d
}

func (d *Derived[T]) base() *node { return d.n }

// Get returns the last computed value.
func (d *Derived[T]) Get() T {
	return d.value
}

// Subscribe calls fn with the current value now and after every
// recomputation.
func (d *Derived[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	fn(d.value)
	return d.Watch(fn)
}

// Watch is Subscribe without the initial call.
func (d *Derived[T]) Watch(fn func(T)) (unsubscribe func()) {
	return d.n.subscribe(func() { fn(d.value) })
}
