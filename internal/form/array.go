package form

// Array is an ordered, append-only list of controls of the same shape.
// There is no removal or reordering.
type Array[T member] struct {
	items  []T
	parent node
}

// NewArray creates an array holding the given initial items.
func NewArray[T member](items ...T) *Array[T] {
	a := &Array[T]{}
	for _, it := range items {
		a.Push(it)
	}
	return a
}

// Push appends item at the end.
func (a *Array[T]) Push(item T) {
	item.attach(a)
	a.items = append(a.items, item)
	a.revalidate()
}

// Len returns the number of items.
func (a *Array[T]) Len() int { return len(a.items) }

// At returns the i-th item. It panics if i is out of range.
func (a *Array[T]) At(i int) T { return a.items[i] }

// Items returns a copy of the item list.
func (a *Array[T]) Items() []T {
	out := make([]T, len(a.items))
	copy(out, a.items)
	return out
}

func (a *Array[T]) revalidate() {
	if a.parent != nil {
		a.parent.revalidate()
	}
}

// Errors is always empty; arrays carry no rules of their own.
func (a *Array[T]) Errors() Errors { return nil }

func (a *Array[T]) Valid() bool {
	for _, it := range a.items {
		if !it.Valid() {
			return false
		}
	}
	return true
}

func (a *Array[T]) Dirty() bool {
	for _, it := range a.items {
		if it.Dirty() {
			return true
		}
	}
	return false
}

func (a *Array[T]) Pristine() bool { return !a.Dirty() }

func (a *Array[T]) Touched() bool {
	for _, it := range a.items {
		if it.Touched() {
			return true
		}
	}
	return false
}

func (a *Array[T]) attach(p node) { a.parent = p }
