package form

// Validator checks a single value and returns the keys of the rules it
// breaks, or nil.
type Validator[T any] func(T) Errors

// Control is the read side shared by fields, groups and arrays.
type Control interface {
	Valid() bool
	Errors() Errors
	Pristine() bool
	Dirty() bool
	Touched() bool
}

// node is anything a control can report changes up to.
type node interface {
	revalidate()
}

// member is a control that can be attached under a group or array.
type member interface {
	Control
	attach(parent node)
}

// Field is a leaf control holding one typed value.
type Field[T any] struct {
	value      T
	validators []Validator[T]
	errs       Errors
	dirty      bool
	touched    bool
	listeners  []func(T)
	parent     node
}

// NewField creates a pristine field and runs its validators once.
func NewField[T any](initial T, validators ...Validator[T]) *Field[T] {
	f := &Field[T]{value: initial}
	f.validators = append(f.validators, validators...)
	f.errs = f.run()
	return f
}

// Value returns the current value.
func (f *Field[T]) Value() T { return f.value }

// SetValue records a user edit: the field becomes dirty, is revalidated
// and change listeners are notified.
func (f *Field[T]) SetValue(v T) {
	f.dirty = true
	f.apply(v)
}

// Patch replaces the value programmatically. The field is revalidated and
// listeners are notified, but the dirty flag is left alone.
func (f *Field[T]) Patch(v T) {
	f.apply(v)
}

func (f *Field[T]) apply(v T) {
	f.value = v
	f.UpdateValidity()
	for _, fn := range f.listeners {
		fn(v)
	}
}

// Touch marks the field as having received and lost focus.
func (f *Field[T]) Touch() { f.touched = true }

// OnChange registers fn to run after every value change, user or
// programmatic. Listeners run in registration order.
func (f *Field[T]) OnChange(fn func(T)) {
	f.listeners = append(f.listeners, fn)
}

// SetValidators replaces the rule set. Validity is not recomputed until
// UpdateValidity is called.
func (f *Field[T]) SetValidators(validators ...Validator[T]) {
	f.validators = append([]Validator[T](nil), validators...)
}

// ClearValidators removes every rule. Validity is not recomputed until
// UpdateValidity is called.
func (f *Field[T]) ClearValidators() {
	f.validators = nil
}

// HasValidators reports whether any rule is attached.
func (f *Field[T]) HasValidators() bool {
	return len(f.validators) > 0
}

// UpdateValidity reruns the rules against the current value and
// propagates the change to the parent.
func (f *Field[T]) UpdateValidity() {
	f.errs = f.run()
	if f.parent != nil {
		f.parent.revalidate()
	}
}

func (f *Field[T]) run() Errors {
	var out Errors
	for _, v := range f.validators {
		out = Merge(out, v(f.value))
	}
	return out
}

func (f *Field[T]) Errors() Errors { return f.errs.Keys() }
func (f *Field[T]) Valid() bool { return f.errs.Empty() }
func (f *Field[T]) Pristine() bool { return !f.dirty }
func (f *Field[T]) Dirty() bool { return f.dirty }
func (f *Field[T]) Touched() bool { return f.touched }
func (f *Field[T]) attach(p node) { f.parent = p }
