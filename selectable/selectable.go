// Package selectable defines the selection capability shared by scene nodes
// and brush components.
package selectable

// Selectable is implemented by anything that can be selected.
type Selectable interface {
	IsSelected() bool
	SetSelected(selected bool)
	InvertSelected()
}

// ChangeFunc is called after the selection state actually changed.
type ChangeFunc func(selected bool)

// Observed is a Selectable that reports every transition to its owner.
// Setting the state it already has does nothing.
type Observed struct {
	selected bool
	onChange ChangeFunc
}

// NewObserved returns a deselected Observed reporting to fn.
func NewObserved(fn ChangeFunc) *Observed {
	return &Observed{onChange: fn}
}

// SetChangeFunc replaces the callback. A nil callback detaches the object,
// which then changes state without reporting it.
func (o *Observed) SetChangeFunc(fn ChangeFunc) {
	o.onChange = fn
}

func (o *Observed) IsSelected() bool {
	return o.selected
}

func (o *Observed) SetSelected(selected bool) {
	if o.selected == selected {
		return
	}
	o.selected = selected
	if o.onChange != nil {
		o.onChange(selected)
	}
}

func (o *Observed) InvertSelected() {
	o.SetSelected(!o.selected)
}

var _ Selectable = (*Observed)(nil)
