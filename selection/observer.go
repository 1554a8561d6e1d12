package selection

import (
	"github.com/google/uuid"

	"github.com/Tubbz-alt/DarkRadiant/scene"
)

// ChangeKind classifies a notification.
type ChangeKind int

const (
	// ChangeSelection is a single node or component transition.
	ChangeSelection ChangeKind = iota
	// ChangeBulk stands for several transitions made by one operation.
	ChangeBulk
	// ChangeMode is a change of mode, component mode or manipulator mode.
	ChangeMode
	// ChangeTransform is a change of the selected geometry.
	ChangeTransform
	// ChangeVisibility is a change of hidden flags.
	ChangeVisibility
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeSelection:
		return "selection"
	case ChangeBulk:
		return "bulk"
	case ChangeMode:
		return "mode"
	case ChangeTransform:
		return "transform"
	case ChangeVisibility:
		return "visibility"
	}
	return "unknown"
}

// Change describes one externally visible state change. Node, IsComponent
// and Selected are only set for ChangeSelection.
type Change struct {
	Kind        ChangeKind
	Node        scene.NodeID
	IsComponent bool
	Selected    bool
}

// Observer is notified after every change.
type Observer interface {
	SelectionChanged(c Change)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(c Change)

func (f ObserverFunc) SelectionChanged(c Change) { f(c) }

// Handle identifies a registered observer.
type Handle uuid.UUID

func (h Handle) String() string { return uuid.UUID(h).String() }

type observers struct {
	order []Handle
	byID  map[Handle]Observer
}

func (o *observers) add(obs Observer) Handle {
	if o.byID == nil {
		o.byID = make(map[Handle]Observer)
	}
	h := Handle(uuid.New())
	o.byID[h] = obs
	o.order = append(o.order, h)
	return h
}

func (o *observers) remove(h Handle) bool {
	if _, ok := o.byID[h]; !ok {
		return false
	}
	delete(o.byID, h)
	for i, other := range o.order {
		if other == h {
			o.order = append(o.order[:i:i], o.order[i+1:]...)
			break
		}
	}
	return true
}

// notify calls every observer registered when the call started and still
// registered when its turn comes.
func (o *observers) notify(c Change) {
	for _, h := range append([]Handle(nil), o.order...) {
		if obs, ok := o.byID[h]; ok {
			obs.SelectionChanged(c)
		}
	}
}
