package selection

import (
	"fmt"
	"strings"

	"github.com/Tubbz-alt/DarkRadiant/brush"
)

// Mode decides which kind of scene object a pick or bulk operation selects.
type Mode int

const (
	// ModeEntity selects entities as a whole.
	ModeEntity Mode = iota
	// ModePrimitive selects world primitives, point entities and group
	// entities as a whole.
	ModePrimitive
	// ModeGroupPart selects the primitives inside group entities.
	ModeGroupPart
	// ModeComponent selects vertices, edges or faces of selected brushes.
	ModeComponent
)

func (m Mode) String() string {
	switch m {
	case ModeEntity:
		return "entity"
	case ModePrimitive:
		return "primitive"
	case ModeGroupPart:
		return "group-part"
	case ModeComponent:
		return "component"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ComponentMode is the component granularity used in ModeComponent.
type ComponentMode int

const (
	ComponentDefault ComponentMode = iota
	ComponentVertex
	ComponentEdge
	ComponentFace
)

func (m ComponentMode) String() string {
	switch m {
	case ComponentDefault:
		return "default"
	case ComponentVertex:
		return "vertex"
	case ComponentEdge:
		return "edge"
	case ComponentFace:
		return "face"
	}
	return fmt.Sprintf("ComponentMode(%d)", int(m))
}

func (m ComponentMode) kind() brush.ComponentKind {
	switch m {
	case ComponentEdge:
		return brush.EdgeComponent
	case ComponentFace:
		return brush.FaceComponent
	}
	return brush.VertexComponent
}

// ManipulatorMode is the behaviour of a manipulator drag.
type ManipulatorMode int

const (
	ManipulatorTranslate ManipulatorMode = iota
	ManipulatorRotate
	ManipulatorScale
	ManipulatorDrag
	ManipulatorClip
)

func (m ManipulatorMode) String() string {
	switch m {
	case ManipulatorTranslate:
		return "translate"
	case ManipulatorRotate:
		return "rotate"
	case ManipulatorScale:
		return "scale"
	case ManipulatorDrag:
		return "drag"
	case ManipulatorClip:
		return "clip"
	}
	return fmt.Sprintf("ManipulatorMode(%d)", int(m))
}

// Modifier tells a pick how to change the selection.
type Modifier int

const (
	// ModifierManipulator tries the manipulator handles first, then
	// replaces the selection with the best candidate.
	ModifierManipulator Modifier = iota
	// ModifierToggle flips the best candidate only.
	ModifierToggle
	// ModifierReplace replaces the selection with the best candidate.
	ModifierReplace
	// ModifierCycle selects the candidate after the selected one.
	ModifierCycle
)

func (m Modifier) String() string {
	switch m {
	case ModifierManipulator:
		return "manipulator"
	case ModifierToggle:
		return "toggle"
	case ModifierReplace:
		return "replace"
	case ModifierCycle:
		return "cycle"
	}
	return fmt.Sprintf("Modifier(%d)", int(m))
}

// ParseModifier reads a modifier name as written in configuration files.
func ParseModifier(s string) (Modifier, error) {
	for m := ModifierManipulator; m <= ModifierCycle; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown modifier %q", s)
}

// ParseManipulatorMode reads a manipulator mode name as written in
// configuration files.
func ParseManipulatorMode(s string) (ManipulatorMode, error) {
	for m := ManipulatorTranslate; m <= ManipulatorClip; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown manipulator mode %q", s)
}
