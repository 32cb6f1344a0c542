package settings

import (
	"fmt"

	"github.com/1broseidon/appshell/internal/geometry"
)

// ActionType is the wire name of an action, used for logs and metrics.
type ActionType string

const (
	TypeRememberBounds ActionType = "Window_RememberBounds"
	TypeSetFramework   ActionType = "Framework_Set"
)

// Action is a closed set of settings mutations. Only types in this package
// implement it.
type Action interface {
	Type() ActionType
	isAction()
}

// RememberBounds records the main window geometry. Absent fields in State
// leave the stored value untouched.
type RememberBounds struct {
	State geometry.Geometry
}

func (RememberBounds) Type() ActionType { return TypeRememberBounds }
func (RememberBounds) isAction()        {}

// SetFramework replaces the framework options.
type SetFramework struct {
	State Framework
}

func (SetFramework) Type() ActionType { return TypeSetFramework }
func (SetFramework) isAction()        {}

// Reduce returns the settings that result from applying a to current.
// current is not modified.
func Reduce(current Settings, a Action) Settings {
	next := current.Clone()
	switch a := a.(type) {
	case RememberBounds:
		next.WindowState = next.WindowState.Merge(a.State)
	case SetFramework:
		next.Framework = a.State
	default:
		panic(fmt.Sprintf("settings: unhandled action %T", a))
	}
	return next
}
