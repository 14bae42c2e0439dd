package platform

import (
	"linkmark/internal/marker"
	"linkmark/internal/metadata"
)

const customMarshaler = "System.Runtime.InteropServices.ICustomMarshaler"

// CustomMarshalerRule keeps the static GetInstance(string) factory the
// runtime calls on custom marshalers.
type CustomMarshalerRule struct{}

func (CustomMarshalerRule) Name() string { return "custom-marshaler" }

func (CustomMarshalerRule) OnTypeMarked(t *metadata.Type) []marker.Action {
	if !implements(t, customMarshaler) {
		return nil
	}
	for _, m := range t.MethodsNamed("GetInstance") {
		if m.IsStatic &&
			len(m.Parameters) == 1 &&
			m.Parameters[0].FullName == "System.String" &&
			m.ReturnType.FullName == customMarshaler {
			return []marker.Action{marker.Keep(m.ID())}
		}
	}
	return nil
}

func implements(t *metadata.Type, iface string) bool {
	for _, ref := range t.Interfaces {
		if ref.FullName == iface {
			return true
		}
	}
	return false
}
