package types

// Object is one BCD object as it will be written under Objects\{ID}.
type Object struct {
	// ID is the braces-wrapped lowercase GUID used as the object's key name.
	ID string
	// Name is a human readable label used in logs and reports; it is not persisted.
	Name string
	// Type is written to Description\Type.
	Type ObjectTypeCode
	// FirmwareVariable is written to Description\FirmwareVariable when non-nil.
	FirmwareVariable []byte
	// Elements are written under Elements\{code} in slice order.
	Elements []Element
}

// Element is one typed value attached to an object.
type Element struct {
	// Type is the element type code; its hex rendering is the element key name.
	Type ElementTypeCode
	// Name is a human readable label used in logs and reports; it is not persisted.
	Name string
	// Value is the encoded payload stored under the Element value name.
	Value Value
	// References lists the object IDs this element points at, in element order.
	References []string
	// Inherit is set when References form an inheritance list.
	Inherit bool
}

// Element returns the element with the given type code, if present.
func (o *Object) Element(code ElementTypeCode) (Element, bool) {
	for _, e := range o.Elements {
		if e.Type == code {
			return e, true
		}
	}
	return Element{}, false
}

// InheritedIDs returns the object IDs listed by the object's inheritance elements.
func (o *Object) InheritedIDs() []string {
	var ids []string
	for _, e := range o.Elements {
		if e.Inherit {
			ids = append(ids, e.References...)
		}
	}
	return ids
}
