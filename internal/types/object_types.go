package types

import "fmt"

// Object Types
// Every BCD object carries a 32-bit type code built from three disjoint fields:
//
//	bits 28-31  category     (application, inheritable template, device)
//	bits 20-27  subtype      (meaning depends on the category)
//	bits  0-19  object id
//
// Reference: BCD WMI provider, BcdObject.Type

// ObjectTypeCode is the 32-bit type code stored in an object's Description\Type value.
type ObjectTypeCode uint32

// ObjectCategory is the top nibble of an ObjectTypeCode.
type ObjectCategory uint32

// ObjectSubtype is the second nibble of an ObjectTypeCode.
type ObjectSubtype uint32

// Object categories.
const (
	// ObjectCategoryApplication marks a boot application (boot manager, OS loader, resume, tools).
	ObjectCategoryApplication ObjectCategory = 0x1000_0000
	// ObjectCategoryInheritable marks a settings group that other objects inherit from.
	ObjectCategoryInheritable ObjectCategory = 0x2000_0000
	// ObjectCategoryDevice marks a device object.
	ObjectCategoryDevice ObjectCategory = 0x3000_0000
)

// Application subtypes (valid with ObjectCategoryApplication).
const (
	ObjectApplicationFirmware     ObjectSubtype = 0x0010_0000
	ObjectApplicationWindowsBoot  ObjectSubtype = 0x0020_0000
	ObjectApplicationLegacyLoader ObjectSubtype = 0x0030_0000
	ObjectApplicationRealMode     ObjectSubtype = 0x0040_0000
)

// Inheritable subtypes (valid with ObjectCategoryInheritable).
const (
	ObjectInheritableByAny         ObjectSubtype = 0x0010_0000
	ObjectInheritableByApplication ObjectSubtype = 0x0020_0000
	ObjectInheritableByDevice      ObjectSubtype = 0x0030_0000
)

// Field masks of an ObjectTypeCode.
const (
	ObjectCategoryMask ObjectTypeCode = 0xF000_0000
	ObjectSubtypeMask  ObjectTypeCode = 0x0FF0_0000
	ObjectIDMask       ObjectTypeCode = 0x000F_FFFF
)

// Category returns the category field.
func (c ObjectTypeCode) Category() ObjectCategory {
	return ObjectCategory(c & ObjectCategoryMask)
}

// Subtype returns the subtype field.
func (c ObjectTypeCode) Subtype() ObjectSubtype {
	return ObjectSubtype(c & ObjectSubtypeMask)
}

// ObjectID returns the 20-bit object id field.
func (c ObjectTypeCode) ObjectID() uint32 {
	return uint32(c & ObjectIDMask)
}

// String renders the code as 0x-prefixed 8-digit hex.
func (c ObjectTypeCode) String() string {
	return fmt.Sprintf("0x%08x", uint32(c))
}

// String returns a short name for the category.
func (c ObjectCategory) String() string {
	switch c {
	case ObjectCategoryApplication:
		return "application"
	case ObjectCategoryInheritable:
		return "inheritable"
	case ObjectCategoryDevice:
		return "device"
	default:
		return "unknown"
	}
}
