package types

import "fmt"

// Element Types
// Every element key under Objects\{guid}\Elements is the 8-digit lowercase hex rendering of a
// 32-bit element type code built from three disjoint fields:
//
//	bits 28-31  class   (library, application, device, template)
//	bits 24-27  format  (device, string, GUID, GUID list, integer, boolean, integer list)
//	bits  0-23  element id
//
// Reference: BCD WMI provider, BcdElement.Type

// ElementTypeCode is the 32-bit element type code.
type ElementTypeCode uint32

// ElementClass is the top nibble of an ElementTypeCode.
type ElementClass uint32

// ElementFormat is the second nibble of an ElementTypeCode.
type ElementFormat uint32

// Element classes.
const (
	ElementClassLibrary     ElementClass = 0x1000_0000
	ElementClassApplication ElementClass = 0x2000_0000
	ElementClassDevice      ElementClass = 0x3000_0000
	ElementClassTemplate    ElementClass = 0x4000_0000
)

// Element formats.
const (
	ElementFormatDevice      ElementFormat = 0x0100_0000
	ElementFormatString      ElementFormat = 0x0200_0000
	ElementFormatGUID        ElementFormat = 0x0300_0000
	ElementFormatGUIDList    ElementFormat = 0x0400_0000
	ElementFormatInteger     ElementFormat = 0x0500_0000
	ElementFormatBoolean     ElementFormat = 0x0600_0000
	ElementFormatIntegerList ElementFormat = 0x0700_0000
)

// Field masks of an ElementTypeCode.
const (
	ElementClassMask  ElementTypeCode = 0xF000_0000
	ElementFormatMask ElementTypeCode = 0x0F00_0000
	ElementIDMask     ElementTypeCode = 0x00FF_FFFF
)

// Class returns the class field.
func (c ElementTypeCode) Class() ElementClass {
	return ElementClass(c & ElementClassMask)
}

// Format returns the format field.
func (c ElementTypeCode) Format() ElementFormat {
	return ElementFormat(c & ElementFormatMask)
}

// ElementID returns the 24-bit element id field.
func (c ElementTypeCode) ElementID() uint32 {
	return uint32(c & ElementIDMask)
}

// String renders the code as the zero-padded 8-digit lowercase hex key used in the hive.
func (c ElementTypeCode) String() string {
	return fmt.Sprintf("%08x", uint32(c))
}

func (c ElementClass) String() string {
	switch c {
	case ElementClassLibrary:
		return "library"
	case ElementClassApplication:
		return "application"
	case ElementClassDevice:
		return "device"
	case ElementClassTemplate:
		return "template"
	default:
		return "unknown"
	}
}

func (f ElementFormat) String() string {
	switch f {
	case ElementFormatDevice:
		return "device"
	case ElementFormatString:
		return "string"
	case ElementFormatGUID:
		return "guid"
	case ElementFormatGUIDList:
		return "guid-list"
	case ElementFormatInteger:
		return "integer"
	case ElementFormatBoolean:
		return "boolean"
	case ElementFormatIntegerList:
		return "integer-list"
	default:
		return "unknown"
	}
}
