// Package identifiers derives BCD object and element type codes from their bit-fields and
// renders object identities in the textual GUID form used by the hive.
package identifiers

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/deploymenttheory/go-bcd/internal/types"
)

// ObjectType composes an object type code from its category, subtype and 20-bit object id.
// The fields are combined with a bitwise OR; an id that spills out of its field is not masked,
// so a defective table entry shows up as a self-check mismatch instead of being hidden.
func ObjectType(category types.ObjectCategory, subtype types.ObjectSubtype, objectID uint32) types.ObjectTypeCode {
	return types.ObjectTypeCode(uint32(category) | uint32(subtype) | objectID)
}

// ElementType composes an element type code from its class, format and 24-bit element id.
func ElementType(class types.ElementClass, format types.ElementFormat, elementID uint32) types.ElementTypeCode {
	return types.ElementTypeCode(uint32(class) | uint32(format) | elementID)
}

// ElementKey returns the hive key name of an element type code: 8 zero-padded lowercase hex digits.
func ElementKey(class types.ElementClass, format types.ElementFormat, elementID uint32) string {
	return ElementType(class, format, elementID).String()
}

// FormatGUID renders an identifier as a braces-wrapped lowercase hyphenated GUID.
func FormatGUID(id uuid.UUID) string {
	return "{" + id.String() + "}"
}

// ParseGUID accepts a GUID with or without braces, in any letter case.
func ParseGUID(s string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(s)
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, "invalid GUID %q", s)
	}
	return id, nil
}

// NormalizeGUID returns the canonical braces-wrapped lowercase form of s.
func NormalizeGUID(s string) (string, error) {
	id, err := ParseGUID(s)
	if err != nil {
		return "", err
	}
	return FormatGUID(id), nil
}
