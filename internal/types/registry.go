package types

// Registry value types accepted by the hive store.
// Reference: winnt.h REG_* constants

// ValueType is the registry data type of a leaf value.
type ValueType uint32

const (
	// RegSz is a null-terminated UTF-16LE string.
	RegSz ValueType = 1
	// RegBinary is opaque binary data.
	RegBinary ValueType = 3
	// RegDword is a 32-bit little-endian integer.
	RegDword ValueType = 4
	// RegMultiSz is a sequence of null-terminated UTF-16LE strings ended by an empty string.
	RegMultiSz ValueType = 7
)

// String returns the winnt.h name of the value type.
func (t ValueType) String() string {
	switch t {
	case RegSz:
		return "REG_SZ"
	case RegBinary:
		return "REG_BINARY"
	case RegDword:
		return "REG_DWORD"
	case RegMultiSz:
		return "REG_MULTI_SZ"
	default:
		return "REG_UNKNOWN"
	}
}

// Value is an encoded leaf value ready to be attached to a store node.
type Value struct {
	// Type is the registry type the store records for Data.
	Type ValueType
	// Data is the raw payload exactly as it is persisted.
	Data []byte
}
