// Package types implements data structures for the Boot Configuration Data (BCD) store.
// The store is a registry hive whose keys describe boot objects and their typed elements;
// this package holds the identifier fields, well-known object identities and the
// in-memory object/element model that is written into that hive.
package types

// GUIDTextLength is the length of a braces-wrapped hyphenated GUID, for example
// "{9dea862c-5cdd-4e70-acc1-f32b344d4795}".
const GUIDTextLength = 38

// Node names used by the BCD hive layout.
const (
	// DescriptionKeyName is the name of the description key under the hive root and under every object key.
	DescriptionKeyName = "Description"
	// ObjectsKeyName is the name of the key holding one subkey per BCD object.
	ObjectsKeyName = "Objects"
	// ElementsKeyName is the name of the key holding one subkey per element of an object.
	ElementsKeyName = "Elements"
	// ElementValueName is the value name that carries an element's payload.
	ElementValueName = "Element"
)

// Value names used inside description keys.
const (
	// KeyNameValueName identifies the store itself (REG_SZ).
	KeyNameValueName = "KeyName"
	// SystemValueName marks the store as the system store (REG_DWORD).
	SystemValueName = "System"
	// TreatAsSystemValueName asks the boot manager to treat the store as the system store (REG_DWORD).
	TreatAsSystemValueName = "TreatAsSystem"
	// ObjectTypeValueName carries an object's ObjectTypeCode (REG_DWORD).
	ObjectTypeValueName = "Type"
	// FirmwareVariableValueName carries an optional firmware variable blob (REG_BINARY).
	FirmwareVariableValueName = "FirmwareVariable"
)

// StoreKeyName is the KeyName written into the root description key of a system store.
const StoreKeyName = "BCD00000000"
