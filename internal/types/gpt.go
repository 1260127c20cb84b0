package types

// GPT (GUID Partition Table) layout
// Reference: UEFI Specification 2.10, section 5.3

const (
	// GPTSectorSize is the logical sector size assumed for disk images.
	GPTSectorSize = 512
	// GPTHeaderOffset is the byte offset of the primary GPT header (LBA 1).
	GPTHeaderOffset = GPTSectorSize
	// GPTSignature opens every GPT header.
	GPTSignature = "EFI PART"

	// Header field offsets
	GPTHeaderDiskGUIDOffset   = 56
	GPTHeaderEntriesLBAOffset = 72
	GPTHeaderEntryCountOffset = 80
	GPTHeaderEntrySizeOffset  = 84
	GPTHeaderMinimumSize      = 92

	GPTMaxPartitionEntries = 128
	GPTMinimumEntrySize    = 128

	// GPTMaxEntrySize bounds the entry size read from an untrusted header.
	GPTMaxEntrySize = 8 * GPTSectorSize

	// Partition entry field offsets
	GPTEntryTypeGUIDOffset   = 0
	GPTEntryUniqueGUIDOffset = 16
	GPTEntryFirstLBAOffset   = 32
	GPTEntryLastLBAOffset    = 40
	GPTEntryNameOffset       = 56
	GPTEntryNameSize         = 72
)

// Partition type GUIDs in canonical text form
const (
	GPTTypeEFISystem        = "c12a7328-f81f-11d2-ba4b-00a0c93ec93b"
	GPTTypeMicrosoftBasic   = "ebd0a0a2-b9e5-4433-87c0-68b6b72699c7"
	GPTTypeMicrosoftReserve = "e3c9e316-0b5c-4db8-817d-f92df00215ae"
	GPTTypeWindowsRecovery  = "de94bba4-06d1-4d40-a16a-bfd50179d6ac"
)
