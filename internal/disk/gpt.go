// Package disk reads GUID partition tables from raw disk images so the
// identifiers a store refers to can be taken from the target disk itself.
package disk

import (
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"

	"github.com/deploymenttheory/go-bcd/internal/encoders/device"
	"github.com/deploymenttheory/go-bcd/internal/types"
)

var (
	// ErrNoGPT is returned when the image carries no primary GPT header.
	ErrNoGPT = stderrors.New("no valid GPT signature found")
	// ErrPartitionNotFound is returned when a required partition type is absent.
	ErrPartitionNotFound = stderrors.New("partition not found")
)

var (
	efiSystemType      = uuid.MustParse(types.GPTTypeEFISystem)
	microsoftBasicType = uuid.MustParse(types.GPTTypeMicrosoftBasic)
)

// Partition is one used GPT partition entry
type Partition struct {
	Index    int
	Type     uuid.UUID
	ID       uuid.UUID
	FirstLBA uint64
	LastLBA  uint64
	Name     string
}

// Size returns the partition size in bytes
func (p Partition) Size() uint64 {
	if p.LastLBA < p.FirstLBA {
		return 0
	}
	return (p.LastLBA - p.FirstLBA + 1) * types.GPTSectorSize
}

// PartitionTable is the decoded primary GPT
type PartitionTable struct {
	DiskID     uuid.UUID
	Partitions []Partition
}

// Identifiers holds the three GUIDs a boot store needs from the disk
type Identifiers struct {
	DiskID             uuid.UUID
	EFIPartitionID     uuid.UUID
	WindowsPartitionID uuid.UUID
}

// OpenPartitionTable reads the partition table of the image at path
func OpenPartitionTable(path string) (*PartitionTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open disk image")
	}
	defer f.Close()

	return ReadPartitionTable(f)
}

// ReadPartitionTable decodes the primary GPT header and its entries
func ReadPartitionTable(r io.ReaderAt) (*PartitionTable, error) {
	header := make([]byte, types.GPTHeaderMinimumSize)
	if _, err := r.ReadAt(header, types.GPTHeaderOffset); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrNoGPT
		}
		return nil, errors.Wrap(err, "failed to read GPT header")
	}
	if !bytes.Equal(header[:len(types.GPTSignature)], []byte(types.GPTSignature)) {
		return nil, ErrNoGPT
	}

	le := binary.LittleEndian
	entriesLBA := le.Uint64(header[types.GPTHeaderEntriesLBAOffset:])
	count := le.Uint32(header[types.GPTHeaderEntryCountOffset:])
	entrySize := le.Uint32(header[types.GPTHeaderEntrySizeOffset:])

	if entrySize < types.GPTMinimumEntrySize || entrySize > types.GPTMaxEntrySize || entrySize%8 != 0 {
		return nil, errors.Errorf("invalid GPT entry size %d", entrySize)
	}
	if count > types.GPTMaxPartitionEntries {
		count = types.GPTMaxPartitionEntries
	}

	table := &PartitionTable{DiskID: guidAt(header, types.GPTHeaderDiskGUIDOffset)}

	entries := make([]byte, int(count)*int(entrySize))
	n, err := r.ReadAt(entries, int64(entriesLBA)*types.GPTSectorSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "failed to read GPT entries")
	}

	for i := 0; (i+1)*int(entrySize) <= n; i++ {
		entry := entries[i*int(entrySize) : (i+1)*int(entrySize)]
		partType := guidAt(entry, types.GPTEntryTypeGUIDOffset)
		if partType == uuid.Nil {
			continue
		}
		table.Partitions = append(table.Partitions, Partition{
			Index:    i,
			Type:     partType,
			ID:       guidAt(entry, types.GPTEntryUniqueGUIDOffset),
			FirstLBA: le.Uint64(entry[types.GPTEntryFirstLBAOffset:]),
			LastLBA:  le.Uint64(entry[types.GPTEntryLastLBAOffset:]),
			Name:     decodeName(entry[types.GPTEntryNameOffset : types.GPTEntryNameOffset+types.GPTEntryNameSize]),
		})
	}

	return table, nil
}

// Find returns the first partition of the given type
func (t *PartitionTable) Find(partType uuid.UUID) (Partition, bool) {
	for _, p := range t.Partitions {
		if p.Type == partType {
			return p, true
		}
	}
	return Partition{}, false
}

// Identifiers picks the EFI system partition and the first Microsoft basic
// data partition, which holds the Windows installation.
func (t *PartitionTable) Identifiers() (Identifiers, error) {
	esp, ok := t.Find(efiSystemType)
	if !ok {
		return Identifiers{}, errors.Wrap(ErrPartitionNotFound, "EFI system partition")
	}
	windows, ok := t.Find(microsoftBasicType)
	if !ok {
		return Identifiers{}, errors.Wrap(ErrPartitionNotFound, "Microsoft basic data partition")
	}
	return Identifiers{
		DiskID:             t.DiskID,
		EFIPartitionID:     esp.ID,
		WindowsPartitionID: windows.ID,
	}, nil
}

func guidAt(b []byte, off int) uuid.UUID {
	var raw [16]byte
	copy(raw[:], b[off:off+16])
	return device.FromMixedEndian(raw)
}

func decodeName(b []byte) string {
	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(decoded), "\x00")
}
