package disk

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-bcd/internal/encoders/device"
	"github.com/deploymenttheory/go-bcd/internal/types"
)

var (
	testDiskID    = uuid.MustParse("a1b2c3d4-e5f6-4789-8abc-def012345678")
	testESPID     = uuid.MustParse("0f0e0d0c-0b0a-4908-8706-050403020100")
	testMSRID     = uuid.MustParse("12345678-9abc-4def-8123-456789abcdef")
	testWindowsID = uuid.MustParse("fedcba98-7654-4321-8fed-cba987654321")
)

type testPartition struct {
	typ   string
	id    uuid.UUID
	first uint64
	last  uint64
	name  string
}

// gptImage lays out a protective MBR sector, a primary header at LBA 1 and
// the entry array at LBA 2.
func gptImage(t *testing.T, parts ...testPartition) []byte {
	t.Helper()
	const entries = 128
	img := make([]byte, types.GPTSectorSize*2+entries*types.GPTMinimumEntrySize)
	le := binary.LittleEndian

	header := img[types.GPTHeaderOffset:]
	copy(header, types.GPTSignature)
	disk := device.MixedEndian(testDiskID)
	copy(header[types.GPTHeaderDiskGUIDOffset:], disk[:])
	le.PutUint64(header[types.GPTHeaderEntriesLBAOffset:], 2)
	le.PutUint32(header[types.GPTHeaderEntryCountOffset:], entries)
	le.PutUint32(header[types.GPTHeaderEntrySizeOffset:], types.GPTMinimumEntrySize)

	for i, p := range parts {
		entry := img[types.GPTSectorSize*2+i*types.GPTMinimumEntrySize:]
		typ := device.MixedEndian(uuid.MustParse(p.typ))
		id := device.MixedEndian(p.id)
		copy(entry[types.GPTEntryTypeGUIDOffset:], typ[:])
		copy(entry[types.GPTEntryUniqueGUIDOffset:], id[:])
		le.PutUint64(entry[types.GPTEntryFirstLBAOffset:], p.first)
		le.PutUint64(entry[types.GPTEntryLastLBAOffset:], p.last)
		for j, r := range p.name {
			le.PutUint16(entry[types.GPTEntryNameOffset+2*j:], uint16(r))
		}
	}
	return img
}

func windowsLayout() []testPartition {
	return []testPartition{
		{types.GPTTypeEFISystem, testESPID, 2048, 206847, "EFI system partition"},
		{types.GPTTypeMicrosoftReserve, testMSRID, 206848, 239615, "Microsoft reserved partition"},
		{types.GPTTypeMicrosoftBasic, testWindowsID, 239616, 62912511, "Basic data partition"},
	}
}

func TestReadPartitionTable(t *testing.T) {
	table, err := ReadPartitionTable(bytes.NewReader(gptImage(t, windowsLayout()...)))
	require.NoError(t, err)

	assert.Equal(t, testDiskID, table.DiskID)
	require.Len(t, table.Partitions, 3)

	esp := table.Partitions[0]
	assert.Equal(t, 0, esp.Index)
	assert.Equal(t, uuid.MustParse(types.GPTTypeEFISystem), esp.Type)
	assert.Equal(t, testESPID, esp.ID)
	assert.Equal(t, "EFI system partition", esp.Name)
	assert.Equal(t, uint64(100*1024*1024), esp.Size())

	assert.Equal(t, "Basic data partition", table.Partitions[2].Name)
}

func TestReadPartitionTableSkipsUnusedEntries(t *testing.T) {
	parts := windowsLayout()
	img := gptImage(t, parts[0], testPartition{typ: uuid.Nil.String()}, parts[2])

	table, err := ReadPartitionTable(bytes.NewReader(img))
	require.NoError(t, err)
	require.Len(t, table.Partitions, 2)
	assert.Equal(t, 2, table.Partitions[1].Index)
}

func TestReadPartitionTableNoSignature(t *testing.T) {
	_, err := ReadPartitionTable(bytes.NewReader(make([]byte, 4096)))
	assert.ErrorIs(t, err, ErrNoGPT)

	_, err = ReadPartitionTable(bytes.NewReader(make([]byte, 100)))
	assert.ErrorIs(t, err, ErrNoGPT)
}

func TestReadPartitionTableInvalidEntrySize(t *testing.T) {
	tests := []struct {
		name string
		size uint32
	}{
		{"too small", 64},
		{"not a multiple of 8", 132},
		{"just over the limit", types.GPTMaxEntrySize + 8},
		{"huge", 0x7FFFFFF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := gptImage(t, windowsLayout()...)
			binary.LittleEndian.PutUint32(img[types.GPTHeaderOffset+types.GPTHeaderEntrySizeOffset:], tt.size)

			_, err := ReadPartitionTable(bytes.NewReader(img))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid GPT entry size")
		})
	}
}

func TestReadPartitionTableTruncatedEntries(t *testing.T) {
	img := gptImage(t, windowsLayout()...)
	// Keep the first two entries only.
	img = img[:types.GPTSectorSize*2+2*types.GPTMinimumEntrySize]

	table, err := ReadPartitionTable(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Len(t, table.Partitions, 2)
}

func TestIdentifiers(t *testing.T) {
	table, err := ReadPartitionTable(bytes.NewReader(gptImage(t, windowsLayout()...)))
	require.NoError(t, err)

	ids, err := table.Identifiers()
	require.NoError(t, err)
	assert.Equal(t, Identifiers{
		DiskID:             testDiskID,
		EFIPartitionID:     testESPID,
		WindowsPartitionID: testWindowsID,
	}, ids)
}

func TestIdentifiersSkipsRecoveryPartition(t *testing.T) {
	recoveryID := uuid.MustParse("5b6c7d8e-9fa0-4b1c-8d2e-3f4a5b6c7d8e")
	parts := windowsLayout()
	img := gptImage(t,
		parts[0],
		testPartition{types.GPTTypeWindowsRecovery, recoveryID, 206848, 2254847, "Recovery"},
		parts[2],
	)

	table, err := ReadPartitionTable(bytes.NewReader(img))
	require.NoError(t, err)

	recovery, ok := table.Find(uuid.MustParse(types.GPTTypeWindowsRecovery))
	require.True(t, ok)
	assert.Equal(t, recoveryID, recovery.ID)

	ids, err := table.Identifiers()
	require.NoError(t, err)
	assert.Equal(t, testWindowsID, ids.WindowsPartitionID)
}

func TestIdentifiersMissingPartition(t *testing.T) {
	parts := windowsLayout()

	tests := []struct {
		name  string
		parts []testPartition
		want  string
	}{
		{"no esp", parts[1:], "EFI system partition"},
		{"no basic data", parts[:2], "Microsoft basic data partition"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadPartitionTable(bytes.NewReader(gptImage(t, tt.parts...)))
			require.NoError(t, err)

			_, err = table.Identifiers()
			require.ErrorIs(t, err, ErrPartitionNotFound)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOpenPartitionTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	require.NoError(t, os.WriteFile(path, gptImage(t, windowsLayout()...), 0o644))

	table, err := OpenPartitionTable(path)
	require.NoError(t, err)
	assert.Equal(t, testDiskID, table.DiskID)

	_, err = OpenPartitionTable(filepath.Join(t.TempDir(), "missing.img"))
	assert.Error(t, err)
}
