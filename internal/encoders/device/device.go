// Package device encodes the fixed-layout device descriptor that BCD device elements use to
// locate a partition on a disk.
package device

import (
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/deploymenttheory/go-bcd/internal/types"
)

// ErrDescriptorSize is returned when decoding a buffer that is not exactly one descriptor long.
var ErrDescriptorSize = stderrors.New("device descriptor has wrong size")

// MixedEndian converts a GUID into its on-disk form: the first three groups little-endian,
// the last two groups in network order.
func MixedEndian(id uuid.UUID) [16]byte {
	var out [16]byte
	out[0], out[1], out[2], out[3] = id[3], id[2], id[1], id[0]
	out[4], out[5] = id[5], id[4]
	out[6], out[7] = id[7], id[6]
	copy(out[8:], id[8:])
	return out
}

// FromMixedEndian reverses MixedEndian.
func FromMixedEndian(b [16]byte) uuid.UUID {
	var id uuid.UUID
	id[0], id[1], id[2], id[3] = b[3], b[2], b[1], b[0]
	id[4], id[5] = b[5], b[4]
	id[6], id[7] = b[7], b[6]
	copy(id[8:], b[8:])
	return id
}

// Encode builds the descriptor of a partition qualified by its disk. The identifiers are not
// validated; any pair of values yields a structurally valid descriptor.
func Encode(diskID, partitionID uuid.UUID) []byte {
	out := make([]byte, types.DeviceDescriptorSize)
	out[types.DeviceTypeOffset] = types.DeviceTypeQualifiedPartition
	out[types.DeviceTagOffset] = types.DeviceTag

	partition := MixedEndian(partitionID)
	copy(out[types.DevicePartitionIDOffset:types.DevicePartitionIDOffset+16], partition[:])

	disk := MixedEndian(diskID)
	copy(out[types.DeviceDiskIDOffset:types.DeviceDiskIDOffset+16], disk[:])

	return out
}

// Decode reads back a descriptor produced by Encode. It is used for reporting only and does not
// try to understand other device kinds.
func Decode(data []byte) (types.DeviceDescriptor, error) {
	var d types.DeviceDescriptor
	if len(data) != types.DeviceDescriptorSize {
		return d, errors.Wrapf(ErrDescriptorSize, "got %d bytes, want %d", len(data), types.DeviceDescriptorSize)
	}

	d.DeviceType = data[types.DeviceTypeOffset]
	d.Tag = data[types.DeviceTagOffset]

	var raw [16]byte
	copy(raw[:], data[types.DevicePartitionIDOffset:types.DevicePartitionIDOffset+16])
	d.PartitionID = FromMixedEndian(raw)
	copy(raw[:], data[types.DeviceDiskIDOffset:types.DeviceDiskIDOffset+16])
	d.DiskID = FromMixedEndian(raw)

	return d, nil
}
