package types

// Device Descriptor
// Device-format elements (application device, OS device) carry a fixed 0x58-byte record that
// locates a partition by the identifiers of the partition and of the disk holding it.
//
//	0x00-0x0F  zero
//	0x10       device type (0x06 = qualified partition)
//	0x11-0x17  zero
//	0x18       fixed tag 0x48
//	0x19-0x1F  zero
//	0x20-0x2F  partition identifier, GUID mixed-endian form
//	0x30-0x37  zero
//	0x38-0x47  disk identifier, GUID mixed-endian form
//	0x48-0x57  zero

const (
	// DeviceDescriptorSize is the total size of a device descriptor in bytes.
	DeviceDescriptorSize = 0x58

	// DeviceTypeOffset is the offset of the device type byte.
	DeviceTypeOffset = 0x10
	// DeviceTagOffset is the offset of the fixed tag byte.
	DeviceTagOffset = 0x18
	// DevicePartitionIDOffset is the offset of the partition identifier.
	DevicePartitionIDOffset = 0x20
	// DeviceDiskIDOffset is the offset of the disk identifier.
	DeviceDiskIDOffset = 0x38

	// DeviceTypeQualifiedPartition marks a partition qualified by its disk.
	DeviceTypeQualifiedPartition byte = 0x06
	// DeviceTag is the fixed byte at DeviceTagOffset.
	DeviceTag byte = 0x48
)

// DeviceDescriptor is the decoded view of a device descriptor. The identifiers are kept in
// canonical (big-endian) GUID byte order.
type DeviceDescriptor struct {
	DeviceType  byte
	Tag         byte
	PartitionID [16]byte
	DiskID      [16]byte
}
