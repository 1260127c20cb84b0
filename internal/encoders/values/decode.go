package values

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"

	"github.com/deploymenttheory/go-bcd/internal/encoders/device"
	"github.com/deploymenttheory/go-bcd/internal/types"
)

// DecodeText reverses Text, dropping trailing null terminators.
func DecodeText(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", errors.Errorf("UTF-16LE data has odd length %d", len(data))
	}
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := decoder.Bytes(data)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode UTF-16LE")
	}
	return strings.TrimRight(string(out), "\x00"), nil
}

// DecodeMultiText reverses MultiText.
func DecodeMultiText(data []byte) ([]string, error) {
	text, err := DecodeText(data)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\x00"), nil
}

// Render returns a short human readable form of an encoded value for reports.
func Render(v types.Value) string {
	switch v.Type {
	case types.RegSz:
		s, err := DecodeText(v.Data)
		if err != nil {
			return fmt.Sprintf("<invalid: %v>", err)
		}
		return s
	case types.RegMultiSz:
		list, err := DecodeMultiText(v.Data)
		if err != nil {
			return fmt.Sprintf("<invalid: %v>", err)
		}
		return "[" + strings.Join(list, ", ") + "]"
	case types.RegDword:
		if len(v.Data) == 4 {
			return fmt.Sprintf("0x%x", binary.LittleEndian.Uint32(v.Data))
		}
	case types.RegBinary:
		switch len(v.Data) {
		case 8:
			return fmt.Sprintf("0x%x", binary.LittleEndian.Uint64(v.Data))
		case types.DeviceDescriptorSize:
			if d, err := device.Decode(v.Data); err == nil && d.DeviceType == types.DeviceTypeQualifiedPartition {
				return fmt.Sprintf("partition={%s} disk={%s}", uuid.UUID(d.PartitionID), uuid.UUID(d.DiskID))
			}
		}
	}
	return fmt.Sprintf("%x", v.Data)
}
