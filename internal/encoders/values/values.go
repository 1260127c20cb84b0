// Package values converts element payloads into the registry value encodings the hive store
// accepts. The adapter does not look at an element's declared format: several integer elements
// are conventionally stored as 8-byte REG_BINARY rather than REG_DWORD, so choosing the
// encoder is the caller's job.
package values

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"

	"github.com/deploymenttheory/go-bcd/internal/types"
)

var nullTerminator = []byte{0x00, 0x00}

// utf16LE returns s encoded as UTF-16LE without a byte order mark or terminator.
func utf16LE(s string) ([]byte, error) {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	out, err := encoder.Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %q as UTF-16LE", s)
	}
	return out, nil
}

// Text encodes s as a REG_SZ: UTF-16LE followed by one UTF-16 null terminator.
func Text(s string) (types.Value, error) {
	encoded, err := utf16LE(s)
	if err != nil {
		return types.Value{}, err
	}
	return types.Value{Type: types.RegSz, Data: append(encoded, nullTerminator...)}, nil
}

// MultiText encodes list as a REG_MULTI_SZ: every string null-terminated, then one more
// terminator marking the end of the list.
func MultiText(list []string) (types.Value, error) {
	var data []byte
	for _, s := range list {
		encoded, err := utf16LE(s)
		if err != nil {
			return types.Value{}, err
		}
		data = append(data, encoded...)
		data = append(data, nullTerminator...)
	}
	data = append(data, nullTerminator...)
	return types.Value{Type: types.RegMultiSz, Data: data}, nil
}

// Dword encodes n as a 4-byte little-endian REG_DWORD.
func Dword(n uint32) types.Value {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, n)
	return types.Value{Type: types.RegDword, Data: data}
}

// Binary stores data unchanged as REG_BINARY.
func Binary(data []byte) types.Value {
	out := make([]byte, len(data))
	copy(out, data)
	return types.Value{Type: types.RegBinary, Data: out}
}

// Qword packs n little-endian into 8 bytes of REG_BINARY, the form BCD integer elements use.
func Qword(n uint64) types.Value {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, n)
	return Binary(data)
}

// Bool stores a single byte of REG_BINARY: 0x01 for true, 0x00 for false.
func Bool(b bool) types.Value {
	if b {
		return Binary([]byte{0x01})
	}
	return Binary([]byte{0x00})
}
