package hive

import (
	"bytes"
	"encoding/binary"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-bcd/internal/types"
)

// parsedKey is a key read back from serialized hive bytes.
type parsedKey struct {
	name     string
	flags    uint16
	values   map[string]types.Value
	children []*parsedKey
	security uint32
}

type hiveParser struct {
	t    *testing.T
	bins []byte
}

func (p *hiveParser) cell(off uint32) []byte {
	size := int32(binary.LittleEndian.Uint32(p.bins[off:]))
	require.Less(p.t, size, int32(0), "cell at %#x is allocated", off)
	require.Zero(p.t, off%cellAlignment, "cell at %#x is aligned", off)
	return p.bins[off+4 : int32(off)-size]
}

func (p *hiveParser) key(off uint32) *parsedKey {
	d := p.cell(off)
	require.Equal(p.t, "nk", string(d[0:2]))
	le := binary.LittleEndian
	nameLen := le.Uint16(d[0x48:])
	k := &parsedKey{
		name:     string(d[nkHeaderSize : nkHeaderSize+int(nameLen)]),
		flags:    le.Uint16(d[0x02:]),
		values:   map[string]types.Value{},
		security: le.Uint32(d[0x2C:]),
	}

	if count := le.Uint32(d[0x24:]); count > 0 {
		list := p.cell(le.Uint32(d[0x28:]))
		for i := uint32(0); i < count; i++ {
			name, v := p.value(le.Uint32(list[i*4:]))
			k.values[name] = v
		}
	}

	if count := le.Uint32(d[0x14:]); count > 0 {
		lh := p.cell(le.Uint32(d[0x1C:]))
		require.Equal(p.t, "lh", string(lh[0:2]))
		require.Equal(p.t, uint16(count), le.Uint16(lh[2:]))
		for i := uint32(0); i < count; i++ {
			entry := lh[lhHeaderSize+i*lhEntrySize:]
			child := p.key(le.Uint32(entry[0:]))
			assert.Equal(p.t, nameHash(child.name), le.Uint32(entry[4:]), "hash of %s", child.name)
			k.children = append(k.children, child)
		}
	}
	return k
}

func (p *hiveParser) value(off uint32) (string, types.Value) {
	d := p.cell(off)
	require.Equal(p.t, "vk", string(d[0:2]))
	le := binary.LittleEndian
	nameLen := le.Uint16(d[0x02:])
	size := le.Uint32(d[0x04:])
	v := types.Value{Type: types.ValueType(le.Uint32(d[0x0C:]))}
	if size&inlineDataFlag != 0 {
		v.Data = append([]byte{}, d[0x08:0x08+size&^inlineDataFlag]...)
	} else {
		v.Data = append([]byte{}, p.cell(le.Uint32(d[0x08:]))[:size]...)
	}
	return string(d[vkHeaderSize : vkHeaderSize+int(nameLen)]), v
}

func (k *parsedKey) child(t *testing.T, name string) *parsedKey {
	for _, c := range k.children {
		if strings.EqualFold(c.name, name) {
			return c
		}
	}
	t.Fatalf("key %s has no child %s", k.name, name)
	return nil
}

func parseHive(t *testing.T, data []byte) *parsedKey {
	t.Helper()
	require.GreaterOrEqual(t, len(data), baseBlockSize+binAlignment)
	le := binary.LittleEndian

	base := data[:baseBlockSize]
	require.Equal(t, "regf", string(base[0:4]))
	assert.Equal(t, baseBlockChecksum(base), le.Uint32(base[baseChecksum:]))
	assert.Equal(t, le.Uint32(base[basePrimarySeq:]), le.Uint32(base[baseSecondarySeq:]))
	assert.Equal(t, uint32(1), le.Uint32(base[baseMajorVersion:]))

	binsSize := le.Uint32(base[baseHiveBinsSize:])
	require.Equal(t, int(binsSize), len(data)-baseBlockSize)
	require.Zero(t, binsSize%binAlignment)

	p := &hiveParser{t: t, bins: data[baseBlockSize:]}
	require.Equal(t, "hbin", string(p.bins[0:4]))
	return p.key(le.Uint32(base[baseRootCell:]))
}

func sampleStore(t *testing.T, opts ...Option) *Store {
	s := NewStore(opts...)
	desc, err := s.AddChild(s.Root(), "Description")
	require.NoError(t, err)
	require.NoError(t, s.SetValue(desc, "KeyName", types.RegSz, []byte("B\x00C\x00D\x00\x00\x00")))
	require.NoError(t, s.SetValue(desc, "System", types.RegDword, []byte{1, 0, 0, 0}))

	objects, err := s.AddChild(s.Root(), "Objects")
	require.NoError(t, err)
	for _, name := range []string{"{b}", "{a}", "{C}"} {
		obj, err := s.AddChild(objects, name)
		require.NoError(t, err)
		require.NoError(t, s.SetValue(obj, "Element", types.RegBinary, bytes.Repeat([]byte{0xAB}, 0x58)))
	}
	return s
}

func TestSerializeRoundTrip(t *testing.T) {
	s := sampleStore(t)
	data, err := s.Serialize()
	require.NoError(t, err)

	root := parseHive(t, data)
	assert.Equal(t, DefaultRootName, root.name)
	assert.NotZero(t, root.flags&keyHiveEntry)
	assert.NotZero(t, root.flags&keyCompName)

	desc := root.child(t, "Description")
	assert.Equal(t, types.Value{Type: types.RegDword, Data: []byte{1, 0, 0, 0}}, desc.values["System"])
	assert.Equal(t, types.RegSz, desc.values["KeyName"].Type)
	assert.Equal(t, []byte("B\x00C\x00D\x00\x00\x00"), desc.values["KeyName"].Data)

	objects := root.child(t, "Objects")
	var names []string
	for _, c := range objects.children {
		names = append(names, c.name)
		assert.Equal(t, bytes.Repeat([]byte{0xAB}, 0x58), c.values["Element"].Data)
		assert.Equal(t, root.security, c.security, "keys share one security cell")
	}
	assert.Equal(t, []string{"{a}", "{b}", "{C}"}, names, "subkeys sorted case-insensitively")
	assert.True(t, sort.SliceIsSorted(names, func(i, j int) bool {
		return strings.ToUpper(names[i]) < strings.ToUpper(names[j])
	}))
}

func TestSerializeDeterministic(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	a, err := sampleStore(t, WithTimestamp(ts)).Serialize()
	require.NoError(t, err)
	b, err := sampleStore(t, WithTimestamp(ts)).Serialize()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	assert.Equal(t, ToFiletime(ts), binary.LittleEndian.Uint64(a[baseTimestamp:]))
}

func TestSerializeSpansBins(t *testing.T) {
	s := NewStore()
	for i := 0; i < 8; i++ {
		k, err := s.AddChild(s.Root(), strings.Repeat(string(rune('a'+i)), 10))
		require.NoError(t, err)
		require.NoError(t, s.SetValue(k, "Data", types.RegBinary, bytes.Repeat([]byte{byte(i)}, 3000)))
	}
	data, err := s.Serialize()
	require.NoError(t, err)

	root := parseHive(t, data)
	require.Len(t, root.children, 8)
	for i, c := range root.children {
		assert.Equal(t, bytes.Repeat([]byte{byte(i)}, 3000), c.values["Data"].Data)
	}
}

func TestSerializeLargestValue(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.SetValue(s.Root(), "Max", types.RegBinary, bytes.Repeat([]byte{7}, maxInlineDataSize)))
	data, err := s.Serialize()
	require.NoError(t, err)

	root := parseHive(t, data)
	assert.Len(t, root.values["Max"].Data, maxInlineDataSize)
}

func TestBaseBlockChecksum(t *testing.T) {
	base := make([]byte, baseBlockSize)
	assert.Equal(t, uint32(1), baseBlockChecksum(base))

	binary.LittleEndian.PutUint32(base[0:], 0xFFFFFFFF)
	assert.Equal(t, uint32(0xFFFFFFFE), baseBlockChecksum(base))

	binary.LittleEndian.PutUint32(base[4:], 0x0000FFFF)
	assert.Equal(t, uint32(0xFFFF0000), baseBlockChecksum(base))
}

func TestNameHash(t *testing.T) {
	assert.Equal(t, nameHash("objects"), nameHash("OBJECTS"))
	assert.Equal(t, uint32('A'), nameHash("a"))
	assert.Equal(t, uint32('A')*37+uint32('B'), nameHash("ab"))
}

func TestDefaultSecurityDescriptor(t *testing.T) {
	sd := defaultSecurityDescriptor()
	le := binary.LittleEndian
	assert.Equal(t, byte(1), sd[0])
	assert.Equal(t, uint16(seSelfRelative|seDaclPresent), le.Uint16(sd[2:]))

	owner := sd[le.Uint32(sd[4:]):]
	assert.Equal(t, sidAdministrators.bytes(), owner[:16])
	group := sd[le.Uint32(sd[8:]):]
	assert.Equal(t, sidLocalSystem.bytes(), group[:12])

	dacl := sd[le.Uint32(sd[16:]):]
	assert.Equal(t, uint16(2), le.Uint16(dacl[4:]), "ace count")
	assert.Equal(t, uint32(keyAllAccess), le.Uint32(dacl[aclHeaderSize+4:]))
}
