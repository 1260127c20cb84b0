package hive

import (
	"encoding/binary"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"

	"github.com/deploymenttheory/go-bcd/internal/interfaces"
)

// Hive file layout
// A regf file is a 4 KiB base block followed by hive bins. Each bin starts with a 32-byte
// header and is filled with cells; every cell begins with a signed 32-bit size (negative when
// allocated) and is 8-byte aligned. Cell offsets are relative to the first bin.
// Reference: Windows registry file format specification (msuhanov/regf)

const (
	baseBlockSize  = 4096
	binAlignment   = 4096
	binHeaderSize  = 32
	cellAlignment  = 8
	noCell         = 0xFFFFFFFF
	inlineDataFlag = 0x80000000

	// maxInlineDataSize is the largest value payload stored in a single data cell; larger
	// payloads need big data records, which this writer does not produce.
	maxInlineDataSize = 16344

	nkHeaderSize = 0x4C
	vkHeaderSize = 0x14
	skHeaderSize = 0x14
	lhHeaderSize = 0x04
	lhEntrySize  = 0x08
)

// Base block field offsets.
const (
	baseSignature       = 0x00
	basePrimarySeq      = 0x04
	baseSecondarySeq    = 0x08
	baseTimestamp       = 0x0C
	baseMajorVersion    = 0x14
	baseMinorVersion    = 0x18
	baseFileType        = 0x1C
	baseFileFormat      = 0x20
	baseRootCell        = 0x24
	baseHiveBinsSize    = 0x28
	baseClustering      = 0x2C
	baseChecksum        = 0x1FC
	baseChecksumCovered = 0x1FC
)

// Key node flags.
const (
	keyHiveEntry = 0x0004
	keyNoDelete  = 0x0008
	keyCompName  = 0x0020
)

// Key value flags.
const valueCompName = 0x0001

var le = binary.LittleEndian

type writer struct {
	store *Store
	opts  WriterOptions

	bins   []byte
	binEnd int
	used   int
	sk     uint32
}

func newWriter(store *Store, opts WriterOptions) *writer {
	return &writer{store: store, opts: opts}
}

func align(n, to int) int {
	return (n + to - 1) / to * to
}

// alloc reserves an allocated cell with room for size bytes of payload and returns its offset.
func (w *writer) alloc(size int) uint32 {
	cellSize := align(size+4, cellAlignment)
	if w.used+cellSize > w.binEnd {
		w.closeBin()
		w.openBin(cellSize)
	}
	off := w.used
	le.PutUint32(w.bins[off:], uint32(-int32(cellSize)))
	w.used += cellSize
	return uint32(off)
}

// data returns the payload area of the cell at off.
func (w *writer) data(off uint32) []byte {
	size := -int32(le.Uint32(w.bins[off:]))
	return w.bins[off+4 : int(off)+int(size)]
}

func (w *writer) openBin(minCell int) {
	size := binAlignment
	if minCell+binHeaderSize > size {
		size = align(minCell+binHeaderSize, binAlignment)
	}
	start := len(w.bins)
	w.bins = append(w.bins, make([]byte, size)...)

	hdr := w.bins[start:]
	copy(hdr[0:4], "hbin")
	le.PutUint32(hdr[4:], uint32(start))
	le.PutUint32(hdr[8:], uint32(size))
	if start == 0 {
		le.PutUint64(hdr[20:], w.opts.Timestamp)
	}

	w.binEnd = start + size
	w.used = start + binHeaderSize
}

// closeBin marks the unused tail of the current bin as one free cell.
func (w *writer) closeBin() {
	if rest := w.binEnd - w.used; rest > 0 {
		le.PutUint32(w.bins[w.used:], uint32(rest))
	}
	w.used = w.binEnd
}

func (w *writer) write() ([]byte, error) {
	sd := defaultSecurityDescriptor()
	w.sk = w.alloc(skHeaderSize + len(sd))
	sk := w.data(w.sk)
	copy(sk[0:2], "sk")
	le.PutUint32(sk[4:], w.sk)
	le.PutUint32(sk[8:], w.sk)
	le.PutUint32(sk[12:], uint32(w.store.Len()))
	le.PutUint32(sk[16:], uint32(len(sd)))
	copy(sk[skHeaderSize:], sd)

	root, err := w.writeKey(w.store.Root(), 0, true)
	if err != nil {
		return nil, err
	}
	w.closeBin()

	out := make([]byte, baseBlockSize, baseBlockSize+len(w.bins))
	w.fillBaseBlock(out, root)
	return append(out, w.bins...), nil
}

func (w *writer) fillBaseBlock(base []byte, root uint32) {
	copy(base[baseSignature:], "regf")
	le.PutUint32(base[basePrimarySeq:], 1)
	le.PutUint32(base[baseSecondarySeq:], 1)
	le.PutUint64(base[baseTimestamp:], w.opts.Timestamp)
	le.PutUint32(base[baseMajorVersion:], 1)
	le.PutUint32(base[baseMinorVersion:], w.opts.MinorVersion)
	le.PutUint32(base[baseFileType:], 0)
	le.PutUint32(base[baseFileFormat:], 1)
	le.PutUint32(base[baseRootCell:], root)
	le.PutUint32(base[baseHiveBinsSize:], uint32(len(w.bins)))
	le.PutUint32(base[baseClustering:], 1)
	le.PutUint32(base[baseChecksum:], baseBlockChecksum(base))
}

// baseBlockChecksum is the XOR of the first 127 dwords, with 0 and 0xFFFFFFFF remapped.
func baseBlockChecksum(base []byte) uint32 {
	var sum uint32
	for i := 0; i < baseChecksumCovered; i += 4 {
		sum ^= le.Uint32(base[i:])
	}
	switch sum {
	case 0:
		return 1
	case 0xFFFFFFFF:
		return 0xFFFFFFFE
	}
	return sum
}

// encodeName returns the on-disk form of a key or value name and whether it is stored
// compressed (one byte per character).
func encodeName(name string) ([]byte, bool, error) {
	ascii := true
	for i := 0; i < len(name); i++ {
		if name[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return []byte(name), true, nil
	}
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(name))
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to encode name %q", name)
	}
	return encoded, false, nil
}

// utf16Length is the length of name in UTF-16 bytes, the unit the registry uses for
// the largest-name fields of a key node.
func utf16Length(name string) uint32 {
	n := 0
	for _, r := range name {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return uint32(n * 2)
}

// nameHash is the lh list hash of a key name.
func nameHash(name string) uint32 {
	var h uint32
	for _, r := range strings.ToUpper(name) {
		h = h*37 + uint32(r)
	}
	return h
}

func (w *writer) writeKey(id interfaces.NodeID, parent uint32, isRoot bool) (uint32, error) {
	n := w.store.nodes[id]
	name, compressed, err := encodeName(n.name)
	if err != nil {
		return 0, err
	}
	nk := w.alloc(nkHeaderSize + len(name))

	var maxValueName, maxValueData uint32
	valueList := uint32(noCell)
	if len(n.values) > 0 {
		offsets := make([]uint32, 0, len(n.values))
		for _, v := range n.values {
			off, err := w.writeValue(v)
			if err != nil {
				return 0, errors.Wrapf(err, "key %s", n.name)
			}
			offsets = append(offsets, off)
			if l := utf16Length(v.Name); l > maxValueName {
				maxValueName = l
			}
			if l := uint32(len(v.Value.Data)); l > maxValueData {
				maxValueData = l
			}
		}
		valueList = w.alloc(4 * len(offsets))
		list := w.data(valueList)
		for i, off := range offsets {
			le.PutUint32(list[i*4:], off)
		}
	}

	children := make([]interfaces.NodeID, len(n.children))
	copy(children, n.children)
	sort.SliceStable(children, func(i, j int) bool {
		return foldName(w.store.nodes[children[i]].name) < foldName(w.store.nodes[children[j]].name)
	})

	var maxSubkeyName uint32
	subkeyList := uint32(noCell)
	if len(children) > 0 {
		offsets := make([]uint32, 0, len(children))
		for _, child := range children {
			off, err := w.writeKey(child, nk, false)
			if err != nil {
				return 0, err
			}
			offsets = append(offsets, off)
			if l := utf16Length(w.store.nodes[child].name); l > maxSubkeyName {
				maxSubkeyName = l
			}
		}
		subkeyList = w.alloc(lhHeaderSize + lhEntrySize*len(offsets))
		lh := w.data(subkeyList)
		copy(lh[0:2], "lh")
		le.PutUint16(lh[2:], uint16(len(offsets)))
		for i, off := range offsets {
			entry := lh[lhHeaderSize+i*lhEntrySize:]
			le.PutUint32(entry[0:], off)
			le.PutUint32(entry[4:], nameHash(w.store.nodes[children[i]].name))
		}
	}

	var flags uint16
	if compressed {
		flags |= keyCompName
	}
	if isRoot {
		flags |= keyHiveEntry | keyNoDelete
	}

	d := w.data(nk)
	copy(d[0:2], "nk")
	le.PutUint16(d[0x02:], flags)
	le.PutUint64(d[0x04:], w.opts.Timestamp)
	le.PutUint32(d[0x10:], parent)
	le.PutUint32(d[0x14:], uint32(len(children)))
	le.PutUint32(d[0x1C:], subkeyList)
	le.PutUint32(d[0x20:], noCell)
	le.PutUint32(d[0x24:], uint32(len(n.values)))
	le.PutUint32(d[0x28:], valueList)
	le.PutUint32(d[0x2C:], w.sk)
	le.PutUint32(d[0x30:], noCell)
	le.PutUint32(d[0x34:], maxSubkeyName)
	le.PutUint32(d[0x3C:], maxValueName)
	le.PutUint32(d[0x40:], maxValueData)
	le.PutUint16(d[0x48:], uint16(len(name)))
	copy(d[nkHeaderSize:], name)

	return nk, nil
}

func (w *writer) writeValue(v interfaces.NamedValue) (uint32, error) {
	name, compressed, err := encodeName(v.Name)
	if err != nil {
		return 0, err
	}
	payload := v.Value.Data
	if len(payload) > maxInlineDataSize {
		return 0, errors.Wrapf(ErrValueTooLarge, "%s: %d bytes", v.Name, len(payload))
	}

	var sizeField, dataField uint32
	if len(payload) <= 4 {
		var inline [4]byte
		copy(inline[:], payload)
		sizeField = uint32(len(payload)) | inlineDataFlag
		dataField = le.Uint32(inline[:])
	} else {
		dataField = w.alloc(len(payload))
		copy(w.data(dataField), payload)
		sizeField = uint32(len(payload))
	}

	vk := w.alloc(vkHeaderSize + len(name))
	d := w.data(vk)
	copy(d[0:2], "vk")
	le.PutUint16(d[0x02:], uint16(len(name)))
	le.PutUint32(d[0x04:], sizeField)
	le.PutUint32(d[0x08:], dataField)
	le.PutUint32(d[0x0C:], uint32(v.Value.Type))
	if compressed && len(name) > 0 {
		le.PutUint16(d[0x10:], valueCompName)
	}
	copy(d[vkHeaderSize:], name)

	return vk, nil
}
