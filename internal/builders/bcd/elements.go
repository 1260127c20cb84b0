package bcd

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/deploymenttheory/go-bcd/internal/encoders/device"
	"github.com/deploymenttheory/go-bcd/internal/encoders/identifiers"
	"github.com/deploymenttheory/go-bcd/internal/encoders/values"
	"github.com/deploymenttheory/go-bcd/internal/types"
)

// elementList accumulates the elements of one object. The first encoding error sticks and is
// reported by done.
type elementList struct {
	elements []types.Element
	err      error
}

func (l *elementList) add(entry identifiers.ElementTypeEntry, value types.Value) *types.Element {
	l.elements = append(l.elements, types.Element{
		Type:  entry.Code(),
		Name:  entry.Name,
		Value: value,
	})
	return &l.elements[len(l.elements)-1]
}

func (l *elementList) fail(entry identifiers.ElementTypeEntry, err error) {
	if l.err == nil {
		l.err = errors.Wrapf(err, "element %s", entry.Name)
	}
}

func (l *elementList) text(entry identifiers.ElementTypeEntry, s string) {
	v, err := values.Text(s)
	if err != nil {
		l.fail(entry, err)
		return
	}
	l.add(entry, v)
}

// guid stores a single object reference as REG_SZ.
func (l *elementList) guid(entry identifiers.ElementTypeEntry, id string) {
	v, err := values.Text(id)
	if err != nil {
		l.fail(entry, err)
		return
	}
	l.add(entry, v).References = []string{id}
}

// guidList stores an ordered list of object references as REG_MULTI_SZ.
func (l *elementList) guidList(entry identifiers.ElementTypeEntry, ids ...string) *types.Element {
	v, err := values.MultiText(ids)
	if err != nil {
		l.fail(entry, err)
		return &types.Element{}
	}
	e := l.add(entry, v)
	e.References = append([]string(nil), ids...)
	return e
}

// inherit stores the inheritance list; order is resolution priority.
func (l *elementList) inherit(ids ...string) {
	l.guidList(identifiers.ElementLibraryInherit, ids...).Inherit = true
}

func (l *elementList) qword(entry identifiers.ElementTypeEntry, n uint64) {
	l.add(entry, values.Qword(n))
}

func (l *elementList) boolean(entry identifiers.ElementTypeEntry, b bool) {
	l.add(entry, values.Bool(b))
}

func (l *elementList) device(entry identifiers.ElementTypeEntry, diskID, partitionID uuid.UUID) {
	l.add(entry, values.Binary(device.Encode(diskID, partitionID)))
}

func (l *elementList) done() ([]types.Element, error) {
	return l.elements, l.err
}
