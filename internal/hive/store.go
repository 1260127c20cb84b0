// Package hive implements the BCD store as an in-memory registry key tree that is serialized
// to a Windows registry hive ("regf") file on commit.
package hive

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/deploymenttheory/go-bcd/internal/interfaces"
	"github.com/deploymenttheory/go-bcd/internal/types"
)

// Store errors.
var (
	ErrNodeExists     = stderrors.New("node already exists")
	ErrNodeNotFound   = stderrors.New("node not found")
	ErrInvalidNode    = stderrors.New("invalid node handle")
	ErrInvalidName    = stderrors.New("invalid name")
	ErrValueNotFound  = stderrors.New("value not found")
	ErrValueTooLarge  = stderrors.New("value too large")
	ErrAlreadyWritten = stderrors.New("store already committed")
)

// maxNameLength is the registry limit for key and value names.
const maxNameLength = 255

type node struct {
	name     string
	parent   interfaces.NodeID
	children []interfaces.NodeID
	byName   map[string]interfaces.NodeID
	values   []interfaces.NamedValue
}

// Store is an in-memory key tree. The zero value is not usable; call NewStore.
type Store struct {
	nodes     []*node
	options   WriterOptions
	committed bool
}

var (
	_ interfaces.Store       = (*Store)(nil)
	_ interfaces.StoreReader = (*Store)(nil)
)

// NewStore creates an empty store holding only the root key.
func NewStore(opts ...Option) *Store {
	options := DefaultWriterOptions()
	for _, opt := range opts {
		opt(&options)
	}
	root := &node{name: options.RootName, byName: make(map[string]interfaces.NodeID)}
	return &Store{nodes: []*node{root}, options: options}
}

// Root returns the handle of the root key.
func (s *Store) Root() interfaces.NodeID {
	return 0
}

func (s *Store) lookup(id interfaces.NodeID) (*node, error) {
	if int(id) >= len(s.nodes) {
		return nil, errors.Wrapf(ErrInvalidNode, "node %d", id)
	}
	return s.nodes[id], nil
}

func foldName(name string) string {
	return strings.ToUpper(name)
}

func validateName(name string) error {
	if name == "" || len(name) > maxNameLength || strings.Contains(name, `\`) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

// AddChild creates a named child key. Names are compared case-insensitively, as the registry does.
func (s *Store) AddChild(parent interfaces.NodeID, name string) (interfaces.NodeID, error) {
	p, err := s.lookup(parent)
	if err != nil {
		return 0, err
	}
	if err := validateName(name); err != nil {
		return 0, err
	}
	if _, exists := p.byName[foldName(name)]; exists {
		return 0, errors.Wrapf(ErrNodeExists, "%s\\%s", p.name, name)
	}

	id := interfaces.NodeID(len(s.nodes))
	s.nodes = append(s.nodes, &node{name: name, parent: parent, byName: make(map[string]interfaces.NodeID)})
	p.children = append(p.children, id)
	p.byName[foldName(name)] = id
	return id, nil
}

// GetChild looks up an existing child key.
func (s *Store) GetChild(n interfaces.NodeID, name string) (interfaces.NodeID, error) {
	p, err := s.lookup(n)
	if err != nil {
		return 0, err
	}
	id, ok := p.byName[foldName(name)]
	if !ok {
		return 0, errors.Wrapf(ErrNodeNotFound, "%s\\%s", p.name, name)
	}
	return id, nil
}

// SetValue attaches a value to a key, replacing an existing value with the same name.
func (s *Store) SetValue(n interfaces.NodeID, key string, valueType types.ValueType, data []byte) error {
	p, err := s.lookup(n)
	if err != nil {
		return err
	}
	if len(key) > maxNameLength {
		return errors.Wrapf(ErrInvalidName, "value name %q", key)
	}
	if len(data) > maxInlineDataSize {
		return errors.Wrapf(ErrValueTooLarge, "%s: %d bytes", key, len(data))
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	value := interfaces.NamedValue{Name: key, Value: types.Value{Type: valueType, Data: stored}}

	for i := range p.values {
		if strings.EqualFold(p.values[i].Name, key) {
			p.values[i] = value
			return nil
		}
	}
	p.values = append(p.values, value)
	return nil
}

// Name returns the name of a key.
func (s *Store) Name(n interfaces.NodeID) (string, error) {
	p, err := s.lookup(n)
	if err != nil {
		return "", err
	}
	return p.name, nil
}

// Children returns the child keys in creation order.
func (s *Store) Children(n interfaces.NodeID) ([]interfaces.NodeID, error) {
	p, err := s.lookup(n)
	if err != nil {
		return nil, err
	}
	out := make([]interfaces.NodeID, len(p.children))
	copy(out, p.children)
	return out, nil
}

// Values returns the values of a key in creation order.
func (s *Store) Values(n interfaces.NodeID) ([]interfaces.NamedValue, error) {
	p, err := s.lookup(n)
	if err != nil {
		return nil, err
	}
	out := make([]interfaces.NamedValue, len(p.values))
	copy(out, p.values)
	return out, nil
}

// Value returns a single named value.
func (s *Store) Value(n interfaces.NodeID, key string) (types.Value, error) {
	p, err := s.lookup(n)
	if err != nil {
		return types.Value{}, err
	}
	for _, v := range p.values {
		if strings.EqualFold(v.Name, key) {
			return v.Value, nil
		}
	}
	return types.Value{}, errors.Wrapf(ErrValueNotFound, "%s\\%s", p.name, key)
}

// Len returns the number of keys in the store, root included.
func (s *Store) Len() int {
	return len(s.nodes)
}

// Commit serializes the store and replaces destination with it. The hive is first written to a
// temporary file in the destination directory, so a failure never leaves a partial store behind.
// A store can be committed once.
func (s *Store) Commit(destination string) error {
	if s.committed {
		return ErrAlreadyWritten
	}

	data, err := s.Serialize()
	if err != nil {
		return errors.Wrap(err, "failed to serialize hive")
	}

	dir := filepath.Dir(destination)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(destination)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary file in %s", dir)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return errors.Wrapf(err, "failed to write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return errors.Wrapf(err, "failed to sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to close %s", tmpName)
	}
	if err := os.Chmod(tmpName, s.options.FileMode); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to set mode on %s", tmpName)
	}
	if err := os.Rename(tmpName, destination); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to move hive to %s", destination)
	}

	s.committed = true
	return nil
}

// Serialize renders the store as regf hive bytes without touching the filesystem.
func (s *Store) Serialize() ([]byte, error) {
	w := newWriter(s, s.options)
	return w.write()
}
