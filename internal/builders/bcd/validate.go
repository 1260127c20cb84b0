package bcd

import (
	stderrors "errors"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/deploymenttheory/go-bcd/internal/encoders/identifiers"
	"github.com/deploymenttheory/go-bcd/internal/types"
)

// Graph errors.
var (
	ErrDuplicateObject    = stderrors.New("duplicate object")
	ErrDuplicateElement   = stderrors.New("duplicate element")
	ErrDanglingReference  = stderrors.New("reference to an object that is not in the graph")
	ErrInheritanceCycle   = stderrors.New("inheritance cycle")
	ErrIdentityMismatch   = stderrors.New("generated identifier referenced inconsistently")
	ErrMissingObject      = stderrors.New("required object missing")
	ErrInvalidIdentifiers = stderrors.New("invalid generated identifiers")
)

// Validate checks the structural invariants of an object graph: object ids and element keys
// are unique, every reference resolves to an object in the graph, and no object inherits from
// itself directly or transitively. All violations are reported together.
func Validate(objects []types.Object) error {
	var errs error

	byID := make(map[string]*types.Object, len(objects))
	for i := range objects {
		obj := &objects[i]
		if _, exists := byID[obj.ID]; exists {
			errs = multierror.Append(errs, errors.Wrapf(ErrDuplicateObject, "%s (%s)", obj.ID, obj.Name))
			continue
		}
		byID[obj.ID] = obj
	}

	for _, obj := range objects {
		keys := make(map[types.ElementTypeCode]bool, len(obj.Elements))
		for _, e := range obj.Elements {
			if keys[e.Type] {
				errs = multierror.Append(errs, errors.Wrapf(ErrDuplicateElement, "%s element %s", obj.Name, e.Type))
			}
			keys[e.Type] = true

			for _, ref := range e.References {
				if _, ok := byID[ref]; !ok {
					errs = multierror.Append(errs, errors.Wrapf(ErrDanglingReference, "%s element %s -> %s", obj.Name, e.Type, ref))
				}
			}
		}
	}

	for _, obj := range objects {
		if path := inheritanceCycle(byID, obj.ID); path != nil {
			errs = multierror.Append(errs, errors.Wrapf(ErrInheritanceCycle, "%v", path))
		}
	}

	return errs
}

// inheritanceCycle returns the chain of ids leading from start back to start, or nil.
func inheritanceCycle(byID map[string]*types.Object, start string) []string {
	visited := map[string]bool{}
	var walk func(id string, path []string) []string
	walk = func(id string, path []string) []string {
		obj, ok := byID[id]
		if !ok {
			return nil
		}
		for _, parent := range obj.InheritedIDs() {
			next := append(append([]string(nil), path...), parent)
			if parent == start {
				return next
			}
			if visited[parent] {
				continue
			}
			visited[parent] = true
			if cycle := walk(parent, next); cycle != nil {
				return cycle
			}
		}
		return nil
	}
	return walk(start, []string{start})
}

// validateIdentity checks that the generated loader and resume identifiers are used
// consistently: both objects exist under them, and every pointer to them holds the same value.
func validateIdentity(objects []types.Object, loaderID, resumeID string) error {
	var errs error
	if loaderID == resumeID {
		return errors.Wrapf(ErrInvalidIdentifiers, "loader and resume share %s", loaderID)
	}

	find := func(id string) *types.Object {
		for i := range objects {
			if objects[i].ID == id {
				return &objects[i]
			}
		}
		return nil
	}
	expect := func(obj *types.Object, entry identifiers.ElementTypeEntry, want string) {
		e, ok := obj.Element(entry.Code())
		if !ok {
			errs = multierror.Append(errs, errors.Wrapf(ErrMissingObject, "%s has no %s element", obj.Name, entry.Name))
			return
		}
		if len(e.References) == 0 || e.References[0] != want {
			errs = multierror.Append(errs, errors.Wrapf(ErrIdentityMismatch, "%s %s = %v, want %s", obj.Name, entry.Name, e.References, want))
		}
	}

	loader := find(loaderID)
	resume := find(resumeID)
	bootmgr := find(types.GUIDWindowsBootManager)
	if loader == nil {
		errs = multierror.Append(errs, errors.Wrapf(ErrMissingObject, "windows-loader %s", loaderID))
	}
	if resume == nil {
		errs = multierror.Append(errs, errors.Wrapf(ErrMissingObject, "windows-resume %s", resumeID))
	}
	if bootmgr == nil {
		errs = multierror.Append(errs, errors.Wrap(ErrMissingObject, "windows-boot-manager"))
	}
	if errs != nil {
		return errs
	}

	expect(bootmgr, identifiers.ElementBootMgrDefaultObject, loaderID)
	expect(bootmgr, identifiers.ElementBootMgrResumeObject, resumeID)
	expect(bootmgr, identifiers.ElementBootMgrDisplayOrder, loaderID)
	expect(loader, identifiers.ElementOSLoaderAssociatedResumeObject, resumeID)

	return errs
}
