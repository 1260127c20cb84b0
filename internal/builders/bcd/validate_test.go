package bcd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-bcd/internal/encoders/identifiers"
	"github.com/deploymenttheory/go-bcd/internal/types"
)

func settings(id string, parents ...string) types.Object {
	var l elementList
	if len(parents) > 0 {
		l.inherit(parents...)
	}
	obj, _ := object(id, identifiers.ObjectGlobalSettings, &l)
	return obj
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		objects []types.Object
		wantErr error
	}{
		{
			name:    "acyclic lattice",
			objects: []types.Object{settings("{a}", "{b}", "{c}"), settings("{b}", "{c}"), settings("{c}")},
		},
		{
			name:    "self inheritance",
			objects: []types.Object{settings("{a}", "{a}")},
			wantErr: ErrInheritanceCycle,
		},
		{
			name:    "transitive cycle",
			objects: []types.Object{settings("{a}", "{b}"), settings("{b}", "{c}"), settings("{c}", "{a}")},
			wantErr: ErrInheritanceCycle,
		},
		{
			name:    "dangling inherit",
			objects: []types.Object{settings("{a}", "{missing}")},
			wantErr: ErrDanglingReference,
		},
		{
			name:    "duplicate object",
			objects: []types.Object{settings("{a}"), settings("{a}")},
			wantErr: ErrDuplicateObject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.objects)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestValidateDuplicateElement(t *testing.T) {
	var l elementList
	l.qword(identifiers.ElementBootMgrTimeout, 1)
	l.qword(identifiers.ElementBootMgrTimeout, 2)
	obj, err := object("{a}", identifiers.ObjectFirmwareBootManager, &l)
	require.NoError(t, err)

	err = Validate([]types.Object{obj})
	assert.True(t, errors.Is(err, ErrDuplicateElement))
}

func TestValidateDanglingDisplayOrder(t *testing.T) {
	var l elementList
	l.guidList(identifiers.ElementBootMgrDisplayOrder, "{gone}")
	obj, err := object("{a}", identifiers.ObjectFirmwareBootManager, &l)
	require.NoError(t, err)

	err = Validate([]types.Object{obj})
	assert.True(t, errors.Is(err, ErrDanglingReference))
}

func TestValidateReportsAllViolations(t *testing.T) {
	err := Validate([]types.Object{settings("{a}", "{a}", "{x}"), settings("{a}")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInheritanceCycle))
	assert.True(t, errors.Is(err, ErrDanglingReference))
	assert.True(t, errors.Is(err, ErrDuplicateObject))
}

func TestValidateIdentity(t *testing.T) {
	b := NewGraphBuilder(testConfig(t), nil, WithIDGenerator(fixedIDs(testLoaderID, testResumeID)))
	objects, err := b.Objects()
	require.NoError(t, err)
	require.NoError(t, validateIdentity(objects, testLoaderKey, testResumeKey))

	// Point the boot manager's resume object at the loader.
	for i := range objects {
		if objects[i].ID != types.GUIDWindowsBootManager {
			continue
		}
		for j := range objects[i].Elements {
			if objects[i].Elements[j].Type == identifiers.ElementBootMgrResumeObject.Code() {
				objects[i].Elements[j].References = []string{testLoaderKey}
			}
		}
	}
	err = validateIdentity(objects, testLoaderKey, testResumeKey)
	assert.True(t, errors.Is(err, ErrIdentityMismatch))

	err = validateIdentity(objects[:10], testLoaderKey, testResumeKey)
	assert.True(t, errors.Is(err, ErrMissingObject))

	err = validateIdentity(objects, testLoaderKey, testLoaderKey)
	assert.True(t, errors.Is(err, ErrInvalidIdentifiers))
}
