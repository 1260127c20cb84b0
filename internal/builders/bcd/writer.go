package bcd

import (
	"github.com/pkg/errors"

	"github.com/deploymenttheory/go-bcd/internal/encoders/values"
	"github.com/deploymenttheory/go-bcd/internal/interfaces"
	"github.com/deploymenttheory/go-bcd/internal/types"
)

// Write lays out the store description and every object under the store root:
//
//	Description\{KeyName, System, TreatAsSystem}
//	Objects\{id}\Description\Type
//	Objects\{id}\Description\FirmwareVariable   (optional)
//	Objects\{id}\Elements\{code}\Element
func Write(store interfaces.Store, objects []types.Object) error {
	if err := writeDescription(store); err != nil {
		return err
	}

	container, err := store.AddChild(store.Root(), types.ObjectsKeyName)
	if err != nil {
		return errors.Wrap(err, "failed to create objects container")
	}

	for _, obj := range objects {
		if err := writeObject(store, container, obj); err != nil {
			return errors.Wrapf(err, "object %s (%s)", obj.Name, obj.ID)
		}
	}
	return nil
}

func writeDescription(store interfaces.Store) error {
	node, err := store.AddChild(store.Root(), types.DescriptionKeyName)
	if err != nil {
		return errors.Wrap(err, "failed to create store description")
	}
	keyName, err := values.Text(types.StoreKeyName)
	if err != nil {
		return err
	}
	if err := setValue(store, node, types.KeyNameValueName, keyName); err != nil {
		return err
	}
	if err := setValue(store, node, types.SystemValueName, values.Dword(1)); err != nil {
		return err
	}
	return setValue(store, node, types.TreatAsSystemValueName, values.Dword(1))
}

func writeObject(store interfaces.Store, container interfaces.NodeID, obj types.Object) error {
	node, err := store.AddChild(container, obj.ID)
	if err != nil {
		return err
	}

	desc, err := store.AddChild(node, types.DescriptionKeyName)
	if err != nil {
		return err
	}
	if err := setValue(store, desc, types.ObjectTypeValueName, values.Dword(uint32(obj.Type))); err != nil {
		return err
	}
	if obj.FirmwareVariable != nil {
		if err := setValue(store, desc, types.FirmwareVariableValueName, values.Binary(obj.FirmwareVariable)); err != nil {
			return err
		}
	}

	elements, err := store.AddChild(node, types.ElementsKeyName)
	if err != nil {
		return err
	}
	for _, e := range obj.Elements {
		key, err := store.AddChild(elements, e.Type.String())
		if err != nil {
			return err
		}
		if err := setValue(store, key, types.ElementValueName, e.Value); err != nil {
			return errors.Wrapf(err, "element %s", e.Name)
		}
	}
	return nil
}

func setValue(store interfaces.Store, node interfaces.NodeID, key string, v types.Value) error {
	return store.SetValue(node, key, v.Type, v.Data)
}
