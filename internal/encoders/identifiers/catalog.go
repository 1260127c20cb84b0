package identifiers

import (
	stderrors "errors"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/deploymenttheory/go-bcd/internal/types"
)

// ErrSelfCheck is returned when a computed identifier differs from its documented literal value.
var ErrSelfCheck = stderrors.New("identifier self-check failed")

// ObjectTypeEntry is a well-known object type: its fields and the literal code they must produce.
type ObjectTypeEntry struct {
	Name     string
	Category types.ObjectCategory
	Subtype  types.ObjectSubtype
	ID       uint32
	Expected types.ObjectTypeCode
}

// Code computes the entry's object type code from its fields.
func (e ObjectTypeEntry) Code() types.ObjectTypeCode {
	return ObjectType(e.Category, e.Subtype, e.ID)
}

// Check compares the computed code with the expected literal.
func (e ObjectTypeEntry) Check() error {
	if got := e.Code(); got != e.Expected {
		return errors.Wrapf(ErrSelfCheck, "object type %s: computed 0x%08x, expected 0x%08x", e.Name, uint32(got), uint32(e.Expected))
	}
	return nil
}

// ElementTypeEntry is a well-known element type: its fields and the literal key they must produce.
type ElementTypeEntry struct {
	Name     string
	Class    types.ElementClass
	Format   types.ElementFormat
	ID       uint32
	Expected string
}

// Code computes the entry's element type code from its fields.
func (e ElementTypeEntry) Code() types.ElementTypeCode {
	return ElementType(e.Class, e.Format, e.ID)
}

// Key returns the hive key name of the computed code.
func (e ElementTypeEntry) Key() string {
	return e.Code().String()
}

// Check compares the computed key with the expected literal.
func (e ElementTypeEntry) Check() error {
	if got := e.Key(); got != e.Expected {
		return errors.Wrapf(ErrSelfCheck, "element type %s: computed %s, expected %s", e.Name, got, e.Expected)
	}
	return nil
}

// Well-known object types.
var (
	ObjectEMSSettings = ObjectTypeEntry{
		Name: "ems-settings", Category: types.ObjectCategoryInheritable, Subtype: types.ObjectInheritableByAny, ID: 0x0, Expected: 0x20100000,
	}
	ObjectResumeLoaderSettings = ObjectTypeEntry{
		Name: "resume-loader-settings", Category: types.ObjectCategoryInheritable, Subtype: types.ObjectInheritableByApplication, ID: 0x4, Expected: 0x20200004,
	}
	ObjectDebuggerSettings = ObjectTypeEntry{
		Name: "debugger-settings", Category: types.ObjectCategoryInheritable, Subtype: types.ObjectInheritableByAny, ID: 0x0, Expected: 0x20100000,
	}
	ObjectBadMemory = ObjectTypeEntry{
		Name: "bad-memory", Category: types.ObjectCategoryInheritable, Subtype: types.ObjectInheritableByAny, ID: 0x0, Expected: 0x20100000,
	}
	ObjectBootLoaderSettings = ObjectTypeEntry{
		Name: "boot-loader-settings", Category: types.ObjectCategoryInheritable, Subtype: types.ObjectInheritableByApplication, ID: 0x3, Expected: 0x20200003,
	}
	ObjectGlobalSettings = ObjectTypeEntry{
		Name: "global-settings", Category: types.ObjectCategoryInheritable, Subtype: types.ObjectInheritableByAny, ID: 0x0, Expected: 0x20100000,
	}
	ObjectHypervisorSettings = ObjectTypeEntry{
		Name: "hypervisor-settings", Category: types.ObjectCategoryInheritable, Subtype: types.ObjectInheritableByApplication, ID: 0x3, Expected: 0x20200003,
	}
	ObjectWindowsBootManager = ObjectTypeEntry{
		Name: "windows-boot-manager", Category: types.ObjectCategoryApplication, Subtype: types.ObjectApplicationFirmware, ID: 0x2, Expected: 0x10100002,
	}
	ObjectFirmwareBootManager = ObjectTypeEntry{
		Name: "firmware-boot-manager", Category: types.ObjectCategoryApplication, Subtype: types.ObjectApplicationFirmware, ID: 0x1, Expected: 0x10100001,
	}
	ObjectWindowsMemoryTester = ObjectTypeEntry{
		Name: "windows-memory-tester", Category: types.ObjectCategoryApplication, Subtype: types.ObjectApplicationWindowsBoot, ID: 0x5, Expected: 0x10200005,
	}
	ObjectWindowsResume = ObjectTypeEntry{
		Name: "windows-resume", Category: types.ObjectCategoryApplication, Subtype: types.ObjectApplicationWindowsBoot, ID: 0x4, Expected: 0x10200004,
	}
	ObjectWindowsLoader = ObjectTypeEntry{
		Name: "windows-loader", Category: types.ObjectCategoryApplication, Subtype: types.ObjectApplicationWindowsBoot, ID: 0x3, Expected: 0x10200003,
	}
)

// Well-known element types.
var (
	ElementLibraryApplicationDevice = ElementTypeEntry{
		Name: "application-device", Class: types.ElementClassLibrary, Format: types.ElementFormatDevice, ID: 0x1, Expected: "11000001",
	}
	ElementLibraryApplicationPath = ElementTypeEntry{
		Name: "application-path", Class: types.ElementClassLibrary, Format: types.ElementFormatString, ID: 0x2, Expected: "12000002",
	}
	ElementLibraryDescription = ElementTypeEntry{
		Name: "description", Class: types.ElementClassLibrary, Format: types.ElementFormatString, ID: 0x4, Expected: "12000004",
	}
	ElementLibraryPreferredLocale = ElementTypeEntry{
		Name: "preferred-locale", Class: types.ElementClassLibrary, Format: types.ElementFormatString, ID: 0x5, Expected: "12000005",
	}
	ElementLibraryInherit = ElementTypeEntry{
		Name: "inherit", Class: types.ElementClassLibrary, Format: types.ElementFormatGUIDList, ID: 0x6, Expected: "14000006",
	}
	ElementLibraryDebuggerType = ElementTypeEntry{
		Name: "debugger-type", Class: types.ElementClassLibrary, Format: types.ElementFormatInteger, ID: 0x11, Expected: "15000011",
	}
	ElementLibraryAllowBadMemoryAccess = ElementTypeEntry{
		Name: "allow-bad-memory-access", Class: types.ElementClassLibrary, Format: types.ElementFormatBoolean, ID: 0xb, Expected: "1600000b",
	}
	ElementLibraryEMSEnabled = ElementTypeEntry{
		Name: "ems-enabled", Class: types.ElementClassLibrary, Format: types.ElementFormatBoolean, ID: 0x20, Expected: "16000020",
	}
	ElementLibraryIsolatedExecutionContext = ElementTypeEntry{
		Name: "isolated-execution-context", Class: types.ElementClassLibrary, Format: types.ElementFormatBoolean, ID: 0x60, Expected: "16000060",
	}
	ElementLibraryAllowedInMemorySettings = ElementTypeEntry{
		Name: "allowed-in-memory-settings", Class: types.ElementClassLibrary, Format: types.ElementFormatIntegerList, ID: 0x77, Expected: "17000077",
	}

	ElementOSLoaderOSDevice = ElementTypeEntry{
		Name: "os-device", Class: types.ElementClassApplication, Format: types.ElementFormatDevice, ID: 0x1, Expected: "21000001",
	}
	ElementOSLoaderSystemRoot = ElementTypeEntry{
		Name: "system-root", Class: types.ElementClassApplication, Format: types.ElementFormatString, ID: 0x2, Expected: "22000002",
	}
	ElementOSLoaderAssociatedResumeObject = ElementTypeEntry{
		Name: "associated-resume-object", Class: types.ElementClassApplication, Format: types.ElementFormatGUID, ID: 0x3, Expected: "23000003",
	}
	ElementOSLoaderNxPolicy = ElementTypeEntry{
		Name: "nx-policy", Class: types.ElementClassApplication, Format: types.ElementFormatInteger, ID: 0x20, Expected: "25000020",
	}
	ElementOSLoaderBootMenuPolicy = ElementTypeEntry{
		Name: "boot-menu-policy", Class: types.ElementClassApplication, Format: types.ElementFormatInteger, ID: 0xc2, Expected: "250000c2",
	}
	ElementOSLoaderHypervisorDebuggerType = ElementTypeEntry{
		Name: "hypervisor-debugger-type", Class: types.ElementClassApplication, Format: types.ElementFormatInteger, ID: 0xf3, Expected: "250000f3",
	}
	ElementOSLoaderHypervisorDebuggerPort = ElementTypeEntry{
		Name: "hypervisor-debugger-port", Class: types.ElementClassApplication, Format: types.ElementFormatInteger, ID: 0xf4, Expected: "250000f4",
	}
	ElementOSLoaderHypervisorDebuggerBaudRate = ElementTypeEntry{
		Name: "hypervisor-debugger-baudrate", Class: types.ElementClassApplication, Format: types.ElementFormatInteger, ID: 0xf5, Expected: "250000f5",
	}

	ElementBootMgrDisplayOrder = ElementTypeEntry{
		Name: "display-order", Class: types.ElementClassApplication, Format: types.ElementFormatGUIDList, ID: 0x1, Expected: "24000001",
	}
	ElementBootMgrDefaultObject = ElementTypeEntry{
		Name: "default-object", Class: types.ElementClassApplication, Format: types.ElementFormatGUID, ID: 0x3, Expected: "23000003",
	}
	ElementBootMgrTimeout = ElementTypeEntry{
		Name: "timeout", Class: types.ElementClassApplication, Format: types.ElementFormatInteger, ID: 0x4, Expected: "25000004",
	}
	ElementBootMgrResumeObject = ElementTypeEntry{
		Name: "resume-object", Class: types.ElementClassApplication, Format: types.ElementFormatGUID, ID: 0x6, Expected: "23000006",
	}
	ElementBootMgrToolsDisplayOrder = ElementTypeEntry{
		Name: "tools-display-order", Class: types.ElementClassApplication, Format: types.ElementFormatGUIDList, ID: 0x10, Expected: "24000010",
	}

	ElementResumeLoaderHiberfilePath = ElementTypeEntry{
		Name: "hiberfile-path", Class: types.ElementClassApplication, Format: types.ElementFormatString, ID: 0x2, Expected: "22000002",
	}
	ElementResumeLoaderBootMenuPolicy = ElementTypeEntry{
		Name: "resume-boot-menu-policy", Class: types.ElementClassApplication, Format: types.ElementFormatInteger, ID: 0x8, Expected: "25000008",
	}
)

// ObjectTypes lists every well-known object type in catalog order.
var ObjectTypes = []ObjectTypeEntry{
	ObjectEMSSettings,
	ObjectResumeLoaderSettings,
	ObjectDebuggerSettings,
	ObjectBadMemory,
	ObjectBootLoaderSettings,
	ObjectGlobalSettings,
	ObjectHypervisorSettings,
	ObjectWindowsBootManager,
	ObjectFirmwareBootManager,
	ObjectWindowsMemoryTester,
	ObjectWindowsResume,
	ObjectWindowsLoader,
}

// ElementTypes lists every well-known element type in catalog order.
var ElementTypes = []ElementTypeEntry{
	ElementLibraryApplicationDevice,
	ElementLibraryApplicationPath,
	ElementLibraryDescription,
	ElementLibraryPreferredLocale,
	ElementLibraryInherit,
	ElementLibraryDebuggerType,
	ElementLibraryAllowBadMemoryAccess,
	ElementLibraryEMSEnabled,
	ElementLibraryIsolatedExecutionContext,
	ElementLibraryAllowedInMemorySettings,
	ElementOSLoaderOSDevice,
	ElementOSLoaderSystemRoot,
	ElementOSLoaderAssociatedResumeObject,
	ElementOSLoaderNxPolicy,
	ElementOSLoaderBootMenuPolicy,
	ElementOSLoaderHypervisorDebuggerType,
	ElementOSLoaderHypervisorDebuggerPort,
	ElementOSLoaderHypervisorDebuggerBaudRate,
	ElementBootMgrDisplayOrder,
	ElementBootMgrDefaultObject,
	ElementBootMgrTimeout,
	ElementBootMgrResumeObject,
	ElementBootMgrToolsDisplayOrder,
	ElementResumeLoaderHiberfilePath,
	ElementResumeLoaderBootMenuPolicy,
}

// Verify runs the self-check over the whole catalog and reports every mismatch.
func Verify() error {
	return VerifyEntries(ObjectTypes, ElementTypes)
}

// VerifyEntries runs the self-check over the given entries.
func VerifyEntries(objects []ObjectTypeEntry, elements []ElementTypeEntry) error {
	var errs error
	for _, entry := range objects {
		if err := entry.Check(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	for _, entry := range elements {
		if err := entry.Check(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}
