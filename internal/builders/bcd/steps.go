package bcd

import (
	"github.com/deploymenttheory/go-bcd/internal/encoders/identifiers"
	"github.com/deploymenttheory/go-bcd/internal/types"
)

// composition is the shared input of every build step.
type composition struct {
	cfg      Config
	loaderID string
	resumeID string
}

// step composes one object. Steps run in slice order; settings groups come before the
// application objects that inherit from them.
type step struct {
	name    string
	compose func(c *composition) (types.Object, error)
}

// buildSteps is the fixed build order.
var buildSteps = []step{
	{"ems-settings", composeEMSSettings},
	{"resume-loader-settings", composeResumeLoaderSettings},
	{"debugger-settings", composeDebuggerSettings},
	{"bad-memory", composeBadMemory},
	{"boot-loader-settings", composeBootLoaderSettings},
	{"global-settings", composeGlobalSettings},
	{"hypervisor-settings", composeHypervisorSettings},
	{"windows-boot-manager", composeWindowsBootManager},
	{"firmware-boot-manager", composeFirmwareBootManager},
	{"windows-memory-tester", composeWindowsMemoryTester},
	{"windows-resume", composeWindowsResume},
	{"windows-loader", composeWindowsLoader},
}

// StepNames returns the build order.
func StepNames() []string {
	names := make([]string, len(buildSteps))
	for i, s := range buildSteps {
		names[i] = s.name
	}
	return names
}

func object(id string, entry identifiers.ObjectTypeEntry, l *elementList) (types.Object, error) {
	elements, err := l.done()
	if err != nil {
		return types.Object{}, err
	}
	return types.Object{
		ID:       id,
		Name:     entry.Name,
		Type:     entry.Code(),
		Elements: elements,
	}, nil
}

func composeEMSSettings(c *composition) (types.Object, error) {
	var l elementList
	l.boolean(identifiers.ElementLibraryEMSEnabled, false)
	return object(types.GUIDEMSSettingsGroup, identifiers.ObjectEMSSettings, &l)
}

func composeResumeLoaderSettings(c *composition) (types.Object, error) {
	var l elementList
	l.inherit(types.GUIDGlobalSettingsGroup)
	return object(types.GUIDResumeLoaderSettingsGroup, identifiers.ObjectResumeLoaderSettings, &l)
}

func composeDebuggerSettings(c *composition) (types.Object, error) {
	var l elementList
	l.qword(identifiers.ElementLibraryDebuggerType, types.DebuggerTypeLocal)
	return object(types.GUIDDebuggerSettingsGroup, identifiers.ObjectDebuggerSettings, &l)
}

func composeBadMemory(c *composition) (types.Object, error) {
	var l elementList
	return object(types.GUIDBadMemoryGroup, identifiers.ObjectBadMemory, &l)
}

func composeBootLoaderSettings(c *composition) (types.Object, error) {
	var l elementList
	l.inherit(types.GUIDGlobalSettingsGroup, types.GUIDHypervisorSettingsGroup)
	return object(types.GUIDBootLoaderSettingsGroup, identifiers.ObjectBootLoaderSettings, &l)
}

func composeGlobalSettings(c *composition) (types.Object, error) {
	var l elementList
	l.inherit(types.GUIDDebuggerSettingsGroup, types.GUIDEMSSettingsGroup, types.GUIDBadMemoryGroup)
	return object(types.GUIDGlobalSettingsGroup, identifiers.ObjectGlobalSettings, &l)
}

func composeHypervisorSettings(c *composition) (types.Object, error) {
	var l elementList
	l.qword(identifiers.ElementOSLoaderHypervisorDebuggerType, types.HypervisorDebuggerTypeSerial)
	l.qword(identifiers.ElementOSLoaderHypervisorDebuggerPort, types.HypervisorDebuggerPort)
	l.qword(identifiers.ElementOSLoaderHypervisorDebuggerBaudRate, types.HypervisorDebuggerBaudRate)
	return object(types.GUIDHypervisorSettingsGroup, identifiers.ObjectHypervisorSettings, &l)
}

func composeWindowsBootManager(c *composition) (types.Object, error) {
	var l elementList
	l.device(identifiers.ElementLibraryApplicationDevice, c.cfg.DiskID, c.cfg.EFIPartitionID)
	l.text(identifiers.ElementLibraryApplicationPath, types.BootManagerPath)
	l.text(identifiers.ElementLibraryDescription, types.BootManagerDescription)
	l.text(identifiers.ElementLibraryPreferredLocale, c.cfg.Locale)
	l.inherit(types.GUIDGlobalSettingsGroup)
	l.guid(identifiers.ElementBootMgrDefaultObject, c.loaderID)
	l.guid(identifiers.ElementBootMgrResumeObject, c.resumeID)
	l.guidList(identifiers.ElementBootMgrDisplayOrder, c.loaderID)
	l.guidList(identifiers.ElementBootMgrToolsDisplayOrder, types.GUIDWindowsMemoryTester)
	l.qword(identifiers.ElementBootMgrTimeout, c.cfg.Timeout)
	return object(types.GUIDWindowsBootManager, identifiers.ObjectWindowsBootManager, &l)
}

func composeFirmwareBootManager(c *composition) (types.Object, error) {
	var l elementList
	l.guidList(identifiers.ElementBootMgrDisplayOrder, types.GUIDWindowsBootManager)
	l.qword(identifiers.ElementBootMgrTimeout, 0)
	return object(types.GUIDFirmwareBootManager, identifiers.ObjectFirmwareBootManager, &l)
}

func composeWindowsMemoryTester(c *composition) (types.Object, error) {
	var l elementList
	l.device(identifiers.ElementLibraryApplicationDevice, c.cfg.DiskID, c.cfg.EFIPartitionID)
	l.text(identifiers.ElementLibraryApplicationPath, types.MemoryTesterPath)
	l.text(identifiers.ElementLibraryDescription, types.MemoryTesterDescription)
	l.text(identifiers.ElementLibraryPreferredLocale, c.cfg.Locale)
	l.inherit(types.GUIDGlobalSettingsGroup)
	l.boolean(identifiers.ElementLibraryAllowBadMemoryAccess, true)
	return object(types.GUIDWindowsMemoryTester, identifiers.ObjectWindowsMemoryTester, &l)
}

func composeWindowsResume(c *composition) (types.Object, error) {
	var l elementList
	l.device(identifiers.ElementLibraryApplicationDevice, c.cfg.DiskID, c.cfg.WindowsPartitionID)
	l.text(identifiers.ElementLibraryApplicationPath, types.ResumePath)
	l.text(identifiers.ElementLibraryDescription, types.ResumeDescription)
	l.text(identifiers.ElementLibraryPreferredLocale, c.cfg.Locale)
	l.inherit(types.GUIDResumeLoaderSettingsGroup)
	l.boolean(identifiers.ElementLibraryIsolatedExecutionContext, true)
	l.qword(identifiers.ElementLibraryAllowedInMemorySettings, types.AllowedInMemorySettingsPayload)
	l.text(identifiers.ElementResumeLoaderHiberfilePath, types.HiberfilePath)
	l.qword(identifiers.ElementResumeLoaderBootMenuPolicy, types.BootMenuPolicyStandard)
	return object(c.resumeID, identifiers.ObjectWindowsResume, &l)
}

func composeWindowsLoader(c *composition) (types.Object, error) {
	var l elementList
	l.device(identifiers.ElementLibraryApplicationDevice, c.cfg.DiskID, c.cfg.WindowsPartitionID)
	l.text(identifiers.ElementLibraryApplicationPath, types.LoaderPath)
	l.text(identifiers.ElementLibraryDescription, c.cfg.LoaderDescription)
	l.text(identifiers.ElementLibraryPreferredLocale, c.cfg.Locale)
	l.inherit(types.GUIDBootLoaderSettingsGroup)
	l.boolean(identifiers.ElementLibraryIsolatedExecutionContext, true)
	l.qword(identifiers.ElementLibraryAllowedInMemorySettings, types.AllowedInMemorySettingsPayload)
	l.device(identifiers.ElementOSLoaderOSDevice, c.cfg.DiskID, c.cfg.WindowsPartitionID)
	l.text(identifiers.ElementOSLoaderSystemRoot, types.SystemRoot)
	l.guid(identifiers.ElementOSLoaderAssociatedResumeObject, c.resumeID)
	l.qword(identifiers.ElementOSLoaderNxPolicy, types.NxPolicyOptIn)
	l.qword(identifiers.ElementOSLoaderBootMenuPolicy, types.BootMenuPolicyStandard)

	// The loader shares the resume application type unless configured otherwise.
	entry := identifiers.ObjectWindowsResume
	if c.cfg.DistinctLoaderType {
		entry = identifiers.ObjectWindowsLoader
	}
	obj, err := object(c.loaderID, entry, &l)
	obj.Name = "windows-loader"
	return obj, err
}
