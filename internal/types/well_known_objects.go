package types

// Well-known object identifiers.
// These GUIDs are fixed by the Windows boot manager; objects that other objects reference by these
// values must exist under exactly these keys. The loader and resume application objects are not
// well known and receive freshly generated identifiers on every build.
const (
	GUIDEMSSettingsGroup          = "{0ce4991b-e6b3-4b16-b23c-5e0d9250e5d9}"
	GUIDResumeLoaderSettingsGroup = "{1afa9c49-16ab-4a5c-901b-212802da9460}"
	GUIDDebuggerSettingsGroup     = "{4636856e-540f-4170-a130-a84776f4c654}"
	GUIDBadMemoryGroup            = "{5189b25c-5558-4bf2-bca4-289b11bd29e2}"
	GUIDBootLoaderSettingsGroup   = "{6efb52bf-1766-41db-a6b3-0ee5eff72bd7}"
	GUIDGlobalSettingsGroup       = "{7ea2e1ac-2e61-4728-aaa3-896d9d0a9f0e}"
	GUIDHypervisorSettingsGroup   = "{7ff607e0-4395-11db-b0de-0800200c9a66}"
	GUIDWindowsBootManager        = "{9dea862c-5cdd-4e70-acc1-f32b344d4795}"
	GUIDFirmwareBootManager       = "{a5a30fa2-3d06-4e9f-b5f4-a01df9d1fcba}"
	GUIDWindowsMemoryTester       = "{b2721d73-1db4-4c62-bf78-c548a880142d}"
)

// Element payload constants written by the builder.
const (
	// DefaultLocale is the preferred locale of every application object.
	DefaultLocale = "en-US"
	// DefaultBootManagerTimeout is the boot menu timeout in seconds.
	DefaultBootManagerTimeout uint64 = 30
	// DefaultLoaderDescription is the menu text of the OS loader entry.
	DefaultLoaderDescription = "Windows 10"

	// DebuggerTypeLocal selects the local kernel debugger transport.
	DebuggerTypeLocal uint64 = 4
	// HypervisorDebuggerTypeSerial selects the serial hypervisor debugger transport.
	HypervisorDebuggerTypeSerial uint64 = 0
	// HypervisorDebuggerPort is the serial port number of the hypervisor debugger.
	HypervisorDebuggerPort uint64 = 1
	// HypervisorDebuggerBaudRate is the serial baud rate of the hypervisor debugger.
	HypervisorDebuggerBaudRate uint64 = 115200

	// BootMenuPolicyStandard selects the graphical boot menu.
	BootMenuPolicyStandard uint64 = 1
	// NxPolicyOptIn enables DEP for system components only.
	NxPolicyOptIn uint64 = 0

	// AllowedInMemorySettingsPayload is attached verbatim to the allowed-in-memory-settings
	// element of the loader and resume objects. Its meaning is not documented.
	AllowedInMemorySettingsPayload uint64 = 0x15000075
)

// Application paths and descriptions.
const (
	BootManagerPath         = `\EFI\Microsoft\Boot\bootmgfw.efi`
	BootManagerDescription  = "Windows Boot Manager"
	MemoryTesterPath        = `\EFI\Microsoft\Boot\memtest.efi`
	MemoryTesterDescription = "Windows Memory Diagnostic"
	ResumePath              = `\windows\system32\winresume.efi`
	ResumeDescription       = "Windows Resume Application"
	HiberfilePath           = `\hiberfil.sys`
	LoaderPath              = `\windows\system32\winload.efi`
	SystemRoot              = `\windows`
)
