package catalog

// Device is one entry of the supported-device table: a model name and the
// configuration module the mobile app reports for it.
type Device struct {
	Model        string
	ConfigModule string
}

// DuplicateAlias is listed by client libraries under two names and is never
// registered or listed.
const DuplicateAlias = "CS137-AF/CS158-AF"

// supportedDevices mirrors the client library's module tables, in the order
// it enumerates them: fans, outlets, switches, bulbs.
var supportedDevices = []Device{
	// fans, purifiers, humidifiers
	{"Core200S", "VeSyncAirBypass"},
	{"Core300S", "VeSyncAirBypass"},
	{"Core400S", "VeSyncAirBypass"},
	{"Core600S", "VeSyncAirBypass"},
	{"LAP-V102S-AASR", "VeSyncAirBaseV2"},
	{"LAP-V201S-AASR", "VeSyncAirBaseV2"},
	{"LAP-EL551S-AUS", "VeSyncAirBaseV2"},
	{"LV-PUR131S", "VeSyncAir131"},
	{"LTF-F422S-KEU", "VeSyncTowerFan"},
	{"Classic300S", "VeSyncHumid200300S"},
	{"Classic200S", "VeSyncHumid200S"},
	{"Dual200S", "VeSyncHumid200300S"},
	{"LUH-A602S-WUSR", "VeSyncHumid200300S"},
	{"LUH-O451S-WUS", "VeSyncHumid200300S"},
	{"LUH-M101S-WUS", "VeSyncHumid1000S"},
	{"LEH-S601S-WUS", "VeSyncSuperior6000S"},
	{DuplicateAlias, "VeSyncAirBypass"},

	// outlets
	{"wifi-switch-1.3", "VeSyncOutlet7A"},
	{"ESW03-USA", "VeSyncOutlet10A"},
	{"ESW01-EU", "VeSyncOutlet10A"},
	{"ESW15-USA", "VeSyncOutlet15A"},
	{"ESO15-TB", "VeSyncOutdoorPlug"},

	// switches
	{"ESWL01", "VeSyncWallSwitch"},
	{"ESWL03", "VeSyncWallSwitch"},
	{"ESWD16", "VeSyncDimmerSwitch"},

	// bulbs
	{"ESL100", "VeSyncBulbESL100"},
	{"ESL100CW", "VeSyncBulbESL100CW"},
	{"ESL100MC", "VeSyncBulbESL100MC"},
	{"XYD0001", "VeSyncBulbValcenoA19MC"},
}

// Devices returns a copy of the supported-device table.
func Devices() []Device {
	out := make([]Device, len(supportedDevices))
	copy(out, supportedDevices)
	return out
}

// ConfigModuleFor returns the configuration module of a supported model.
func ConfigModuleFor(model string) (string, bool) {
	for _, d := range supportedDevices {
		if d.Model == model {
			return d.ConfigModule, true
		}
	}
	return "", false
}
