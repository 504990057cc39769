package catalog

import "strings"

// Family is the coarse device category that decides which responder shapes a
// device's replies.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyOutlet
	FamilySwitch
	FamilyBulb
	FamilyFan
)

func (f Family) String() string {
	switch f {
	case FamilyOutlet:
		return "outlet"
	case FamilySwitch:
		return "switch"
	case FamilyBulb:
		return "bulb"
	case FamilyFan:
		return "fan"
	default:
		return "unknown"
	}
}

// familyRules are checked in order; the first rule with a matching model
// prefix wins. Prefixes compare case-insensitively.
var familyRules = []struct {
	family   Family
	prefixes []string
}{
	{FamilyBulb, []string{"ESL", "XYD"}},
	{FamilyOutlet, []string{"ESW01", "ESW03", "ESW10", "ESW15", "ESO", "wifi-switch-1.3"}},
	{FamilySwitch, []string{"ESWL", "ESWD"}},
	{FamilyFan, []string{"CLA", "COR", "DUA", "LEH", "LAP", "LUH", "LV-", "LTF"}},
}

// humidifierModule marks humidifiers whose model name carries no fan prefix.
const humidifierModule = "VeSyncHumid"

// Classify returns the family for a model, falling back to the configuration
// module for humidifiers.
func Classify(model, configModule string) Family {
	upper := strings.ToUpper(model)
	for _, rule := range familyRules {
		for _, p := range rule.prefixes {
			if strings.HasPrefix(upper, strings.ToUpper(p)) {
				return rule.family
			}
		}
	}
	if strings.Contains(configModule, humidifierModule) {
		return FamilyFan
	}
	return FamilyUnknown
}
