package respond

import (
	"strings"

	"github.com/wondertwin-ai/twin-vesync/internal/vesync"
)

const (
	prefixAir131 = "/131airPurifier"
	moduleAir131 = "VeSyncAir131"
)

// fanOverlays lists, per configuration module, the layers applied on top of the
// fan base in order.
var fanOverlays = map[string][]func() layer{
	"VeSyncAirBypass":     {airBypassOverlay},
	"VeSyncAirBaseV2":     {airBypassOverlay},
	"VeSyncTowerFan":      {airBypassOverlay},
	moduleAir131:          {air131Overlay},
	"VeSyncHumid200300S":  {humidOverlay},
	"VeSyncHumid200S":     {humidOverlay},
	"VeSyncHumid1000S":    {humidOverlay, humid1000Overlay},
	"VeSyncSuperior6000S": {superiorOverlay},
}

func fan(req Request) (Envelope, error) {
	module := req.bodyString("configModule")

	if module == moduleAir131 || strings.HasPrefix(req.Path, prefixAir131) {
		if strings.HasSuffix(req.Path, "/deviceDetail") {
			return Flat(compose(fanBase(req), air131Overlay())), nil
		}
		return Success(nil), nil
	}

	if module == "" {
		return Envelope{}, vesync.MissingField("configModule")
	}
	return Success(map[string]any{
		"code":   0,
		"msg":    nil,
		"result": fanDetail(req, module),
	}), nil
}

func fanDetail(req Request, module string) map[string]any {
	layers := []layer{fanBase(req)}
	for _, overlay := range fanOverlays[module] {
		layers = append(layers, overlay())
	}
	return compose(layers...)
}

func fanBase(req Request) layer {
	return compose(identity(req), connection(), layer{
		"model":       req.Model,
		"deviceId":    req.DeviceID,
		"subDeviceNo": 0,
	})
}

func airBypassOverlay() layer {
	return layer{
		"enabled":           true,
		"filter_life":       7,
		"mode":              "auto",
		"level":             1,
		"display":           false,
		"child_lock":        false,
		"night_light":       "on",
		"air_quality":       2,
		"air_quality_value": 2,
		"configuration": map[string]any{
			"display":         false,
			"display_forever": false,
		},
	}
}

func air131Overlay() layer {
	return layer{
		"activeTime":   5,
		"filterLife":   map[string]any{"percent": 100, "timestamp": "2024-01-01"},
		"screenStatus": "on",
		"mode":         "auto",
		"level":        1,
		"airQuality":   "excellent",
		"configuration": map[string]any{
			"auto_target_humidity": 50,
			"display":              true,
			"automatic_stop":       true,
		},
	}
}

func humidOverlay() layer {
	return layer{
		"enabled":                     true,
		"humidity":                    45,
		"mist_virtual_level":          1,
		"mist_level":                  1,
		"mode":                        "auto",
		"water_lacks":                 false,
		"humidity_high":               false,
		"water_tank_lifted":           false,
		"automatic_stop_reach_target": true,
		"night_light_brightness":      0,
		"warm_level":                  1,
		"warm_enabled":                true,
		"display":                     true,
		"indicator_light_switch":      true,
		"configuration": map[string]any{
			"auto_target_humidity": 50,
			"display":              true,
			"automatic_stop":       true,
		},
	}
}

func humid1000Overlay() layer {
	return layer{
		"powerSwitch":     1,
		"virtualLevel":    1,
		"mistLevel":       1,
		"workMode":        "manual",
		"waterLacksState": false,
		"targetHumidity":  45,
		"humidity":        45,
		"waterTankLifted": false,
		"autoStopState":   1,
		"screenState":     true,
		"screenSwitch":    true,
		"autoStopSwitch":  1,
	}
}

func superiorOverlay() layer {
	return layer{
		"powerSwitch":        1,
		"workMode":           "autoPro",
		"enabled":            true,
		"humidity":           45,
		"targetHumidity":     45,
		"virtualLevel":       1,
		"mistLevel":          1,
		"mist_virtual_level": 1,
		"mist_level":         1,
		"mode":               "auto",
		"waterLacksState":    false,
		"waterTankLifted":    false,
		"filterLifePercent":  100,
		"temperature":        25,
		"screenSwitch":       true,
		"dryingMode":         map[string]any{},
	}
}
