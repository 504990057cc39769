package respond

import (
	"github.com/wondertwin-ai/twin-vesync/internal/store"
)

// Response bodies are built from small layers merged in order; a later layer
// overrides an earlier one. Each layer returns a fresh map.

type layer = map[string]any

func compose(layers ...layer) map[string]any {
	out := make(map[string]any)
	for _, l := range layers {
		for k, v := range l {
			out[k] = v
		}
	}
	return out
}

func identity(req Request) layer {
	return layer{
		"deviceName":   "Mock " + req.Model,
		"deviceImg":    "",
		"cid":          req.DeviceID,
		"uuid":         req.DeviceID,
		"deviceType":   req.Model,
		"type":         req.Model,
		"configModule": req.ConfigModule,
		"macID":        store.MacID(req.DeviceID),
	}
}

func connection() layer {
	return layer{
		"deviceStatus":       "on",
		"connectionStatus":   "online",
		"connectionType":     "wifi",
		"currentFirmVersion": "1.0.0",
		"deviceRegion":       "US",
	}
}

func telemetry() layer {
	return layer{
		"power":      50.0,
		"voltage":    120.0,
		"energy":     1.5,
		"activeTime": 3600,
	}
}

func operating() layer {
	return layer{
		"mode":        "auto",
		"speed":       1,
		"subDeviceNo": 0,
	}
}

func nightLight() layer {
	return layer{"nightLightStatus": "auto"}
}

func nightLightDetail() layer {
	return layer{
		"nightLightStatus":     "auto",
		"nightLightAutomode":   "auto",
		"nightLightBrightness": 50,
	}
}

func outdoorSubDevices() layer {
	return layer{
		"subDevices": []any{
			map[string]any{
				"subDeviceNo":     1,
				"subDeviceStatus": "on",
				"power":           50.0,
				"voltage":         120.0,
				"energy":          1.5,
				"energyToday":     1.5,
				"activeTime":      3600,
			},
		},
	}
}

func lightState() layer {
	return layer{
		"brightness": 100,
		"colorTemp":  50,
		"colorMode":  "white",
		"activeTime": 3600,
	}
}

func dimmerState() layer {
	return layer{
		"brightness":           100,
		"indicatorlightStatus": "on",
		"rgbStatus":            "on",
		"rgbValue":             map[string]any{"red": 255, "green": 255, "blue": 255},
		"activeTime":           3600,
	}
}

// statusWrite acknowledges a status PUT, echoing the requested status.
func statusWrite(body map[string]any) map[string]any {
	return map[string]any{
		"status":       "ok",
		"deviceStatus": echo(body, "status", "on"),
	}
}

func ack() map[string]any {
	return map[string]any{"status": "ok"}
}

// echo returns body[key] when present, def otherwise.
func echo(body map[string]any, key string, def any) any {
	if v, ok := body[key]; ok {
		return v
	}
	return def
}
