package respond

import (
	"strings"

	"github.com/wondertwin-ai/twin-vesync/internal/catalog"
)

const (
	prefixSmartBulb = "/SmartBulb/"

	cmdGetLightStatus   = "getLightStatus"
	cmdGetLightStatusV2 = "getLightStatusV2"

	moduleValceno  = "VeSyncBulbValcenoA19MC"
	moduleESL100MC = "VeSyncBulbESL100MC"
)

func bulb(req Request) (Envelope, error) {
	p := req.Path

	if strings.HasPrefix(p, prefixSmartBulb) && strings.HasSuffix(p, "/devicedetail") {
		return Flat(compose(identity(req), connection(), lightState(), layer{"brightNess": "100"})), nil
	}

	if strings.HasSuffix(p, "/updateBrightness") {
		return Success(map[string]any{
			"status":     "ok",
			"brightNess": echo(req.Body, "brightNess", "100"),
		}), nil
	}

	if strings.HasSuffix(p, "/devicestatus") {
		if req.isPut() {
			return Success(statusWrite(req.Body)), nil
		}
		return Success(compose(identity(req), connection(), lightState())), nil
	}

	if strings.HasSuffix(p, "/devicergbstatus") && req.isPut() {
		rgb, _ := req.Body["rgbValue"].(map[string]any)
		return Success(map[string]any{
			"status": "ok",
			"rgb": map[string]any{
				"red":        echo(rgb, "red", 255),
				"green":      echo(rgb, "green", 255),
				"blue":       echo(rgb, "blue", 255),
				"brightness": 100,
			},
		}), nil
	}

	if cmd := catalog.Command(req.Body); cmd == cmdGetLightStatus || cmd == cmdGetLightStatusV2 {
		return Success(lightStatus(req, cmd)), nil
	}

	return Success(ack()), nil
}

// lightStatus answers the bypass light status queries. The multicolor models
// answer in their own shape whichever command they are sent.
func lightStatus(req Request, cmd string) map[string]any {
	module := req.bodyString("configModule")
	if module == "" {
		module = req.ConfigModule
	}

	switch {
	case strings.Contains(module, moduleValceno):
		return map[string]any{
			"result": map[string]any{
				"enabled":    true,
				"brightness": 100,
				"colorTemp":  50,
				"colorMode":  "white",
				"hue":        0,
				"saturation": 0,
				"value":      100,
			},
		}
	case strings.Contains(module, moduleESL100MC):
		return map[string]any{
			"code": 0,
			"msg":  "request success",
			"result": map[string]any{
				"brightness": 100,
				"colorMode":  "color",
				"red":        255,
				"green":      0,
				"blue":       0,
			},
		}
	case cmd == cmdGetLightStatusV2:
		return map[string]any{
			"enabled":    true,
			"brightness": 100,
			"colorTemp":  50,
		}
	default:
		return map[string]any{
			"light": map[string]any{
				"action":     "on",
				"brightness": 100,
				"colorTempe": 50,
			},
		}
	}
}
