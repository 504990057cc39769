package respond

import "strings"

const prefixDimmer = "/dimmer/"

func wallSwitch(req Request) (Envelope, error) {
	p := req.Path

	if strings.HasSuffix(p, "/devicestatus") {
		if req.isPut() {
			return Success(statusWrite(req.Body)), nil
		}
		return Success(compose(identity(req), connection(), telemetry(), operating())), nil
	}

	if strings.HasSuffix(p, "/devicedetail") {
		if strings.HasPrefix(p, prefixDimmer) {
			return Success(compose(identity(req), connection(), dimmerState(), operating())), nil
		}
		return Success(compose(identity(req), connection(), telemetry(), operating())), nil
	}

	if strings.HasPrefix(p, prefixDimmer) {
		switch {
		case strings.HasSuffix(p, "/updatebrightness"):
			return Success(map[string]any{
				"status":     "ok",
				"brightness": echo(req.Body, "brightness", 100),
			}), nil
		case strings.HasSuffix(p, "/devicergbstatus"):
			return Success(map[string]any{
				"status":    "ok",
				"rgbStatus": echo(req.Body, "status", "on"),
				"rgbValue":  echo(req.Body, "rgbValue", map[string]any{"red": 255, "green": 255, "blue": 255}),
			}), nil
		case strings.HasSuffix(p, "/indicatorlightstatus"):
			return Success(map[string]any{
				"status":               "ok",
				"indicatorlightStatus": echo(req.Body, "status", "on"),
			}), nil
		}
	}

	return Success(ack()), nil
}
