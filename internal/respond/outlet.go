package respond

import (
	"path"
	"strings"
)

const (
	prefix15A     = "/15a/"
	prefixOutdoor = "/outdoorsocket15a/"
)

func outlet(req Request) (Envelope, error) {
	p := req.Path

	if strings.Contains(p, "/wifi-switch-1.3/") && strings.Contains(p, "/status/") {
		if status := path.Base(p); status == "on" || status == "off" {
			return Success(map[string]any{"status": "ok", "deviceStatus": status}), nil
		}
	}

	if strings.HasSuffix(p, "/devicestatus") {
		if req.isPut() {
			return Success(statusWrite(req.Body)), nil
		}
		return Success(compose(identity(req), connection(), telemetry(), nightLight(), operating())), nil
	}

	if strings.HasSuffix(p, "/devicedetail") || strings.HasSuffix(p, "/detail") {
		switch {
		case strings.HasPrefix(p, prefix15A):
			return Success(compose(identity(req), connection(), telemetry(), nightLightDetail(), operating())), nil
		case strings.HasPrefix(p, prefixOutdoor):
			return Success(compose(identity(req), connection(), telemetry(), operating(), outdoorSubDevices())), nil
		default:
			return Success(compose(identity(req), connection(), telemetry(), operating())), nil
		}
	}

	if history, ok := energyHistory(p); ok {
		return Success(history), nil
	}

	return Success(ack()), nil
}

// energyPeriods maps both URL spellings of an energy history period to its
// fixed series.
var energyPeriods = []struct {
	suffixes []string
	series   func() (data []float64, total, peak float64)
}{
	{[]string{"/energyday", "/energy/day"}, func() ([]float64, float64, float64) {
		return repeat(0.0625, 24), 1.5, 0.1
	}},
	{[]string{"/energyweek", "/energy/week"}, func() ([]float64, float64, float64) {
		return []float64{1.0, 1.5, 1.0, 1.0, 1.5, 1.0, 0.5}, 7.5, 10.0
	}},
	{[]string{"/energymonth", "/energy/month"}, func() ([]float64, float64, float64) {
		return repeat(1.5, 30), 45.0, 30.0
	}},
	{[]string{"/energyyear", "/energy/year"}, func() ([]float64, float64, float64) {
		return repeat(1.0, 12), 365.0, 100.0
	}},
}

func energyHistory(p string) (map[string]any, bool) {
	for _, period := range energyPeriods {
		for _, suffix := range period.suffixes {
			if !strings.HasSuffix(p, suffix) {
				continue
			}
			data, total, peak := period.series()
			return map[string]any{
				"energyConsumptionOfToday": 1.5,
				"costPerKWH":               0.12,
				"maxEnergy":                peak,
				"totalEnergy":              total,
				"data":                     data,
			}, true
		}
	}
	return nil, false
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
