package respond

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wondertwin-ai/twin-vesync/internal/catalog"
	"github.com/wondertwin-ai/twin-vesync/internal/store"
	"github.com/wondertwin-ai/twin-vesync/internal/vesync"
)

// render returns the envelope as a client would decode it.
func render(t *testing.T, env Envelope) map[string]any {
	t.Helper()
	data, err := json.Marshal(env)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func dispatchOK(t *testing.T, req Request) map[string]any {
	t.Helper()
	env, err := Dispatch(req)
	require.NoError(t, err)
	m := render(t, env)
	require.Equal(t, float64(0), m["code"])
	require.Equal(t, vesync.MsgSuccess, m["msg"])
	return m
}

func result(t *testing.T, m map[string]any) map[string]any {
	t.Helper()
	r, ok := m["result"].(map[string]any)
	require.True(t, ok, "result is not an object: %v", m["result"])
	return r
}

func newRequest(model, path, method string, body map[string]any) Request {
	cm, _ := catalog.ConfigModuleFor(model)
	return Request{
		DeviceID:     store.DeviceID(model),
		Model:        model,
		ConfigModule: cm,
		Family:       catalog.Classify(model, cm),
		Path:         path,
		Method:       method,
		Body:         body,
	}
}

// ---------------------------------------------------------------------------
// Envelope
// ---------------------------------------------------------------------------

func TestEnvelopeSuccess(t *testing.T) {
	m := render(t, Success(map[string]any{"status": "ok"}))
	assert.Equal(t, float64(0), m["code"])
	assert.Equal(t, "request success", m["msg"])
	assert.Equal(t, map[string]any{"status": "ok"}, m["result"])
}

func TestEnvelopeSuccessNilResult(t *testing.T) {
	m := render(t, Success(nil))
	result, ok := m["result"]
	assert.True(t, ok)
	assert.Nil(t, result)
}

func TestEnvelopeFlat(t *testing.T) {
	m := render(t, Flat(map[string]any{"deviceStatus": "on", "code": 99, "msg": "inline"}))
	assert.Equal(t, "on", m["deviceStatus"])
	assert.Equal(t, float64(0), m["code"], "envelope code wins over inline fields")
	assert.Equal(t, "request success", m["msg"])
	assert.Contains(t, m, "result")
}

func TestEnvelopeFailure(t *testing.T) {
	m := render(t, Failure(vesync.InvalidToken()))
	assert.Equal(t, float64(vesync.CodeInvalidAuth), m["code"])
	assert.Equal(t, vesync.MsgInvalidToken, m["msg"])
	assert.Nil(t, m["result"])
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

func TestDispatchRoutesEveryFamily(t *testing.T) {
	for _, d := range catalog.Devices() {
		if d.Model == catalog.DuplicateAlias {
			continue
		}
		req := newRequest(d.Model, "/anything/v1/device/unknownop", "POST", map[string]any{"configModule": d.ConfigModule})
		require.NotEqual(t, catalog.FamilyUnknown, req.Family, d.Model)
		_, err := Dispatch(req)
		assert.NoError(t, err, d.Model)
	}
}

func TestDispatchUnknownFamily(t *testing.T) {
	req := newRequest("Mystery9000", "/10a/v1/device/devicedetail", "POST", nil)

	_, err := Dispatch(req)
	var verr *vesync.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, vesync.KindDispatch, verr.Kind)
	assert.Equal(t, vesync.CodeDispatch, verr.Code)
	assert.Equal(t, "No handler configured for model: Mystery9000", verr.Msg)
}

// ---------------------------------------------------------------------------
// Outlet
// ---------------------------------------------------------------------------

func TestOutletStatusWriteEchoes(t *testing.T) {
	paths := map[string]string{
		"ESW03-USA": "/10a/v1/device/devicestatus",
		"ESW15-USA": "/15a/v1/device/devicestatus",
		"ESO15-TB":  "/outdoorsocket15a/v1/device/devicestatus",
	}
	for model, path := range paths {
		for _, status := range []string{"off", "on"} {
			m := dispatchOK(t, newRequest(model, path, "PUT", map[string]any{"status": status}))
			r := result(t, m)
			assert.Equal(t, status, r["deviceStatus"], model)
			assert.Equal(t, "ok", r["status"])
		}
	}
}

func TestOutletStatusWriteDefaultsOn(t *testing.T) {
	m := dispatchOK(t, newRequest("ESW03-USA", "/10a/v1/device/devicestatus", "PUT", map[string]any{}))
	assert.Equal(t, "on", result(t, m)["deviceStatus"])
}

func TestOutletStatusRead(t *testing.T) {
	req := newRequest("ESW03-USA", "/10a/v1/device/devicestatus", "POST", map[string]any{"status": "off"})
	r := result(t, dispatchOK(t, req))

	assert.Equal(t, "on", r["deviceStatus"], "reads return the canned status")
	assert.Equal(t, 50.0, r["power"])
	assert.Equal(t, 120.0, r["voltage"])
	assert.Equal(t, "auto", r["nightLightStatus"])
	assert.Equal(t, req.DeviceID, r["uuid"])
}

func TestOutletWifiToggle(t *testing.T) {
	id := store.DeviceID("wifi-switch-1.3")
	for _, status := range []string{"on", "off"} {
		req := newRequest("wifi-switch-1.3", "/v1/wifi-switch-1.3/"+id+"/status/"+status, "PUT", nil)
		r := result(t, dispatchOK(t, req))
		assert.Equal(t, status, r["deviceStatus"])
		assert.Equal(t, "ok", r["status"])
	}
}

func TestOutletDetails(t *testing.T) {
	r := result(t, dispatchOK(t, newRequest("ESW15-USA", "/15a/v1/device/devicedetail", "POST", nil)))
	assert.Equal(t, float64(50), r["nightLightBrightness"])
	assert.Equal(t, "auto", r["nightLightAutomode"])
	assert.Equal(t, "Mock ESW15-USA", r["deviceName"])
	assert.Equal(t, "VeSyncOutlet15A", r["configModule"])

	r = result(t, dispatchOK(t, newRequest("ESO15-TB", "/outdoorsocket15a/v1/device/devicedetail", "POST", nil)))
	subs, ok := r["subDevices"].([]any)
	require.True(t, ok)
	require.Len(t, subs, 1)
	assert.Equal(t, float64(1), subs[0].(map[string]any)["subDeviceNo"])

	r = result(t, dispatchOK(t, newRequest("ESW03-USA", "/10a/v1/device/devicedetail", "POST", nil)))
	assert.NotContains(t, r, "nightLightBrightness")
	assert.NotContains(t, r, "subDevices")
	assert.Equal(t, float64(3600), r["activeTime"])

	id := store.DeviceID("wifi-switch-1.3")
	r = result(t, dispatchOK(t, newRequest("wifi-switch-1.3", "/v1/device/"+id+"/detail", "GET", nil)))
	assert.Equal(t, id, r["cid"])
}

func TestOutletEnergyHistory(t *testing.T) {
	tests := []struct {
		path  string
		n     int
		total float64
		max   float64
	}{
		{"/10a/v1/device/energyweek", 7, 7.5, 10},
		{"/15a/v1/device/energymonth", 30, 45, 30},
		{"/outdoorsocket15a/v1/device/energyyear", 12, 365, 100},
		{"/v1/device/x/energy/week", 7, 7.5, 10},
		{"/v1/device/x/energy/month", 30, 45, 30},
		{"/v1/device/x/energy/year", 12, 365, 100},
		{"/v1/device/x/energy/day", 24, 1.5, 0.1},
	}
	for _, tt := range tests {
		r := result(t, dispatchOK(t, newRequest("ESW03-USA", tt.path, "POST", nil)))
		data, ok := r["data"].([]any)
		require.True(t, ok, tt.path)
		assert.Len(t, data, tt.n, tt.path)
		assert.Equal(t, tt.total, r["totalEnergy"], tt.path)
		assert.Equal(t, tt.max, r["maxEnergy"], tt.path)
		assert.Equal(t, 0.12, r["costPerKWH"])
	}
}

func TestOutletFallbackAck(t *testing.T) {
	r := result(t, dispatchOK(t, newRequest("ESW15-USA", "/15a/v1/device/nightlightstatus", "PUT", map[string]any{"mode": "auto"})))
	assert.Equal(t, map[string]any{"status": "ok"}, r)
}

// ---------------------------------------------------------------------------
// Switch
// ---------------------------------------------------------------------------

func TestSwitchStatus(t *testing.T) {
	r := result(t, dispatchOK(t, newRequest("ESWL01", "/inwallswitch/v1/device/devicestatus", "PUT", map[string]any{"status": "off"})))
	assert.Equal(t, "off", r["deviceStatus"])

	r = result(t, dispatchOK(t, newRequest("ESWL01", "/inwallswitch/v1/device/devicestatus", "POST", nil)))
	assert.Equal(t, "on", r["deviceStatus"])
	assert.Equal(t, "VeSyncWallSwitch", r["configModule"])
}

func TestSwitchDetails(t *testing.T) {
	r := result(t, dispatchOK(t, newRequest("ESWL03", "/inwallswitch/v1/device/devicedetail", "POST", nil)))
	assert.Equal(t, 50.0, r["power"])
	assert.NotContains(t, r, "rgbValue")

	r = result(t, dispatchOK(t, newRequest("ESWD16", "/dimmer/v1/device/devicedetail", "POST", nil)))
	assert.Equal(t, float64(100), r["brightness"])
	assert.Equal(t, "on", r["indicatorlightStatus"])
	assert.Contains(t, r, "rgbValue")
}

func TestDimmerWritesEcho(t *testing.T) {
	r := result(t, dispatchOK(t, newRequest("ESWD16", "/dimmer/v1/device/updatebrightness", "PUT", map[string]any{"brightness": 35.0})))
	assert.Equal(t, 35.0, r["brightness"])

	rgb := map[string]any{"red": 1.0, "green": 2.0, "blue": 3.0}
	r = result(t, dispatchOK(t, newRequest("ESWD16", "/dimmer/v1/device/devicergbstatus", "PUT", map[string]any{"status": "off", "rgbValue": rgb})))
	assert.Equal(t, "off", r["rgbStatus"])
	assert.Equal(t, rgb, r["rgbValue"])

	r = result(t, dispatchOK(t, newRequest("ESWD16", "/dimmer/v1/device/indicatorlightstatus", "PUT", map[string]any{"status": "off"})))
	assert.Equal(t, "off", r["indicatorlightStatus"])
}

// ---------------------------------------------------------------------------
// Bulb
// ---------------------------------------------------------------------------

func TestSmartBulbDetailIsFlat(t *testing.T) {
	m := dispatchOK(t, newRequest("ESL100", "/SmartBulb/v1/device/devicedetail", "POST", nil))
	assert.Equal(t, "100", m["brightNess"])
	assert.Equal(t, "on", m["deviceStatus"])
	assert.Equal(t, "white", m["colorMode"])
	assert.Nil(t, m["result"])
}

func TestBulbUpdateBrightness(t *testing.T) {
	r := result(t, dispatchOK(t, newRequest("ESL100", "/SmartBulb/v1/device/updateBrightness", "PUT", map[string]any{"brightNess": "42"})))
	assert.Equal(t, "42", r["brightNess"])
}

func TestBulbStatusAndRGB(t *testing.T) {
	r := result(t, dispatchOK(t, newRequest("ESL100", "/SmartBulb/v1/device/devicestatus", "PUT", map[string]any{"status": "off"})))
	assert.Equal(t, "off", r["deviceStatus"])

	r = result(t, dispatchOK(t, newRequest("ESL100", "/SmartBulb/v1/device/devicestatus", "POST", nil)))
	assert.Equal(t, float64(100), r["brightness"])

	r = result(t, dispatchOK(t, newRequest("ESL100", "/SmartBulb/v1/device/devicergbstatus", "PUT", map[string]any{"rgbValue": map[string]any{"red": 10.0}})))
	rgb := r["rgb"].(map[string]any)
	assert.Equal(t, 10.0, rgb["red"])
	assert.Equal(t, float64(255), rgb["green"])
}

func bypassV2Body(module, method string) map[string]any {
	return map[string]any{
		"method":       "bypassV2",
		"configModule": module,
		"payload":      map[string]any{"method": method, "data": map[string]any{}},
	}
}

func TestBulbLightStatusShapes(t *testing.T) {
	r := result(t, dispatchOK(t, newRequest("XYD0001", catalog.BypassV2Path, "POST", bypassV2Body("VeSyncBulbValcenoA19MC", "getLightStatusV2"))))
	inner := r["result"].(map[string]any)
	assert.Equal(t, float64(0), inner["saturation"])
	assert.Equal(t, true, inner["enabled"])

	r = result(t, dispatchOK(t, newRequest("ESL100MC", catalog.BypassV2Path, "POST", bypassV2Body("VeSyncBulbESL100MC", "getLightStatus"))))
	assert.Equal(t, float64(0), r["code"])
	assert.Equal(t, "color", r["result"].(map[string]any)["colorMode"])

	body := map[string]any{"method": "bypass", "configModule": "VeSyncBulbESL100CW", "jsonCmd": map[string]any{"getLightStatus": "get"}}
	r = result(t, dispatchOK(t, newRequest("ESL100CW", catalog.BypassV1Path, "POST", body)))
	assert.Equal(t, "on", r["light"].(map[string]any)["action"])

	r = result(t, dispatchOK(t, newRequest("ESL100CW", catalog.BypassV2Path, "POST", bypassV2Body("VeSyncBulbESL100CW", "getLightStatusV2"))))
	assert.Equal(t, float64(50), r["colorTemp"])
	assert.NotContains(t, r, "light")
}

func TestBulbOtherBypassCommandsAck(t *testing.T) {
	r := result(t, dispatchOK(t, newRequest("XYD0001", catalog.BypassV2Path, "POST", bypassV2Body("VeSyncBulbValcenoA19MC", "setSwitch"))))
	assert.Equal(t, map[string]any{"status": "ok"}, r)
}

// ---------------------------------------------------------------------------
// Fan
// ---------------------------------------------------------------------------

func TestAir131DetailIsFlat(t *testing.T) {
	m := dispatchOK(t, newRequest("LV-PUR131S", "/131airPurifier/v1/device/deviceDetail", "POST", nil))
	assert.Equal(t, "excellent", m["airQuality"])
	assert.Equal(t, float64(100), m["filterLife"].(map[string]any)["percent"])
	assert.Equal(t, "LV-PUR131S", m["model"])
	assert.Nil(t, m["result"])
}

func TestAir131WritesAck(t *testing.T) {
	for _, p := range []string{"/131airPurifier/v1/device/updateMode", "/131airPurifier/v1/device/updateSpeed", "/131airPurifier/v1/device/deviceStatus"} {
		m := dispatchOK(t, newRequest("LV-PUR131S", p, "PUT", map[string]any{"mode": "manual"}))
		assert.Nil(t, m["result"], p)
	}
}

func TestFanRequiresConfigModule(t *testing.T) {
	_, err := Dispatch(newRequest("Core200S", catalog.BypassV2Path, "POST", map[string]any{"method": "bypassV2"}))
	var verr *vesync.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Missing required field: configModule", verr.Msg)
}

func TestFanOverlays(t *testing.T) {
	tests := []struct {
		model, module string
		want          map[string]any
		absent        []string
	}{
		{"Core300S", "VeSyncAirBypass", map[string]any{"filter_life": float64(7), "night_light": "on"}, []string{"humidity"}},
		{"LAP-V201S-AASR", "VeSyncAirBaseV2", map[string]any{"air_quality": float64(2)}, nil},
		{"LTF-F422S-KEU", "VeSyncTowerFan", map[string]any{"child_lock": false}, nil},
		{"Classic300S", "VeSyncHumid200300S", map[string]any{"humidity": float64(45), "warm_enabled": true}, []string{"workMode"}},
		{"Classic200S", "VeSyncHumid200S", map[string]any{"mist_level": float64(1)}, nil},
		{"LUH-M101S-WUS", "VeSyncHumid1000S", map[string]any{"workMode": "manual", "warm_level": float64(1), "autoStopSwitch": float64(1)}, nil},
		{"LEH-S601S-WUS", "VeSyncSuperior6000S", map[string]any{"workMode": "autoPro", "temperature": float64(25)}, []string{"warm_level"}},
	}
	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			req := newRequest(tt.model, catalog.BypassV2Path, "POST", bypassV2Body(tt.module, "getPurifierStatus"))
			outer := result(t, dispatchOK(t, req))
			assert.Equal(t, float64(0), outer["code"])
			assert.Contains(t, outer, "msg")
			assert.Nil(t, outer["msg"])

			inner := outer["result"].(map[string]any)
			assert.Equal(t, tt.model, inner["model"])
			assert.Equal(t, req.DeviceID, inner["deviceId"])
			assert.Equal(t, "online", inner["connectionStatus"])
			for k, v := range tt.want {
				assert.Equal(t, v, inner[k], k)
			}
			for _, k := range tt.absent {
				assert.NotContains(t, inner, k)
			}
		})
	}
}

func TestFanUnknownModuleGetsBaseOnly(t *testing.T) {
	req := newRequest("Core200S", catalog.BypassV2Path, "POST", bypassV2Body("VeSyncSomethingNew", "getPurifierStatus"))
	inner := result(t, dispatchOK(t, req))["result"].(map[string]any)
	assert.Equal(t, "on", inner["deviceStatus"])
	assert.NotContains(t, inner, "filter_life")
}

func TestRespondersReturnFreshMaps(t *testing.T) {
	req := newRequest("ESW15-USA", "/15a/v1/device/devicedetail", "POST", nil)
	env, err := Dispatch(req)
	require.NoError(t, err)
	env.Result.(map[string]any)["power"] = -1.0

	again := result(t, dispatchOK(t, req))
	assert.Equal(t, 50.0, again["power"])
}
