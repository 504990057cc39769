// Package store defines the VeSync twin's device registry: the fixed set of
// mock devices a client can discover, keyed by a stable identifier.
package store

import (
	"crypto/md5"
	"fmt"

	"github.com/google/uuid"
)

// DeviceRecord is one registered mock device.
type DeviceRecord struct {
	UUID         string `json:"uuid"`
	Model        string `json:"model"`
	ConfigModule string `json:"configModule"`
}

// ListedDevice is a device as the device-list endpoint reports it.
type ListedDevice struct {
	DeviceName         string    `json:"deviceName"`
	DeviceImg          string    `json:"deviceImg"`
	CID                string    `json:"cid"`
	ConnectionStatus   string    `json:"connectionStatus"`
	ConnectionType     string    `json:"connectionType"`
	DeviceType         string    `json:"deviceType"`
	Type               string    `json:"type"`
	UUID               string    `json:"uuid"`
	ConfigModule       string    `json:"configModule"`
	MacID              string    `json:"macID"`
	Mode               string    `json:"mode"`
	Speed              int       `json:"speed"`
	Extension          Extension `json:"extension"`
	CurrentFirmVersion string    `json:"currentFirmVersion"`
	DeviceRegion       string    `json:"deviceRegion"`
	DeviceStatus       string    `json:"deviceStatus"`
	SubDeviceNo        int       `json:"subDeviceNo"`
	PID                string    `json:"pid"`
}

// Extension carries the fan settings older clients read from the listing.
type Extension struct {
	FanSpeedLevel int    `json:"fanSpeedLevel"`
	Mode          string `json:"mode"`
}

// DeviceID derives the identifier of a model: the MD5 digest of the model name
// rendered as a UUID. The same model always gets the same identifier.
func DeviceID(model string) string {
	sum := md5.Sum([]byte(model))
	id, err := uuid.FromBytes(sum[:])
	if err != nil {
		// md5.Size == 16, so FromBytes cannot fail.
		panic(err)
	}
	return id.String()
}

// MacID derives a locally administered MAC address from a device identifier.
func MacID(id string) string {
	u, err := uuid.Parse(id)
	if err != nil {
		return "52:54:00:00:00:00"
	}
	return fmt.Sprintf("52:54:00:%02x:%02x:%02x", u[0], u[1], u[2])
}

// Listing renders the record as the device-list endpoint reports it.
func (d DeviceRecord) Listing() ListedDevice {
	return ListedDevice{
		DeviceName:         "Mock " + d.Model,
		DeviceImg:          "https://image.vesync.com/" + d.Model + ".png",
		CID:                d.UUID,
		ConnectionStatus:   "online",
		ConnectionType:     "wifi",
		DeviceType:         d.Model,
		Type:               d.Model,
		UUID:               d.UUID,
		ConfigModule:       d.ConfigModule,
		MacID:              MacID(d.UUID),
		Mode:               "auto",
		Speed:              1,
		Extension:          Extension{FanSpeedLevel: 1, Mode: "auto"},
		CurrentFirmVersion: "1.0.0",
		DeviceRegion:       "US",
		DeviceStatus:       "on",
		SubDeviceNo:        0,
		PID:                "pid_" + d.Model,
	}
}
