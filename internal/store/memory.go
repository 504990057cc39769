package store

import (
	"github.com/wondertwin-ai/twin-vesync/internal/catalog"
	pkgstore "github.com/wondertwin-ai/twin-vesync/pkg/store"
)

// MemoryStore holds the device registry in memory. It is populated once before
// serving and only rebuilt by an admin reset.
type MemoryStore struct {
	Devices *pkgstore.Store[DeviceRecord]
	devices []catalog.Device
}

// New creates a registry seeded from the given device table.
func New(devices []catalog.Device) *MemoryStore {
	s := &MemoryStore{
		Devices: pkgstore.New[DeviceRecord](),
		devices: devices,
	}
	s.Initialize()
	return s
}

// Initialize clears the registry and registers one record per supported model,
// skipping the duplicate alias.
func (s *MemoryStore) Initialize() {
	ids := make([]string, 0, len(s.devices))
	records := make([]DeviceRecord, 0, len(s.devices))
	for _, d := range s.devices {
		if d.Model == catalog.DuplicateAlias {
			continue
		}
		id := DeviceID(d.Model)
		ids = append(ids, id)
		records = append(records, DeviceRecord{UUID: id, Model: d.Model, ConfigModule: d.ConfigModule})
	}
	s.Devices.Replace(ids, records)
}

// Lookup returns the model registered under id.
func (s *MemoryStore) Lookup(id string) (string, bool) {
	rec, ok := s.Devices.Get(id)
	if !ok {
		return "", false
	}
	return rec.Model, true
}

// Record returns the full record registered under id.
func (s *MemoryStore) Record(id string) (DeviceRecord, bool) {
	return s.Devices.Get(id)
}

// List returns every record in device-table order.
func (s *MemoryStore) List() []DeviceRecord {
	return s.Devices.List()
}

// Listing returns every device as the device-list endpoint reports it.
func (s *MemoryStore) Listing() []ListedDevice {
	records := s.List()
	out := make([]ListedDevice, len(records))
	for i, rec := range records {
		out[i] = rec.Listing()
	}
	return out
}

// Count returns the number of registered devices.
func (s *MemoryStore) Count() int {
	return s.Devices.Count()
}

// Snapshot returns the registry as a JSON-serializable value.
func (s *MemoryStore) Snapshot() any {
	return struct {
		Count   int            `json:"count"`
		IDs     []string       `json:"ids"`
		Devices []DeviceRecord `json:"devices"`
	}{
		Count:   s.Devices.Count(),
		IDs:     s.Devices.ListIDs(),
		Devices: s.List(),
	}
}

// Reset rebuilds the registry from the device table.
func (s *MemoryStore) Reset() {
	s.Initialize()
}
