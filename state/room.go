package state

import "strings"

// Room is a named set of devices keyed by a unique device name.
// Devices keep their registration order in the report.
type Room struct {
	name    string
	order   []string
	devices map[string]InfoProvider
}

func NewRoom(name string) *Room {
	return &Room{
		name:    name,
		devices: make(map[string]InfoProvider),
	}
}

func (r *Room) Name() string {
	return r.name
}

// AddDevice registers device under name. The first registration of a name
// wins; later calls with the same name are ignored.
func (r *Room) AddDevice(name string, device InfoProvider) *Room {
	if _, exists := r.devices[name]; exists {
		return r
	}
	r.devices[name] = device
	r.order = append(r.order, name)
	return r
}

func (r *Room) Device(name string) (InfoProvider, bool) {
	d, ok := r.devices[name]
	return d, ok
}

func (r *Room) DeviceNames() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *Room) Len() int {
	return len(r.order)
}

func (r *Room) Info() string {
	var sb strings.Builder
	sb.WriteString(r.name)
	sb.WriteByte('\n')
	for _, name := range r.order {
		sb.WriteString(r.devices[name].Info())
		sb.WriteByte('\n')
	}
	return sb.String()
}
