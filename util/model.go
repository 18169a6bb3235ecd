package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/elijahnyp/smarthouse/state"
)

const ( //device kinds
	SOCKET              = "socket"
	THERMOMETER         = "thermometer"
	PRESSURE_CONTROLLER = "pressure_controller"
)

var (
	ErrUnknownDeviceKind = errors.New("unknown device kind")
	ErrUnknownDevice     = errors.New("unknown device")
	ErrDuplicateDeviceID = errors.New("duplicate device id")
)

// HouseModel is the house layout as written in the config file under "house".
type HouseModel struct {
	Devices []DeviceSpec `mapstructure:"devices"`
	Rooms   []RoomSpec   `mapstructure:"rooms"`
}

type DeviceSpec struct {
	Id          string  `mapstructure:"id"`
	Kind        string  `mapstructure:"kind"`
	Name        string  `mapstructure:"name"`
	Power       string  `mapstructure:"power"`
	Temperature float32 `mapstructure:"temperature"`
}

type RoomSpec struct {
	Name    string          `mapstructure:"name"`
	Devices []RoomDeviceRef `mapstructure:"devices"`
}

// RoomDeviceRef registers the device with id Device under Name in a room.
type RoomDeviceRef struct {
	Name   string `mapstructure:"name"`
	Device string `mapstructure:"device"`
}

// Devices indexes the built devices by id.
type Devices map[string]state.InfoProvider

func (m HouseModel) Empty() bool {
	return len(m.Rooms) == 0
}

func (m *HouseModel) BuildModel() error {
	*m = HouseModel{}
	err := Config.UnmarshalKey("house", m)
	if err != nil {
		Logger.Error().Msgf("error unmarshaling house: %v", err)
		return fmt.Errorf("unmarshal house: %w", err)
	}
	if m.Empty() && len(m.Devices) > 0 {
		Logger.Warn().Msgf("house layout has %d devices but no rooms, falling back to the demo house", len(m.Devices))
	}
	return nil
}

func (d DeviceSpec) build() (state.InfoProvider, error) {
	switch strings.ToLower(d.Kind) {
	case SOCKET:
		power, err := state.ParsePowerState(d.Power)
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", d.Id, err)
		}
		name := d.Name
		if name == "" {
			name = d.Id
		}
		return state.NewSocket(name, power), nil
	case THERMOMETER:
		return state.NewThermometer(d.Temperature), nil
	case PRESSURE_CONTROLLER:
		power, err := state.ParsePowerState(d.Power)
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", d.Id, err)
		}
		pc := state.NewPressureController()
		pc.Power(power)
		return pc, nil
	}
	return nil, fmt.Errorf("device %s: %w: %q", d.Id, ErrUnknownDeviceKind, d.Kind)
}

// Build creates every device once and registers the same pointer in each
// room that references it.
func (m HouseModel) Build() (*state.SmartHouse, Devices, error) {
	devices := make(Devices, len(m.Devices))
	for _, spec := range m.Devices {
		if _, exists := devices[spec.Id]; exists {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateDeviceID, spec.Id)
		}
		device, err := spec.build()
		if err != nil {
			return nil, nil, err
		}
		devices[spec.Id] = device
	}

	house := state.NewSmartHouse()
	for _, rs := range m.Rooms {
		room := state.NewRoom(rs.Name)
		for _, ref := range rs.Devices {
			device, ok := devices[ref.Device]
			if !ok {
				return nil, nil, fmt.Errorf("room %s: %w: %s", rs.Name, ErrUnknownDevice, ref.Device)
			}
			name := ref.Name
			if name == "" {
				name = ref.Device
			}
			room.AddDevice(name, device)
		}
		house.AddRoom(room)
		Logger.Debug().Msgf("room %s built with %d devices", rs.Name, room.Len())
	}
	return house, devices, nil
}
