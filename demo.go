package main

import (
	"github.com/elijahnyp/smarthouse/state"
)

// Demo is the built-in house: a kitchen and a bedroom with two devices each.
type Demo struct {
	House    *state.SmartHouse
	Socket1  *state.Socket
	Thermo   *state.Thermometer
	Socket2  *state.Socket
	Pressure *state.PressureController
}

func NewDemo() *Demo {
	d := &Demo{
		Socket1:  state.NewSocket("Socket 1", state.On),
		Thermo:   state.NewThermometer(36.6),
		Socket2:  state.NewSocket("Socket 2", state.On),
		Pressure: state.NewPressureController(),
	}

	kitchen := state.NewRoom("Кухня")
	kitchen.
		AddDevice("Socket 1", d.Socket1).
		AddDevice("Thermometer 1", d.Thermo)

	bedroom := state.NewRoom("Спальня")
	bedroom.
		AddDevice("Socket 2", d.Socket2).
		AddDevice("Pressure", d.Pressure)

	d.House = state.NewSmartHouse().AddRoom(kitchen).AddRoom(bedroom)
	return d
}

// Mutate flips the devices the way the demo scenario does between reports.
func (d *Demo) Mutate() {
	d.Socket1.Power(state.Off)
	d.Pressure.Power(state.On)
	d.Thermo.SetTemperature(38.8)
	d.Socket2.Power(state.Off)
}

// Run reports, mutates, reports again.
func (d *Demo) Run(report func(*state.SmartHouse) error) error {
	if err := report(d.House); err != nil {
		return err
	}
	d.Mutate()
	return report(d.House)
}
