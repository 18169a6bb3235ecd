package state

import (
	"fmt"
	"strconv"
)

// InfoProvider is anything that can describe itself as a line of text.
// Devices, rooms and the house all implement it.
type InfoProvider interface {
	Info() string
}

// Switchable devices accept a new power state.
type Switchable interface {
	InfoProvider
	Power(PowerState)
	State() PowerState
}

// Socket is a named switchable outlet. Like every device it is shared by
// pointer between rooms, so a change through the pointer shows up in each
// room holding it. Devices are not safe for concurrent use.
type Socket struct {
	name  string
	power PowerState
}

// NewSocket returns a socket in the given power state.
func NewSocket(name string, power PowerState) *Socket {
	return &Socket{name: name, power: power}
}

func (s *Socket) Power(p PowerState) {
	s.power = p
}

func (s *Socket) State() PowerState {
	return s.power
}

func (s *Socket) Name() string {
	return s.name
}

func (s *Socket) Info() string {
	return fmt.Sprintf("%s, power is %v", s.name, s.power)
}

// Thermometer holds the last temperature reading.
type Thermometer struct {
	temperature float32
}

func NewThermometer(temperature float32) *Thermometer {
	return &Thermometer{temperature: temperature}
}

// SetTemperature overwrites the reading. No range checks, NaN and Inf included.
func (t *Thermometer) SetTemperature(temperature float32) {
	t.temperature = temperature
}

func (t *Thermometer) Temperature() float32 {
	return t.temperature
}

func (t *Thermometer) Info() string {
	return "Thermometer, " + formatReading(t.temperature)
}

// PressureController is a switchable unit with a fixed pressure reading.
type PressureController struct {
	pressure float32
	power    PowerState
}

// NewPressureController starts at pressure 0, switched off.
func NewPressureController() *PressureController {
	return &PressureController{pressure: 0, power: Off}
}

// Pressure returns the fixed reading. Placeholder for a real sensor read.
func (pc *PressureController) Pressure() float32 {
	return pc.pressure
}

func (pc *PressureController) Power(p PowerState) {
	pc.power = p
}

func (pc *PressureController) State() PowerState {
	return pc.power
}

func (pc *PressureController) Info() string {
	return fmt.Sprintf("Pressure = %s, power is %v", formatReading(pc.Pressure()), pc.power)
}

// formatReading prints the shortest decimal that round-trips a float32,
// never in exponent form: 36.6, 0, 1000000.
func formatReading(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
