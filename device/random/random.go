// Package random implements the "random:" device: an opaque byte stream the
// VM subsystem draws from when randomizing process stack bases. The machine
// has no true entropy source, so the stream is a xorshift generator seeded at
// driver initialization; no cryptographic guarantees are claimed.
package random

import (
	"io"

	"mipsos/device"
	"mipsos/kernel"
)

// seed is the initial xorshift state. Any non-zero value keeps the generator
// in its full-period orbit.
const seed = uint32(0x9e3779b9)

// Device is the "random:" byte source.
type Device struct {
	state uint32
}

// DriverName returns the name of the driver.
func (d *Device) DriverName() string {
	return "random"
}

// DriverVersion returns the driver version.
func (d *Device) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit seeds the generator.
func (d *Device) DriverInit(_ io.Writer) *kernel.Error {
	d.state = seed
	return nil
}

// ReadBytes fills p from the stream and returns len(p). The read never
// blocks and never fails; the simulated device has no backing I/O.
func (d *Device) ReadBytes(p []byte) (int, *kernel.Error) {
	for i := range p {
		if i%4 == 0 {
			d.advance()
		}
		p[i] = byte(d.state >> (8 * uint(i%4)))
	}

	return len(p), nil
}

// advance steps the xorshift generator.
func (d *Device) advance() {
	s := d.state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	d.state = s
}

// probeForRandomDevice always finds the device; every machine configuration
// provides the "random:" stream.
func probeForRandomDevice() device.Driver {
	return &Device{}
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderNormal,
		Probe: probeForRandomDevice,
	})
}
