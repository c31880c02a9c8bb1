// Package device defines the driver interface implemented by all device
// drivers together with the registry the HAL walks when probing for
// hardware.
package device

import (
	"io"

	"mipsos/kernel"
)

// Driver is an interface implemented by all drivers.
type Driver interface {
	// DriverName returns the name of the driver.
	DriverName() string

	// DriverVersion returns the driver version.
	DriverVersion() (major uint16, minor uint16, patch uint16)

	// DriverInit initializes the device driver. If the driver init code
	// needs to log some output, it can use the supplied io.Writer in
	// conjunction with a call to kfmt.Fprintf.
	DriverInit(io.Writer) *kernel.Error
}

// ProbeFn is a function that scans for the presence of a particular piece of
// hardware and returns a driver for it, or nil if the hardware is absent.
type ProbeFn func() Driver

const (
	// DetectOrderEarly describes drivers that must be detected before
	// anything else.
	DetectOrderEarly = -128

	// DetectOrderNormal is the default detection priority.
	DetectOrderNormal = 0

	// DetectOrderLast describes drivers that must be detected after every
	// other driver.
	DetectOrderLast = 127
)

// DriverInfo describes a driver registered with the registry.
type DriverInfo struct {
	// Order controls when the driver is probed relative to the other
	// registered drivers.
	Order int

	// Probe scans for the hardware this driver handles.
	Probe ProbeFn
}

// DriverInfoList is a list of registered drivers that can be sorted by
// detection order.
type DriverInfoList []*DriverInfo

// Len returns the number of entries in the list.
func (l DriverInfoList) Len() int { return len(l) }

// Less reports whether entry i must be probed before entry j.
func (l DriverInfoList) Less(i, j int) bool { return l[i].Order < l[j].Order }

// Swap exchanges two list entries.
func (l DriverInfoList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

var registeredDrivers DriverInfoList

// RegisterDriver adds a driver to the registry walked by the HAL when it
// probes for hardware.
func RegisterDriver(info *DriverInfo) {
	registeredDrivers = append(registeredDrivers, info)
}

// DriverList returns the list of registered drivers.
func DriverList() DriverInfoList {
	return registeredDrivers
}
