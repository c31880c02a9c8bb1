// Package hal probes for the devices the machine provides and hands the
// capabilities they implement to the subsystems that consume them.
package hal

import (
	"bytes"
	"sort"

	"mipsos/device"
	"mipsos/kernel/kfmt"
	"mipsos/kernel/mm/vmm"
)

var (
	// activeDrivers tracks all initialized device drivers.
	activeDrivers []device.Driver

	strBuf bytes.Buffer
)

// DetectHardware probes for hardware devices and initializes the appropriate
// drivers.
func DetectHardware() {
	// Get driver list and sort by detection priority
	drivers := device.DriverList()
	sort.Sort(drivers)

	probe(drivers)
}

// probe executes the probe function for each driver and invokes onDriverInit
// for each successfully initialized driver.
func probe(driverInfoList device.DriverInfoList) {
	var w = kfmt.PrefixWriter{Sink: kfmt.GetOutputSink()}

	for _, info := range driverInfoList {
		drv := info.Probe()
		if drv == nil {
			continue
		}

		strBuf.Reset()
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(&strBuf, "[hal] %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)
		w.Prefix = strBuf.Bytes()

		if err := drv.DriverInit(&w); err != nil {
			kfmt.Fprintf(&w, "init failed: %s\n", err.Message)
			continue
		}

		kfmt.Fprintf(&w, "initialized\n")
		onDriverInit(drv)
		activeDrivers = append(activeDrivers, drv)
	}
}

// onDriverInit is invoked by probe() whenever a device is detected and
// successfully initialized. Drivers that implement a capability one of the
// kernel subsystems consumes are registered with it here.
func onDriverInit(drv device.Driver) {
	if src, ok := drv.(vmm.ByteSource); ok {
		vmm.SetRandomSource(src)
	}
}
