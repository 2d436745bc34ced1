package adb

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Device represents a device reachable through the adb server.
type Device struct {
	Serial string // Serial is the device serial number adb addresses it by.
	State  string // State can be "device", "offline", "unauthorized", etc..
	Model  string // Model is the device model, if adb reports one.
}

// FindDevice returns the first attached device in the "device" state.
func FindDevice(ctx context.Context, adbPath string) (*Device, error) {
	// Enumerate devices
	out, err := exec.CommandContext(ctx, adbPath, "devices", "-l").Output()
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}

	devices := parseDevices(string(out))

	// Find proper device
	for _, dev := range devices {
		if dev.State == "device" {
			return dev, nil
		}
	}

	return nil, fmt.Errorf("no device found")
}

// parseDevices parses `adb devices -l` output. Each device line reads
// `<serial> <state> [key:value ...]`; the banner line is skipped.
func parseDevices(out string) []*Device {
	var devices []*Device

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		device := &Device{Serial: fields[0], State: fields[1]}

		for _, field := range fields[2:] {
			if value, ok := strings.CutPrefix(field, "model:"); ok {
				device.Model = value
			}
		}

		devices = append(devices, device)
	}

	return devices
}
