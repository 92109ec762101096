// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Hardware is the typed view of the [hardware] section.
type Hardware struct {
	// GPIOPins lists the wiringPi pin numbers, one per channel.
	GPIOPins []int

	// PinModes holds one mode ("onoff" or "pwm") per pin. A single
	// configured mode applies to every pin.
	PinModes []string

	// PWMRange is the maximum PWM value. Default: 100.
	PWMRange int

	// ActiveLowMode inverts the on/off levels for relay boards that
	// switch on a low signal.
	ActiveLowMode bool

	// ExportPins selects sysfs pin export instead of direct access.
	ExportPins bool

	// GPIOUtilityPath is the path to the gpio command-line utility.
	GPIOUtilityPath string

	// Devices describes expansion chips keyed by lowercased device
	// name. Empty when the devices field is missing or malformed.
	Devices map[string]any
}

// Hardware returns the typed [hardware] view. Only gpio_pins is
// required.
func (s *Settings) Hardware() (*Hardware, error) {
	s.hardwareOnce.Do(func() {
		s.hardware, s.hardwareErr = s.buildHardware()
	})
	return s.hardware, s.hardwareErr
}

func (s *Settings) buildHardware() (*Hardware, error) {
	section, err := s.Section("hardware")
	if err != nil {
		return nil, err
	}

	hardware := &Hardware{
		PWMRange:        100,
		GPIOUtilityPath: section.Get("gpio_utility_path", ""),
	}

	if hardware.GPIOPins, err = section.IntList("gpio_pins", ","); err != nil {
		return nil, err
	}

	modes := SplitList(section.Get("pin_modes", "onoff"), ",")
	switch {
	case len(modes) == 1:
		hardware.PinModes = make([]string, len(hardware.GPIOPins))
		for i := range hardware.PinModes {
			hardware.PinModes[i] = modes[0]
		}
	case len(modes) == len(hardware.GPIOPins):
		hardware.PinModes = modes
	default:
		return nil, fmt.Errorf("[hardware] pin_modes has %d entries for %d pins: %w",
			len(modes), len(hardware.GPIOPins), ErrParse)
	}

	if section.Has("pwm_range") {
		if hardware.PWMRange, err = section.Int("pwm_range"); err != nil {
			return nil, err
		}
	}
	if hardware.ActiveLowMode, err = optionalBool(section, "active_low_mode"); err != nil {
		return nil, err
	}
	if hardware.ExportPins, err = optionalBool(section, "export_pins"); err != nil {
		return nil, err
	}

	devices := ParseJSONObject("hardware.devices", section.Get("devices", ""), s.logger)
	hardware.Devices = make(map[string]any, len(devices))
	for name, value := range devices {
		hardware.Devices[strings.ToLower(name)] = value
	}

	return hardware, nil
}

// optionalBool is Section.Bool with false for a missing key.
func optionalBool(section Section, key string) (bool, error) {
	value, err := section.Bool(key)
	if errors.Is(err, ErrMissingKey) {
		return false, nil
	}
	return value, err
}
