// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"time"
)

// SMS is the typed view of the [sms] section. Permission data
// (commands, groups, throttles, blacklist) is derived from Section by
// the permission package; only settings that belong to no single
// command live here.
type SMS struct {
	// Section is the raw [sms] section.
	Section Section

	// ThrottleLimit is the length of a throttle window, from
	// throttle_time_limit_seconds. Zero when the key is absent.
	ThrottleLimit time.Duration
}

// SMS returns the typed [sms] view.
func (s *Settings) SMS() (*SMS, error) {
	s.smsOnce.Do(func() {
		s.sms, s.smsErr = s.buildSMS()
	})
	return s.sms, s.smsErr
}

func (s *Settings) buildSMS() (*SMS, error) {
	section, err := s.Section("sms")
	if err != nil {
		return nil, err
	}

	sms := &SMS{Section: section}

	if !section.Has("throttle_time_limit_seconds") {
		s.logger.Warn("sms.throttle_time_limit_seconds not set; throttle windows reset on every check")
		return sms, nil
	}

	seconds, err := section.Int("throttle_time_limit_seconds")
	if err != nil {
		return nil, err
	}
	if seconds < 0 {
		return nil, fmt.Errorf("[sms] throttle_time_limit_seconds = %d must not be negative: %w", seconds, ErrParse)
	}
	sms.ThrottleLimit = time.Duration(seconds) * time.Second

	return sms, nil
}
