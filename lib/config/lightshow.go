// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
)

// Lightshow is the typed view of the [lightshow] section.
type Lightshow struct {
	// Mode is "playlist", "stream-in" or "audio-in".
	Mode string

	PlaylistPath string

	AudioInCard       string
	AudioInChannels   int
	AudioInSampleRate int

	AlwaysOnChannels  []int
	AlwaysOffChannels []int
	InvertChannels    []int

	// Preshow and Postshow are nil when neither a usable JSON
	// configuration nor an existing script is configured.
	Preshow  *Show
	Postshow *Show
}

// Show describes what runs before or after a song. Exactly one of
// Configuration and Script is set.
type Show struct {
	// Configuration is the parsed *_configuration JSON object.
	Configuration map[string]any

	// Script is the path to an executable *_script file.
	Script string
}

// Lightshow returns the typed [lightshow] view. audio_in_channels and
// audio_in_sample_rate are required.
func (s *Settings) Lightshow() (*Lightshow, error) {
	s.lightshowOnce.Do(func() {
		s.lightshow, s.lightshowErr = s.buildLightshow()
	})
	return s.lightshow, s.lightshowErr
}

func (s *Settings) buildLightshow() (*Lightshow, error) {
	section, err := s.Section("lightshow")
	if err != nil {
		return nil, err
	}

	lightshow := &Lightshow{
		Mode:         section.Get("mode", "playlist"),
		PlaylistPath: section.Get("playlist_path", ""),
		AudioInCard:  section.Get("audio_in_card", "default"),
	}

	if lightshow.AudioInChannels, err = section.Int("audio_in_channels"); err != nil {
		return nil, err
	}
	if lightshow.AudioInSampleRate, err = section.Int("audio_in_sample_rate"); err != nil {
		return nil, err
	}

	channelLists := []struct {
		key    string
		target *[]int
	}{
		{"always_on_channels", &lightshow.AlwaysOnChannels},
		{"always_off_channels", &lightshow.AlwaysOffChannels},
		{"invert_channels", &lightshow.InvertChannels},
	}
	for _, list := range channelLists {
		channels, err := section.IntList(list.key, ",")
		if errors.Is(err, ErrMissingKey) {
			channels = []int{}
		} else if err != nil {
			return nil, err
		}
		*list.target = channels
	}

	lightshow.Preshow = s.show(section, "preshow")
	lightshow.Postshow = s.show(section, "postshow")

	return lightshow, nil
}

// show resolves the <prefix>_configuration / <prefix>_script pair. A
// JSON configuration wins only when no script is set.
func (s *Settings) show(section Section, prefix string) *Show {
	configuration := section.Get(prefix+"_configuration", "")
	script := section.Get(prefix+"_script", "")

	if configuration != "" && script == "" {
		object, err := DecodeJSONObject(configuration)
		if err != nil {
			s.logger.Error("show configuration not in JSON format",
				"field", "lightshow."+prefix+"_configuration", "error", err)
			return nil
		}
		return &Show{Configuration: object}
	}

	if script == "" {
		return nil
	}
	info, err := os.Stat(script)
	if err != nil || info.IsDir() {
		s.logger.Warn("show script not found, skipping", "field", "lightshow."+prefix+"_script", "path", script)
		return nil
	}
	return &Show{Script: script}
}
