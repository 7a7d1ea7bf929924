package config

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/smazurov/transcodeargs/internal/ffmpeg"
)

// LoadProfile reads the [encoding] table into an encoder profile. A missing
// file yields the defaults. cpu_count = 0 (or absent) detects the logical
// CPU count of the host.
func LoadProfile(path string) (ffmpeg.Profile, error) {
	var profile ffmpeg.Profile

	file, err := readTOML(path)
	if err != nil {
		return profile, err
	}

	var rawQuality string
	var cpuCount int64
	if table, ok := file["encoding"].(map[string]any); ok {
		if q, isString := table["quality"].(string); isString {
			rawQuality = q
		}
		if n, isInt := table["cpu_count"].(int64); isInt {
			cpuCount = n
		}
	}

	return NewProfile(rawQuality, int(cpuCount))
}

// NewProfile validates quality and resolves a zero cpuCount to the host's.
func NewProfile(quality string, cpuCount int) (ffmpeg.Profile, error) {
	q, err := ffmpeg.ParseQuality(quality)
	if err != nil {
		return ffmpeg.Profile{}, err
	}
	if cpuCount < 0 {
		return ffmpeg.Profile{}, fmt.Errorf("cpu_count must not be negative, got %d", cpuCount)
	}
	if cpuCount == 0 {
		cpuCount = DetectCPUCount()
	}
	return ffmpeg.Profile{Quality: q, CPUCount: cpuCount}, nil
}

// DetectCPUCount returns the logical CPU count, or 1 when it cannot be read.
func DetectCPUCount() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
