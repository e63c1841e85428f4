// Package environment captures a snapshot of the machine a plan will run
// on: memory, CPU, disk, editors, AI tooling, and installed languages.
// Snapshots are cached with a TTL so repeated generations stay cheap.
package environment

import "time"

const gib = 1024 * 1024 * 1024

// Tier buckets a machine by total RAM. Template slots can carry per-tier
// variants, and the renderer picks the variant matching the profile.
type Tier string

const (
	TierConstrained Tier = "constrained" // under 8 GiB
	TierStandard    Tier = "standard"    // 8 to 32 GiB
	TierPerformance Tier = "performance" // 32 GiB and up
)

// Profile is an immutable snapshot of the host environment.
type Profile struct {
	RAMTotal     uint64 `json:"ram_total"`
	RAMAvailable uint64 `json:"ram_available"`
	CPUCores     int    `json:"cpu_cores"`
	DiskFree     uint64 `json:"disk_free"`

	ActiveEditor string   `json:"active_editor"`
	AITools      []string `json:"ai_tools"`
	Languages    []string `json:"languages"`

	CapturedAt time.Time `json:"captured_at"`
}

// Tier derives the resource tier from total RAM.
func (p *Profile) Tier() Tier {
	switch {
	case p.RAMTotal < 8*gib:
		return TierConstrained
	case p.RAMTotal < 32*gib:
		return TierStandard
	default:
		return TierPerformance
	}
}

// HasAITools reports whether any AI assistant was detected.
func (p *Profile) HasAITools() bool {
	return len(p.AITools) > 0
}

// HasAITool reports whether the named AI assistant was detected.
func (p *Profile) HasAITool(name string) bool {
	for _, t := range p.AITools {
		if t == name {
			return true
		}
	}
	return false
}

// HasLanguage reports whether the named language runtime was found.
func (p *Profile) HasLanguage(name string) bool {
	for _, l := range p.Languages {
		if l == name {
			return true
		}
	}
	return false
}

// RAMTotalGB returns total RAM rounded down to whole GiB.
func (p *Profile) RAMTotalGB() int {
	return int(p.RAMTotal / gib)
}

// Default returns the conservative fallback profile used when probing
// fails entirely: a constrained machine with no detected tooling.
func Default() *Profile {
	return &Profile{
		RAMTotal:     4 * gib,
		RAMAvailable: 2 * gib,
		CPUCores:     2,
		DiskFree:     10 * gib,
		ActiveEditor: "none",
		CapturedAt:   time.Now().UTC(),
	}
}
