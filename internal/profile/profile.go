// Package profile implements the Strategy pattern for scan profiles.
// Each profile (quick, full, custom, offline) defines how long a scan runs,
// how many files it walks and how likely it is to find something.
package profile

import (
	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

// ScanStrategy defines the strategy interface for a scan type.
type ScanStrategy interface {
	// ID returns unique identifier (e.g., "quick", "full").
	ID() string

	// Name returns human-readable name for display and history.
	Name() string

	// Ticks returns how many progress ticks a scan lasts.
	Ticks() int

	// FileCount returns how many files the scan reports in total.
	FileCount() int

	// ThreatChance returns the probability in [0,1] of a detection.
	ThreatChance() float64

	// Targets returns the file paths the ticker reports as being scanned.
	Targets() []string
}

// ToProfile converts a ScanStrategy to the value carried in scan state.
func ToProfile(s ScanStrategy) domain.ScanProfile {
	return domain.ScanProfile{
		ID:           s.ID(),
		Name:         s.Name(),
		Ticks:        s.Ticks(),
		FileCount:    s.FileCount(),
		ThreatChance: s.ThreatChance(),
	}
}

// CriticalSystemFiles are the synthetic paths every built-in scan walks.
var CriticalSystemFiles = []string{
	`C:\Windows\System32\ntoskrnl.exe`,
	`C:\Windows\System32\hal.dll`,
	`C:\Windows\System32\win32k.sys`,
	`C:\Windows\System32\user32.dll`,
	`C:\Windows\System32\gdi32.dll`,
	`C:\Windows\System32\kernel32.dll`,
	`C:\Windows\System32\advapi32.dll`,
	`C:\Windows\SysWOW64\kernel32.dll`,
	`C:\Program Files\Common Files\System\ado\msado15.dll`,
	`C:\Windows\System32\drivers\tcpip.sys`,
	`C:\Windows\System32\svchost.exe`,
	`C:\Windows\explorer.exe`,
}
