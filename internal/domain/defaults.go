package domain

import "time"

// Session defaults.
const (
	DefaultHistoryLimit  = 1000
	DefaultToastLifetime = 5 * time.Second
	DefaultScreenTime    = 4
)

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		HistoryLimit:  DefaultHistoryLimit,
		ToastLifetime: DefaultToastLifetime,
	}
}

// InitialUpdates is the update catalogue offered by a fresh session.
func InitialUpdates() []UpdateItem {
	return []UpdateItem{
		{
			ID:          "KB5037771",
			Name:        "Cumulative Update for Windows 11 (KB5037771)",
			Description: "Includes security and quality improvements.",
			Status:      UpdatePending,
		},
		{
			ID:          "KB5031234",
			Name:        "Security Intelligence Update for Microsoft Defender Antivirus - KB5031234",
			Description: "The latest security definitions.",
			Status:      UpdatePending,
		},
		{
			ID:          "KB5034441",
			Name:        ".NET Framework 4.8.1 Update (KB5034441)",
			Description: "Fixes a security issue.",
			Status:      UpdatePending,
		},
	}
}

// NewState builds the initial session state. Zero-valued settings fields
// fall back to defaults.
func NewState(settings Settings) State {
	if settings.HistoryLimit < 1 {
		settings.HistoryLimit = DefaultHistoryLimit
	}
	if settings.ToastLifetime <= 0 {
		settings.ToastLifetime = DefaultToastLifetime
	}
	return State{
		Antivirus: ProtectionInactive,
		Firewall: FirewallState{
			Status: ProtectionInactive,
			Rules:  []FirewallRule{},
		},
		Updates: UpdatesState{
			Items: InitialUpdates(),
		},
		Scan: ScanState{
			Threats:    []Threat{},
			Exclusions: []string{},
		},
		Windows:       []WindowInstance{},
		Notifications: []Toast{},
		Ransomware:    RansomwareNotConfigured,
		Family: FamilyOptions{
			ScreenTimeHours: DefaultScreenTime,
			ContentFilter:   FilterNone,
		},
		History:  []HistoryEntry{},
		Settings: settings,
	}
}
