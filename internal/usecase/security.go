package usecase

import (
	"strings"
	"time"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

// Synthetic detections.
const (
	ScanThreatName     = "Trojan:Win32/Wacatac.B!ml"
	PhishingThreatName = "Adware:Win32/FakePrize"
)

func onOff(p domain.ProtectionStatus) string {
	if p == domain.ProtectionActive {
		return "on"
	}
	return "off"
}

// toggled flips a protection between ACTIVE and INACTIVE. WARNING counts as
// not active, so toggling it turns protection on.
func toggled(p domain.ProtectionStatus) domain.ProtectionStatus {
	if p == domain.ProtectionActive {
		return domain.ProtectionInactive
	}
	return domain.ProtectionActive
}

func toggleAntivirus(s domain.State, now time.Time) domain.State {
	s.Antivirus = toggled(s.Antivirus)
	logHistory(&s, now, domain.CategoryAntivirus, "Real-time protection was turned %s.", onOff(s.Antivirus))
	return s
}

func toggleFirewall(s domain.State, now time.Time) domain.State {
	s.Firewall.Status = toggled(s.Firewall.Status)
	if s.Firewall.Status == domain.ProtectionActive {
		s.Achievements = s.Achievements.With(domain.ShieldsUp)
	}
	logHistory(&s, now, domain.CategoryFirewall, "Firewall was turned %s.", onOff(s.Firewall.Status))
	return s
}

func startScan(s domain.State, a StartScan, now time.Time) domain.State {
	if s.Scan.Scanning || a.Profile.Ticks <= 0 {
		return s
	}
	s.Scan.Scanning = true
	s.Scan.Progress = 0
	s.Scan.FilesScanned = 0
	s.Scan.CurrentFile = ""
	s.Scan.Threats = []domain.Threat{}
	s.Scan.Profile = a.Profile
	logHistory(&s, now, domain.CategoryAntivirus, "A %s was started.", a.Profile.Name)
	return s
}

func scanProgress(s domain.State, a ScanProgress) domain.State {
	if !s.Scan.Scanning {
		return s
	}
	progress := a.Progress
	if progress > 100 {
		progress = 100
	}
	if progress > s.Scan.Progress {
		s.Scan.Progress = progress
	}
	files := a.FilesScanned
	if total := s.Scan.Profile.FileCount; total > 0 && files > total {
		files = total
	}
	if files > s.Scan.FilesScanned {
		s.Scan.FilesScanned = files
	}
	s.Scan.CurrentFile = a.CurrentFile
	return s
}

func finishScan(s domain.State, a FinishScan, now time.Time) domain.State {
	if !s.Scan.Scanning {
		return s
	}
	// Every detection starts active and ids stay unique, otherwise a threat
	// could be unreachable by MANAGE_THREAT and pin antivirus at warning.
	threats := make([]domain.Threat, 0, len(a.Threats))
	seen := make(map[string]bool, len(a.Threats))
	for _, t := range a.Threats {
		if t.ID == "" || seen[t.ID] {
			t.ID = nextID(&s, "threat")
		}
		seen[t.ID] = true
		t.Status = domain.ThreatActive
		threats = append(threats, t)
	}

	s.Scan.Scanning = false
	s.Scan.Progress = 100
	s.Scan.CurrentFile = ""
	s.Scan.Threats = threats
	s.Scan.LastScan = now

	if len(threats) > 0 {
		s.Antivirus = domain.ProtectionWarning
		logHistory(&s, now, domain.CategoryAntivirus, "Scan complete. Found %d threat(s).", len(threats))
	} else {
		logHistory(&s, now, domain.CategoryAntivirus, "Scan complete. No threats found.")
	}
	return s
}

func manageThreat(s domain.State, a ManageThreat, now time.Time) domain.State {
	if !a.Resolution.IsResolution() {
		return s
	}
	idx := -1
	for i, t := range s.Scan.Threats {
		if t.ID == a.ThreatID {
			idx = i
			break
		}
	}
	if idx < 0 || s.Scan.Threats[idx].Status != domain.ThreatActive {
		return s
	}

	threats := make([]domain.Threat, len(s.Scan.Threats))
	copy(threats, s.Scan.Threats)
	threats[idx].Status = a.Resolution
	s.Scan.Threats = threats

	if s.Scan.ActiveThreats() > 0 {
		s.Antivirus = domain.ProtectionWarning
	} else {
		s.Antivirus = domain.ProtectionActive
	}
	if a.Resolution == domain.ThreatQuarantined || a.Resolution == domain.ThreatRemoved {
		s.Achievements = s.Achievements.With(domain.ThreatHunter)
	}
	logHistory(&s, now, domain.CategoryAntivirus, "Action taken: %q was %s.", threats[idx].Name, a.Resolution)
	return s
}

// setRansomware only moves not_configured -> configured.
func setRansomware(s domain.State, a SetRansomwareProtection, now time.Time) domain.State {
	if a.Status != domain.RansomwareConfigured || s.Ransomware == domain.RansomwareConfigured {
		return s
	}
	s.Ransomware = domain.RansomwareConfigured
	s.Achievements = s.Achievements.With(domain.LockedDown)
	logHistory(&s, now, domain.CategoryGeneral, "Ransomware protection was configured.")
	return s
}

func showPhishing(s domain.State) domain.State {
	if s.Phishing.PopupOpen {
		return s
	}
	s.Phishing.PopupOpen = true
	return s
}

func closePhishing(s domain.State, a ClosePhishingPopup, now time.Time) domain.State {
	if !s.Phishing.PopupOpen {
		return s
	}
	s.Phishing.PopupOpen = false

	if a.Claimed {
		threats := make([]domain.Threat, 0, len(s.Scan.Threats)+1)
		threats = append(threats, s.Scan.Threats...)
		s.Scan.Threats = append(threats, domain.Threat{
			ID:     nextID(&s, "phish"),
			Name:   PhishingThreatName,
			Status: domain.ThreatActive,
		})
		s.Antivirus = domain.ProtectionWarning
		s.Phishing.Outcome = domain.PhishingClaimed
		logHistory(&s, now, domain.CategoryAntivirus, "Phishing attempt was successful. A threat was added.")
		return s
	}

	s.Achievements = s.Achievements.With(domain.PhishAvoider)
	s.Phishing.Outcome = domain.PhishingAvoided
	logHistory(&s, now, domain.CategoryGeneral, "Phishing attempt was successfully avoided.")
	return s
}

func showSecurityReport(s domain.State) domain.State {
	report := BuildSecurityReport(s)
	s.SecurityReport = &report
	return s
}

func closeSecurityReport(s domain.State) domain.State {
	if s.SecurityReport == nil {
		return s
	}
	s.SecurityReport = nil
	return closeGuardedWindows(s)
}

func setFamilyOptions(s domain.State, a SetFamilyOptions, now time.Time) domain.State {
	opts := a.Options
	if !opts.ContentFilter.Valid() {
		return s
	}
	if opts.ScreenTimeHours < domain.MinScreenTimeHours {
		opts.ScreenTimeHours = domain.MinScreenTimeHours
	}
	if opts.ScreenTimeHours > domain.MaxScreenTimeHours {
		opts.ScreenTimeHours = domain.MaxScreenTimeHours
	}
	s.Family = opts
	logHistory(&s, now, domain.CategoryGeneral, "Family options were updated.")
	return s
}

func addFirewallRule(s domain.State, a AddFirewallRule, now time.Time) domain.State {
	rule := a.Rule
	rule.Name = strings.TrimSpace(rule.Name)
	if !rule.Valid() {
		return s
	}
	rule.ID = nextID(&s, "rule")

	rules := make([]domain.FirewallRule, 0, len(s.Firewall.Rules)+1)
	rules = append(rules, s.Firewall.Rules...)
	s.Firewall.Rules = append(rules, rule)
	logHistory(&s, now, domain.CategoryFirewall, "Firewall rule %q was added.", rule.Name)
	return s
}

func removeFirewallRule(s domain.State, a RemoveFirewallRule, now time.Time) domain.State {
	rules := make([]domain.FirewallRule, 0, len(s.Firewall.Rules))
	name := ""
	for _, r := range s.Firewall.Rules {
		if r.ID == a.RuleID {
			name = r.Name
			continue
		}
		rules = append(rules, r)
	}
	if len(rules) == len(s.Firewall.Rules) {
		return s
	}
	s.Firewall.Rules = rules
	logHistory(&s, now, domain.CategoryFirewall, "Firewall rule %q was removed.", name)
	return s
}

func addScanExclusion(s domain.State, a AddScanExclusion, now time.Time) domain.State {
	path := strings.TrimSpace(a.Path)
	if path == "" || s.Scan.IsExcluded(path) {
		return s
	}
	exclusions := make([]string, 0, len(s.Scan.Exclusions)+1)
	exclusions = append(exclusions, s.Scan.Exclusions...)
	s.Scan.Exclusions = append(exclusions, path)
	logHistory(&s, now, domain.CategoryAntivirus, "Scan exclusion added for: %s", path)
	return s
}

func removeScanExclusion(s domain.State, a RemoveScanExclusion, now time.Time) domain.State {
	path := strings.TrimSpace(a.Path)
	if !s.Scan.IsExcluded(path) {
		return s
	}
	exclusions := make([]string, 0, len(s.Scan.Exclusions)-1)
	for _, ex := range s.Scan.Exclusions {
		if ex != path {
			exclusions = append(exclusions, ex)
		}
	}
	s.Scan.Exclusions = exclusions
	logHistory(&s, now, domain.CategoryAntivirus, "Scan exclusion removed for: %s", path)
	return s
}
