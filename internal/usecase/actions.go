package usecase

import (
	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

// Action is a request to change the session state. Every action carries a
// stable wire kind; values Reduce does not recognise leave state untouched.
type Action interface {
	Kind() string
}

// Wire kinds.
const (
	KindToggleAntivirus       = "TOGGLE_ANTIVIRUS"
	KindToggleFirewall        = "TOGGLE_FIREWALL"
	KindStartScan             = "START_SCAN"
	KindScanProgress          = "UPDATE_SCAN_PROGRESS"
	KindFinishScan            = "FINISH_SCAN"
	KindManageThreat          = "MANAGE_THREAT"
	KindCheckForUpdates       = "CHECK_FOR_UPDATES"
	KindStartUpdateInstall    = "START_UPDATE_INSTALL"
	KindUpdateInstallProgress = "UPDATE_INSTALL_PROGRESS"
	KindFinishUpdate          = "FINISH_UPDATE"
	KindRestart               = "RESTART"
	KindToggleStartMenu       = "TOGGLE_START_MENU"
	KindCloseStartMenu        = "CLOSE_START_MENU"
	KindOpenWindow            = "OPEN_WINDOW"
	KindCloseWindow           = "CLOSE_WINDOW"
	KindFocusWindow           = "FOCUS_WINDOW"
	KindToggleMaximizeWindow  = "TOGGLE_MAXIMIZE_WINDOW"
	KindMoveWindow            = "MOVE_WINDOW"
	KindMinimizeWindow        = "MINIMIZE_WINDOW"
	KindRestoreWindow         = "RESTORE_WINDOW"
	KindShowVulnerablePopup   = "SHOW_VULNERABLE_POPUP"
	KindCloseVulnerablePopup  = "CLOSE_VULNERABLE_POPUP"
	KindAddNotification       = "ADD_NOTIFICATION"
	KindRemoveNotification    = "REMOVE_NOTIFICATION"
	KindExpireNotifications   = "EXPIRE_NOTIFICATIONS"
	KindSetRansomware         = "SET_RANSOMWARE_PROTECTION"
	KindUnlockAchievement     = "UNLOCK_ACHIEVEMENT"
	KindShowPhishingPopup     = "SHOW_PHISHING_POPUP"
	KindClosePhishingPopup    = "CLOSE_PHISHING_POPUP"
	KindShowSecurityReport    = "SHOW_SECURITY_REPORT"
	KindCloseSecurityReport   = "CLOSE_SECURITY_REPORT"
	KindAddHistoryEntry       = "ADD_HISTORY_ENTRY"
	KindSetFamilyOptions      = "SET_FAMILY_OPTIONS"
	KindAddFirewallRule       = "ADD_FIREWALL_RULE"
	KindRemoveFirewallRule    = "REMOVE_FIREWALL_RULE"
	KindAddScanExclusion      = "ADD_SCAN_EXCLUSION"
	KindRemoveScanExclusion   = "REMOVE_SCAN_EXCLUSION"
	KindEvaluate              = "EVALUATE"
	KindShowHint              = "SHOW_HINT"
)

// Protection toggles.
type (
	ToggleAntivirus struct{}
	ToggleFirewall  struct{}
)

// StartScan begins a scan with the given profile.
type StartScan struct {
	Profile domain.ScanProfile
}

// ScanProgress reports one tick of a running scan.
type ScanProgress struct {
	Progress     float64
	FilesScanned int
	CurrentFile  string
}

// FinishScan ends the running scan with its detections. Threats without an
// id are assigned one.
type FinishScan struct {
	Threats []domain.Threat
}

// ManageThreat resolves an active threat.
type ManageThreat struct {
	ThreatID   string
	Resolution domain.ThreatStatus
}

// Update lifecycle.
type (
	CheckForUpdates    struct{}
	StartUpdateInstall struct{}
	FinishUpdate       struct{}
)

// UpdateInstallProgress advances one update by a single step.
type UpdateInstallProgress struct {
	UpdateID string
	Status   domain.UpdateStatus
}

// Restart reboots the simulated machine.
type Restart struct{}

// Start menu.
type (
	ToggleStartMenu struct{}
	CloseStartMenu  struct{}
)

// OpenWindow opens an application window or brings the existing one forward.
// Guarded is fixed when the window is created.
type OpenWindow struct {
	App     domain.AppID
	Title   string
	Guarded bool
}

// CloseWindow closes a window. Force bypasses the guard.
type CloseWindow struct {
	App   domain.AppID
	Force bool
}

// Window operations addressed by app id.
type (
	FocusWindow          struct{ App domain.AppID }
	ToggleMaximizeWindow struct{ App domain.AppID }
	MinimizeWindow       struct{ App domain.AppID }
	RestoreWindow        struct{ App domain.AppID }
)

// MoveWindow repositions a window.
type MoveWindow struct {
	App      domain.AppID
	Position domain.Position
}

// Vulnerability warning popup.
type (
	ShowVulnerablePopup  struct{}
	CloseVulnerablePopup struct{}
)

// AddNotification queues a toast.
type AddNotification struct {
	Title    string
	Message  string
	Severity domain.ToastKind
	Icon     string
}

// RemoveNotification dismisses a toast before it expires.
type RemoveNotification struct {
	ID int64
}

// ExpireNotifications drops toasts whose lifetime has elapsed.
type ExpireNotifications struct{}

// SetRansomwareProtection records the outcome of the setup wizard.
type SetRansomwareProtection struct {
	Status domain.RansomwareStatus
}

// UnlockAchievement adds an achievement directly.
type UnlockAchievement struct {
	ID domain.AchievementID
}

// Phishing prompt.
type (
	ShowPhishingPopup  struct{}
	ClosePhishingPopup struct{ Claimed bool }
)

// Security report popup.
type (
	ShowSecurityReport  struct{}
	CloseSecurityReport struct{}
)

// AddHistoryEntry appends an arbitrary audit line.
type AddHistoryEntry struct {
	Message  string
	Category domain.HistoryCategory
}

// SetFamilyOptions replaces the parental controls.
type SetFamilyOptions struct {
	Options domain.FamilyOptions
}

// Firewall rules. The rule id is assigned on add.
type (
	AddFirewallRule    struct{ Rule domain.FirewallRule }
	RemoveFirewallRule struct{ RuleID string }
)

// Scan exclusions.
type (
	AddScanExclusion    struct{ Path string }
	RemoveScanExclusion struct{ Path string }
)

// Evaluation and hints.
type (
	Evaluate struct{}
	ShowHint struct{}
)

func (ToggleAntivirus) Kind() string         { return KindToggleAntivirus }
func (ToggleFirewall) Kind() string          { return KindToggleFirewall }
func (StartScan) Kind() string               { return KindStartScan }
func (ScanProgress) Kind() string            { return KindScanProgress }
func (FinishScan) Kind() string              { return KindFinishScan }
func (ManageThreat) Kind() string            { return KindManageThreat }
func (CheckForUpdates) Kind() string         { return KindCheckForUpdates }
func (StartUpdateInstall) Kind() string      { return KindStartUpdateInstall }
func (UpdateInstallProgress) Kind() string   { return KindUpdateInstallProgress }
func (FinishUpdate) Kind() string            { return KindFinishUpdate }
func (Restart) Kind() string                 { return KindRestart }
func (ToggleStartMenu) Kind() string         { return KindToggleStartMenu }
func (CloseStartMenu) Kind() string          { return KindCloseStartMenu }
func (OpenWindow) Kind() string              { return KindOpenWindow }
func (CloseWindow) Kind() string             { return KindCloseWindow }
func (FocusWindow) Kind() string             { return KindFocusWindow }
func (ToggleMaximizeWindow) Kind() string    { return KindToggleMaximizeWindow }
func (MoveWindow) Kind() string              { return KindMoveWindow }
func (MinimizeWindow) Kind() string          { return KindMinimizeWindow }
func (RestoreWindow) Kind() string           { return KindRestoreWindow }
func (ShowVulnerablePopup) Kind() string     { return KindShowVulnerablePopup }
func (CloseVulnerablePopup) Kind() string    { return KindCloseVulnerablePopup }
func (AddNotification) Kind() string         { return KindAddNotification }
func (RemoveNotification) Kind() string      { return KindRemoveNotification }
func (ExpireNotifications) Kind() string     { return KindExpireNotifications }
func (SetRansomwareProtection) Kind() string { return KindSetRansomware }
func (UnlockAchievement) Kind() string       { return KindUnlockAchievement }
func (ShowPhishingPopup) Kind() string       { return KindShowPhishingPopup }
func (ClosePhishingPopup) Kind() string      { return KindClosePhishingPopup }
func (ShowSecurityReport) Kind() string      { return KindShowSecurityReport }
func (CloseSecurityReport) Kind() string     { return KindCloseSecurityReport }
func (AddHistoryEntry) Kind() string         { return KindAddHistoryEntry }
func (SetFamilyOptions) Kind() string        { return KindSetFamilyOptions }
func (AddFirewallRule) Kind() string         { return KindAddFirewallRule }
func (RemoveFirewallRule) Kind() string      { return KindRemoveFirewallRule }
func (AddScanExclusion) Kind() string        { return KindAddScanExclusion }
func (RemoveScanExclusion) Kind() string     { return KindRemoveScanExclusion }
func (Evaluate) Kind() string                { return KindEvaluate }
func (ShowHint) Kind() string                { return KindShowHint }
