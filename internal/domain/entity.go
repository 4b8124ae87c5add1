// Package domain contains the security-center simulation's state types and
// the ports the engine talks to.
// This is the innermost layer - no external dependencies.
package domain

import (
	"time"
)

// ProtectionStatus is the coarse status of a protection subsystem.
type ProtectionStatus int

const (
	ProtectionInactive ProtectionStatus = iota
	ProtectionWarning
	ProtectionActive
)

func (p ProtectionStatus) String() string {
	switch p {
	case ProtectionInactive:
		return "INACTIVE"
	case ProtectionWarning:
		return "WARNING"
	case ProtectionActive:
		return "ACTIVE"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the status by name so snapshots stay readable.
func (p ProtectionStatus) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ThreatStatus tracks what the user did with a detected threat.
// Only active threats may move; the other values are terminal.
type ThreatStatus string

const (
	ThreatActive      ThreatStatus = "active"
	ThreatQuarantined ThreatStatus = "quarantined"
	ThreatRemoved     ThreatStatus = "removed"
	ThreatAllowed     ThreatStatus = "allowed"
)

// IsResolution reports whether s is a valid target for resolving an active threat.
func (s ThreatStatus) IsResolution() bool {
	return s == ThreatQuarantined || s == ThreatRemoved || s == ThreatAllowed
}

// Threat is a synthetic detection produced by a scan or a phishing prompt.
type Threat struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Status ThreatStatus `json:"status"`
}

// UpdateStatus is the install state of a single update.
type UpdateStatus string

const (
	UpdatePending    UpdateStatus = "pending"
	UpdateInstalling UpdateStatus = "installing"
	UpdateInstalled  UpdateStatus = "installed"
)

// CanAdvanceTo reports whether next is the immediate successor of s.
func (s UpdateStatus) CanAdvanceTo(next UpdateStatus) bool {
	switch s {
	case UpdatePending:
		return next == UpdateInstalling
	case UpdateInstalling:
		return next == UpdateInstalled
	default:
		return false
	}
}

// UpdateItem is one entry of the update catalogue.
type UpdateItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Status      UpdateStatus `json:"status"`
}

// FirewallAction is what a rule does with matching traffic.
type FirewallAction string

const (
	FirewallAllow FirewallAction = "allow"
	FirewallBlock FirewallAction = "block"
)

// TrafficDirection is the direction a rule applies to.
type TrafficDirection string

const (
	DirectionIn  TrafficDirection = "in"
	DirectionOut TrafficDirection = "out"
)

// Protocol is the transport a rule matches.
type Protocol string

const (
	ProtocolAny Protocol = "ANY"
	ProtocolTCP Protocol = "TCP"
	ProtocolUDP Protocol = "UDP"
)

// FirewallRule is a user-defined rule. Rules are only added or removed, never edited.
type FirewallRule struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Action    FirewallAction   `json:"action"`
	Direction TrafficDirection `json:"direction"`
	Protocol  Protocol         `json:"protocol"`
}

// Valid reports whether every enum field holds a known value and the rule is named.
func (r FirewallRule) Valid() bool {
	if r.Name == "" {
		return false
	}
	switch r.Action {
	case FirewallAllow, FirewallBlock:
	default:
		return false
	}
	switch r.Direction {
	case DirectionIn, DirectionOut:
	default:
		return false
	}
	switch r.Protocol {
	case ProtocolAny, ProtocolTCP, ProtocolUDP:
		return true
	default:
		return false
	}
}

// HistoryCategory tags a protection history entry.
type HistoryCategory string

const (
	CategoryAntivirus HistoryCategory = "antivirus"
	CategoryFirewall  HistoryCategory = "firewall"
	CategoryUpdates   HistoryCategory = "updates"
	CategoryGeneral   HistoryCategory = "general"
)

// HistoryEntry is one line of the protection history audit trail.
type HistoryEntry struct {
	ID        int64           `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Message   string          `json:"message"`
	Category  HistoryCategory `json:"category"`
}

// ToastKind selects the styling and urgency of a toast.
type ToastKind string

const (
	ToastSuccess     ToastKind = "success"
	ToastWarning     ToastKind = "warning"
	ToastError       ToastKind = "error"
	ToastAchievement ToastKind = "achievement"
	ToastHint        ToastKind = "hint"
)

// Toast is a self-expiring notification.
// Icon is a symbolic name resolved by the presentation layer.
type Toast struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      ToastKind `json:"kind"`
	Icon      string    `json:"icon,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ContentFilterLevel is the family content filter strength.
type ContentFilterLevel string

const (
	FilterNone ContentFilterLevel = "none"
	FilterLow  ContentFilterLevel = "low"
	FilterHigh ContentFilterLevel = "high"
)

// Valid reports whether l is a known filter level.
func (l ContentFilterLevel) Valid() bool {
	return l == FilterNone || l == FilterLow || l == FilterHigh
}

// Screen time limits, in hours.
const (
	MinScreenTimeHours = 1
	MaxScreenTimeHours = 8
)

// FamilyOptions holds the parental control settings.
type FamilyOptions struct {
	ScreenTimeHours int                `json:"screenTimeLimit"`
	ContentFilter   ContentFilterLevel `json:"contentFilterLevel"`
}

// RansomwareStatus is the controlled-folder protection setup state.
// RansomwareConfiguring is reserved; no transition produces it.
type RansomwareStatus string

const (
	RansomwareNotConfigured RansomwareStatus = "not_configured"
	RansomwareConfiguring   RansomwareStatus = "configuring"
	RansomwareConfigured    RansomwareStatus = "configured"
)

// AppID is the symbolic identifier of a desktop application.
// Views and icons are resolved from it outside the engine.
type AppID string

const (
	AppSecurityCenter  AppID = "security-center"
	AppNotepad         AppID = "notepad"
	AppCalculator      AppID = "calculator"
	AppSettings        AppID = "settings"
	AppRansomwareSetup AppID = "onedrive-setup"
)

// Position is a window's top-left corner in screen pixels.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a window's extent in screen pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowInstance is an open desktop window.
type WindowInstance struct {
	ID        AppID    `json:"id"`
	Title     string   `json:"title"`
	ZIndex    int      `json:"zIndex"`
	Maximized bool     `json:"isMaximized"`
	Minimized bool     `json:"isMinimized"`
	Guarded   bool     `json:"guarded"`
	Position  Position `json:"position"`
	Size      Size     `json:"size"`
}

// ScanProfile parameterises one scan run. It is stored in the scan state
// when the scan starts so the progress ticker never needs another source.
type ScanProfile struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Ticks        int     `json:"duration"`
	FileCount    int     `json:"fileCount"`
	ThreatChance float64 `json:"threatChance"`
}

// ScanState is the scan engine's state.
type ScanState struct {
	Scanning     bool        `json:"scanning"`
	Progress     float64     `json:"progress"`
	Threats      []Threat    `json:"threatsFound"`
	LastScan     time.Time   `json:"lastScan"`
	FilesScanned int         `json:"filesScanned"`
	CurrentFile  string      `json:"currentlyScanningFile"`
	Profile      ScanProfile `json:"profile"`
	Exclusions   []string    `json:"exclusions"`
}

// ScanType is the human name of the last started scan, empty if none.
func (s ScanState) ScanType() string {
	return s.Profile.Name
}

// ActiveThreats counts threats still awaiting a decision.
func (s ScanState) ActiveThreats() int {
	n := 0
	for _, t := range s.Threats {
		if t.Status == ThreatActive {
			n++
		}
	}
	return n
}

// IsExcluded reports whether path is on the exclusion list.
func (s ScanState) IsExcluded(path string) bool {
	for _, ex := range s.Exclusions {
		if ex == path {
			return true
		}
	}
	return false
}

// UpdatesState is the update engine's state.
type UpdatesState struct {
	Items      []UpdateItem `json:"items"`
	Installing bool         `json:"installing"`
	Checking   bool         `json:"checking"`
}

// AllInstalled reports whether every known update is installed.
func (u UpdatesState) AllInstalled() bool {
	for _, it := range u.Items {
		if it.Status != UpdateInstalled {
			return false
		}
	}
	return true
}

// NextPending returns the first pending update in list order.
func (u UpdatesState) NextPending() (UpdateItem, bool) {
	for _, it := range u.Items {
		if it.Status == UpdatePending {
			return it, true
		}
	}
	return UpdateItem{}, false
}

// InFlight returns the update currently installing, if any.
func (u UpdatesState) InFlight() (UpdateItem, bool) {
	for _, it := range u.Items {
		if it.Status == UpdateInstalling {
			return it, true
		}
	}
	return UpdateItem{}, false
}

// CountInstalled returns how many updates are installed.
func (u UpdatesState) CountInstalled() int {
	n := 0
	for _, it := range u.Items {
		if it.Status == UpdateInstalled {
			n++
		}
	}
	return n
}

// FirewallState is the firewall's state.
type FirewallState struct {
	Status ProtectionStatus `json:"status"`
	Rules  []FirewallRule   `json:"rules"`
}

// PhishingOutcome records how the phishing prompt was answered.
type PhishingOutcome string

const (
	PhishingUnanswered PhishingOutcome = ""
	PhishingClaimed    PhishingOutcome = "claimed"
	PhishingAvoided    PhishingOutcome = "avoided"
)

// PhishingState is the phishing prompt's state.
type PhishingState struct {
	PopupOpen bool            `json:"isPhishingPopupOpen"`
	Outcome   PhishingOutcome `json:"outcome,omitempty"`
}

// SecurityReport is the summary shown when leaving a secured security center.
type SecurityReport struct {
	ThreatsManaged   int `json:"threatsManaged"`
	UpdatesInstalled int `json:"updatesInstalled"`
	FinalScore       int `json:"finalScore"`
}

// EvaluationDetail is one rubric criterion.
type EvaluationDetail struct {
	Text     string `json:"text"`
	Achieved bool   `json:"achieved"`
	Points   int    `json:"points"`
}

// EvaluationResult is a derived snapshot of the rubric over a state.
type EvaluationResult struct {
	Score          int                `json:"score"`
	MaxScore       int                `json:"maxScore"`
	Details        []EvaluationDetail `json:"details"`
	TasksCompleted int                `json:"tasksCompleted"`
	TotalTasks     int                `json:"totalTasks"`
}

// Settings are session constants fixed when the state is created.
type Settings struct {
	HistoryLimit  int           `json:"historyLimit"`
	ToastLifetime time.Duration `json:"toastLifetime"`
}

// State is the aggregate root of the simulation. A State value is never
// modified after it is produced: transitions copy every slice they change.
type State struct {
	Antivirus           ProtectionStatus  `json:"antivirus"`
	Firewall            FirewallState     `json:"firewall"`
	Updates             UpdatesState      `json:"updates"`
	Scan                ScanState         `json:"scan"`
	StartMenuOpen       bool              `json:"isStartMenuOpen"`
	VulnerablePopupOpen bool              `json:"isVulnerablePopupOpen"`
	Windows             []WindowInstance  `json:"windows"`
	ActiveWindowID      AppID             `json:"activeWindowId"`
	Notifications       []Toast           `json:"notifications"`
	Ransomware          RansomwareStatus  `json:"ransomwareProtection"`
	Achievements        AchievementSet    `json:"achievements"`
	Phishing            PhishingState     `json:"phishing"`
	SecurityReport      *SecurityReport   `json:"securityReportData"`
	Family              FamilyOptions     `json:"familyOptions"`
	History             []HistoryEntry    `json:"history"`
	Evaluation          *EvaluationResult `json:"evaluationResult"`
	Settings            Settings          `json:"settings"`

	// Seq is the last identifier handed out for history, toasts, rules and threats.
	Seq int64 `json:"-"`
}

// Window looks up an open window by id.
func (s State) Window(id AppID) (WindowInstance, bool) {
	for _, w := range s.Windows {
		if w.ID == id {
			return w, true
		}
	}
	return WindowInstance{}, false
}

// HasGuardedWindow reports whether any guarded window is open.
func (s State) HasGuardedWindow() bool {
	for _, w := range s.Windows {
		if w.Guarded {
			return true
		}
	}
	return false
}

// ModalOpen reports whether a blocking popup is showing.
func (s State) ModalOpen() bool {
	return s.Phishing.PopupOpen || s.VulnerablePopupOpen || s.SecurityReport != nil
}

// EvaluationComplete reports whether an evaluation has been recorded.
func (s State) EvaluationComplete() bool {
	return s.Evaluation != nil
}
