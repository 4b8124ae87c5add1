package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/eliteGoblin/focusd/secsim/internal/apps"
	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/profile"
	"github.com/eliteGoblin/focusd/secsim/internal/usecase"
)

var (
	// ErrUnknownAction is returned for an envelope whose type is not a known action kind.
	ErrUnknownAction = errors.New("unknown action")
	// ErrInvalidPayload is returned when the payload does not fit the action kind.
	ErrInvalidPayload = errors.New("invalid action payload")
)

// Envelope is the wire form of an action:
//
//	{"type": "START_SCAN", "payload": {"profile": "quick"}}
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Wire payloads. Fields mirror the action structs in camelCase.
type (
	startScanPayload struct {
		Profile string `json:"profile"`
	}
	scanProgressPayload struct {
		Progress     float64 `json:"progress"`
		FilesScanned int     `json:"filesScanned"`
		CurrentFile  string  `json:"currentFile"`
	}
	finishScanPayload struct {
		Threats []domain.Threat `json:"threats"`
	}
	manageThreatPayload struct {
		ThreatID string `json:"threatId"`
		Action   string `json:"action"`
	}
	updateProgressPayload struct {
		UpdateID string `json:"updateId"`
		Status   string `json:"status"`
	}
	windowPayload struct {
		ID      string           `json:"id"`
		Title   string           `json:"title"`
		Guarded bool             `json:"guarded"`
		Force   bool             `json:"force"`
		Pos     *domain.Position `json:"position"`
	}
	notificationPayload struct {
		ID      int64  `json:"id"`
		Title   string `json:"title"`
		Message string `json:"message"`
		Kind    string `json:"kind"`
		Icon    string `json:"icon"`
	}
	statusPayload struct {
		Status string `json:"status"`
	}
	achievementPayload struct {
		ID string `json:"id"`
	}
	phishingPayload struct {
		Claimed bool `json:"claimed"`
	}
	historyPayload struct {
		Message  string `json:"message"`
		Category string `json:"category"`
	}
	rulePayload struct {
		ID   string              `json:"id"`
		Rule domain.FirewallRule `json:"rule"`
	}
	pathPayload struct {
		Path string `json:"path"`
	}
)

// Decoder turns wire envelopes into actions. Scan profiles are resolved by
// id through the registry.
type Decoder struct {
	profiles *profile.Registry
	table    map[string]func(json.RawMessage) (usecase.Action, error)
}

// NewDecoder creates a decoder resolving scan profiles from profiles.
func NewDecoder(profiles *profile.Registry) *Decoder {
	d := &Decoder{profiles: profiles}
	d.table = map[string]func(json.RawMessage) (usecase.Action, error){
		usecase.KindToggleAntivirus:       fixed(usecase.ToggleAntivirus{}),
		usecase.KindToggleFirewall:        fixed(usecase.ToggleFirewall{}),
		usecase.KindStartScan:             d.startScan,
		usecase.KindScanProgress:          scanProgress,
		usecase.KindFinishScan:            finishScan,
		usecase.KindManageThreat:          manageThreat,
		usecase.KindCheckForUpdates:       fixed(usecase.CheckForUpdates{}),
		usecase.KindStartUpdateInstall:    fixed(usecase.StartUpdateInstall{}),
		usecase.KindUpdateInstallProgress: updateProgress,
		usecase.KindFinishUpdate:          fixed(usecase.FinishUpdate{}),
		usecase.KindRestart:               fixed(usecase.Restart{}),
		usecase.KindToggleStartMenu:       fixed(usecase.ToggleStartMenu{}),
		usecase.KindCloseStartMenu:        fixed(usecase.CloseStartMenu{}),
		usecase.KindOpenWindow:            openWindow,
		usecase.KindCloseWindow:           closeWindow,
		usecase.KindFocusWindow:           windowOp(func(id domain.AppID) usecase.Action { return usecase.FocusWindow{App: id} }),
		usecase.KindToggleMaximizeWindow:  windowOp(func(id domain.AppID) usecase.Action { return usecase.ToggleMaximizeWindow{App: id} }),
		usecase.KindMinimizeWindow:        windowOp(func(id domain.AppID) usecase.Action { return usecase.MinimizeWindow{App: id} }),
		usecase.KindRestoreWindow:         windowOp(func(id domain.AppID) usecase.Action { return usecase.RestoreWindow{App: id} }),
		usecase.KindMoveWindow:            moveWindow,
		usecase.KindShowVulnerablePopup:   fixed(usecase.ShowVulnerablePopup{}),
		usecase.KindCloseVulnerablePopup:  fixed(usecase.CloseVulnerablePopup{}),
		usecase.KindAddNotification:       addNotification,
		usecase.KindRemoveNotification:    removeNotification,
		usecase.KindExpireNotifications:   fixed(usecase.ExpireNotifications{}),
		usecase.KindSetRansomware:         setRansomware,
		usecase.KindUnlockAchievement:     unlockAchievement,
		usecase.KindShowPhishingPopup:     fixed(usecase.ShowPhishingPopup{}),
		usecase.KindClosePhishingPopup:    closePhishing,
		usecase.KindShowSecurityReport:    fixed(usecase.ShowSecurityReport{}),
		usecase.KindCloseSecurityReport:   fixed(usecase.CloseSecurityReport{}),
		usecase.KindAddHistoryEntry:       addHistory,
		usecase.KindSetFamilyOptions:      setFamily,
		usecase.KindAddFirewallRule:       addRule,
		usecase.KindRemoveFirewallRule:    removeRule,
		usecase.KindAddScanExclusion:      pathOp(func(p string) usecase.Action { return usecase.AddScanExclusion{Path: p} }),
		usecase.KindRemoveScanExclusion:   pathOp(func(p string) usecase.Action { return usecase.RemoveScanExclusion{Path: p} }),
		usecase.KindEvaluate:              fixed(usecase.Evaluate{}),
		usecase.KindShowHint:              fixed(usecase.ShowHint{}),
	}
	return d
}

// Decode reads one envelope.
func (d *Decoder) Decode(data []byte) (usecase.Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return d.DecodeEnvelope(env)
}

// DecodeEnvelope converts an already parsed envelope.
func (d *Decoder) DecodeEnvelope(env Envelope) (usecase.Action, error) {
	fn, ok := d.table[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, env.Type)
	}
	return fn(env.Payload)
}

// DecodeScript reads a JSON array of envelopes.
func (d *Decoder) DecodeScript(data []byte) ([]usecase.Action, error) {
	var envs []Envelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	actions := make([]usecase.Action, 0, len(envs))
	for i, env := range envs {
		a, err := d.DecodeEnvelope(env)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// Kinds reports every action kind the decoder accepts, sorted.
func (d *Decoder) Kinds() []string {
	kinds := make([]string, 0, len(d.table))
	for k := range d.table {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

func unmarshal(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func fixed(a usecase.Action) func(json.RawMessage) (usecase.Action, error) {
	return func(json.RawMessage) (usecase.Action, error) { return a, nil }
}

func (d *Decoder) startScan(raw json.RawMessage) (usecase.Action, error) {
	var p startScanPayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if p.Profile == "" {
		p.Profile = profile.Quick
	}
	prof, err := d.profiles.Lookup(p.Profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return usecase.StartScan{Profile: prof}, nil
}

func scanProgress(raw json.RawMessage) (usecase.Action, error) {
	var p scanProgressPayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return usecase.ScanProgress{Progress: p.Progress, FilesScanned: p.FilesScanned, CurrentFile: p.CurrentFile}, nil
}

func finishScan(raw json.RawMessage) (usecase.Action, error) {
	var p finishScanPayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return usecase.FinishScan{Threats: p.Threats}, nil
}

func manageThreat(raw json.RawMessage) (usecase.Action, error) {
	var p manageThreatPayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return usecase.ManageThreat{ThreatID: p.ThreatID, Resolution: domain.ThreatStatus(p.Action)}, nil
}

func updateProgress(raw json.RawMessage) (usecase.Action, error) {
	var p updateProgressPayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return usecase.UpdateInstallProgress{UpdateID: p.UpdateID, Status: domain.UpdateStatus(p.Status)}, nil
}

func openWindow(raw json.RawMessage) (usecase.Action, error) {
	var p windowPayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return apps.Complete(usecase.OpenWindow{App: domain.AppID(p.ID), Title: p.Title, Guarded: p.Guarded}), nil
}

func closeWindow(raw json.RawMessage) (usecase.Action, error) {
	var p windowPayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return usecase.CloseWindow{App: domain.AppID(p.ID), Force: p.Force}, nil
}

func windowOp(build func(domain.AppID) usecase.Action) func(json.RawMessage) (usecase.Action, error) {
	return func(raw json.RawMessage) (usecase.Action, error) {
		var p windowPayload
		if err := unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return build(domain.AppID(p.ID)), nil
	}
}

func moveWindow(raw json.RawMessage) (usecase.Action, error) {
	var p windowPayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if p.Pos == nil {
		return nil, fmt.Errorf("%w: position is required", ErrInvalidPayload)
	}
	return usecase.MoveWindow{App: domain.AppID(p.ID), Position: *p.Pos}, nil
}

func addNotification(raw json.RawMessage) (usecase.Action, error) {
	var p notificationPayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return usecase.AddNotification{Title: p.Title, Message: p.Message, Severity: domain.ToastKind(p.Kind), Icon: p.Icon}, nil
}

func removeNotification(raw json.RawMessage) (usecase.Action, error) {
	var p notificationPayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return usecase.RemoveNotification{ID: p.ID}, nil
}

func setRansomware(raw json.RawMessage) (usecase.Action, error) {
	var p statusPayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return usecase.SetRansomwareProtection{Status: domain.RansomwareStatus(p.Status)}, nil
}

func unlockAchievement(raw json.RawMessage) (usecase.Action, error) {
	var p achievementPayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	id, err := domain.ParseAchievement(p.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return usecase.UnlockAchievement{ID: id}, nil
}

func closePhishing(raw json.RawMessage) (usecase.Action, error) {
	var p phishingPayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return usecase.ClosePhishingPopup{Claimed: p.Claimed}, nil
}

func addHistory(raw json.RawMessage) (usecase.Action, error) {
	var p historyPayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return usecase.AddHistoryEntry{Message: p.Message, Category: domain.HistoryCategory(p.Category)}, nil
}

func setFamily(raw json.RawMessage) (usecase.Action, error) {
	var opts domain.FamilyOptions
	if err := unmarshal(raw, &opts); err != nil {
		return nil, err
	}
	return usecase.SetFamilyOptions{Options: opts}, nil
}

func addRule(raw json.RawMessage) (usecase.Action, error) {
	var p rulePayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return usecase.AddFirewallRule{Rule: p.Rule}, nil
}

func removeRule(raw json.RawMessage) (usecase.Action, error) {
	var p rulePayload
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return usecase.RemoveFirewallRule{RuleID: p.ID}, nil
}

func pathOp(build func(string) usecase.Action) func(json.RawMessage) (usecase.Action, error) {
	return func(raw json.RawMessage) (usecase.Action, error) {
		var p pathPayload
		if err := unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return build(p.Path), nil
	}
}
