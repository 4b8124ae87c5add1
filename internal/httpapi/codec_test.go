package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/profile"
	"github.com/eliteGoblin/focusd/secsim/internal/usecase"
)

func TestDecoder_Decode(t *testing.T) {
	d := NewDecoder(profile.NewRegistry())
	quick, err := profile.NewRegistry().Lookup(profile.Quick)
	require.NoError(t, err)
	full, err := profile.NewRegistry().Lookup(profile.Full)
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  usecase.Action
	}{
		{"toggle antivirus", `{"type":"TOGGLE_ANTIVIRUS"}`, usecase.ToggleAntivirus{}},
		{"null payload", `{"type":"TOGGLE_FIREWALL","payload":null}`, usecase.ToggleFirewall{}},
		{"start scan default profile", `{"type":"START_SCAN"}`, usecase.StartScan{Profile: quick}},
		{"start scan full", `{"type":"START_SCAN","payload":{"profile":"full"}}`, usecase.StartScan{Profile: full}},
		{
			"manage threat",
			`{"type":"MANAGE_THREAT","payload":{"threatId":"t1","action":"quarantined"}}`,
			usecase.ManageThreat{ThreatID: "t1", Resolution: domain.ThreatQuarantined},
		},
		{
			"open window completes from catalogue",
			`{"type":"OPEN_WINDOW","payload":{"id":"security-center"}}`,
			usecase.OpenWindow{App: domain.AppSecurityCenter, Title: "Windows Security", Guarded: true},
		},
		{
			"close window forced",
			`{"type":"CLOSE_WINDOW","payload":{"id":"notepad","force":true}}`,
			usecase.CloseWindow{App: domain.AppNotepad, Force: true},
		},
		{
			"move window",
			`{"type":"MOVE_WINDOW","payload":{"id":"notepad","position":{"x":10,"y":20}}}`,
			usecase.MoveWindow{App: domain.AppNotepad, Position: domain.Position{X: 10, Y: 20}},
		},
		{
			"set ransomware",
			`{"type":"SET_RANSOMWARE_PROTECTION","payload":{"status":"configured"}}`,
			usecase.SetRansomwareProtection{Status: domain.RansomwareConfigured},
		},
		{
			"unlock achievement",
			`{"type":"UNLOCK_ACHIEVEMENT","payload":{"id":"phish_avoider"}}`,
			usecase.UnlockAchievement{ID: domain.PhishAvoider},
		},
		{
			"close phishing claimed",
			`{"type":"CLOSE_PHISHING_POPUP","payload":{"claimed":true}}`,
			usecase.ClosePhishingPopup{Claimed: true},
		},
		{
			"family options",
			`{"type":"SET_FAMILY_OPTIONS","payload":{"screenTimeLimit":2,"contentFilterLevel":"high"}}`,
			usecase.SetFamilyOptions{Options: domain.FamilyOptions{ScreenTimeHours: 2, ContentFilter: domain.FilterHigh}},
		},
		{
			"remove exclusion",
			`{"type":"REMOVE_SCAN_EXCLUSION","payload":{"path":"C:\\temp"}}`,
			usecase.RemoveScanExclusion{Path: `C:\temp`},
		},
		{"evaluate", `{"type":"EVALUATE"}`, usecase.Evaluate{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Decode([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecoder_Errors(t *testing.T) {
	d := NewDecoder(profile.NewRegistry())

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"not json", `{`, ErrInvalidPayload},
		{"unknown type", `{"type":"FORMAT_DISK"}`, ErrUnknownAction},
		{"empty type", `{}`, ErrUnknownAction},
		{"unknown field", `{"type":"START_SCAN","payload":{"profile":"quick","turbo":true}}`, ErrInvalidPayload},
		{"unknown profile", `{"type":"START_SCAN","payload":{"profile":"deep"}}`, ErrInvalidPayload},
		{"wrong payload type", `{"type":"CLOSE_PHISHING_POPUP","payload":{"claimed":"yes"}}`, ErrInvalidPayload},
		{"move without position", `{"type":"MOVE_WINDOW","payload":{"id":"notepad"}}`, ErrInvalidPayload},
		{"unknown achievement", `{"type":"UNLOCK_ACHIEVEMENT","payload":{"id":"speedrunner"}}`, ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Decode([]byte(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecoder_DecodeScript(t *testing.T) {
	d := NewDecoder(profile.NewRegistry())

	actions, err := d.DecodeScript([]byte(`[
		{"type":"TOGGLE_ANTIVIRUS"},
		{"type":"TOGGLE_FIREWALL"},
		{"type":"EVALUATE"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, []usecase.Action{usecase.ToggleAntivirus{}, usecase.ToggleFirewall{}, usecase.Evaluate{}}, actions)

	_, err = d.DecodeScript([]byte(`[{"type":"TOGGLE_ANTIVIRUS"},{"type":"NOPE"}]`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Contains(t, err.Error(), "action 1")
}

func TestDecoder_KindsMatchActions(t *testing.T) {
	d := NewDecoder(profile.NewRegistry())
	kinds := d.Kinds()

	assert.IsIncreasing(t, kinds)
	assert.Contains(t, kinds, usecase.KindStartScan)
	assert.Contains(t, kinds, usecase.KindShowHint)

	// Every kind the decoder accepts decodes to an action reporting that kind,
	// given a payload it can satisfy.
	payloads := map[string]string{
		usecase.KindMoveWindow:        `{"id":"notepad","position":{"x":0,"y":0}}`,
		usecase.KindUnlockAchievement: `{"id":"shields_up"}`,
	}
	for _, k := range kinds {
		a, err := d.DecodeEnvelope(Envelope{Type: k, Payload: []byte(payloads[k])})
		require.NoError(t, err, k)
		assert.Equal(t, k, a.Kind())
	}
}
