package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAchievementSet_With(t *testing.T) {
	var s AchievementSet
	assert.Equal(t, 0, s.Len())

	s = s.With(ShieldsUp).With(ShieldsUp).With(PhishAvoider)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(ShieldsUp))
	assert.True(t, s.Has(PhishAvoider))
	assert.False(t, s.Has(ThreatHunter))

	// Out-of-catalogue ids are ignored.
	assert.Equal(t, s, s.With(AchievementID(42)))
	assert.False(t, s.Has(AchievementID(42)))
}

func TestAchievementSet_Added(t *testing.T) {
	prev := AchievementSet(0).With(ShieldsUp)
	next := prev.With(LockedDown).With(PerfectScore)

	assert.True(t, next.Contains(prev))
	assert.False(t, prev.Contains(next))
	assert.Equal(t, []AchievementID{LockedDown, PerfectScore}, next.Added(prev))
	assert.Empty(t, prev.Added(next))
}

func TestAchievementSet_JSON(t *testing.T) {
	s := AchievementSet(0).With(PhishAvoider).With(ThreatHunter)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["threat_hunter","phish_avoider"]`, string(data))

	var back AchievementSet
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)

	assert.Error(t, json.Unmarshal([]byte(`["nope"]`), &back))
}

func TestCatalog(t *testing.T) {
	cat := Catalog()
	require.Len(t, cat, 6)
	for i, a := range cat {
		assert.Equal(t, AchievementID(i), a.ID)
		assert.NotEmpty(t, a.Name)
		assert.NotEmpty(t, a.Description)

		id, err := ParseAchievement(a.Key)
		require.NoError(t, err)
		assert.Equal(t, a.ID, id)
	}

	// Catalog returns a copy.
	cat[0].Name = "changed"
	info, ok := ThreatHunter.Info()
	require.True(t, ok)
	assert.Equal(t, "Threat Hunter", info.Name)
}

func TestNewState(t *testing.T) {
	s := NewState(Settings{})

	assert.Equal(t, ProtectionInactive, s.Antivirus)
	assert.Equal(t, ProtectionInactive, s.Firewall.Status)
	assert.Equal(t, RansomwareNotConfigured, s.Ransomware)
	assert.Equal(t, DefaultHistoryLimit, s.Settings.HistoryLimit)
	assert.Equal(t, DefaultToastLifetime, s.Settings.ToastLifetime)
	assert.Len(t, s.Updates.Items, 3)
	assert.False(t, s.Updates.AllInstalled())
	assert.Equal(t, 4, s.Family.ScreenTimeHours)
	assert.Equal(t, FilterNone, s.Family.ContentFilter)
	assert.Empty(t, s.Windows)
	assert.False(t, s.ModalOpen())
}

func TestFirewallRule_Valid(t *testing.T) {
	tests := []struct {
		name string
		rule FirewallRule
		want bool
	}{
		{"complete", FirewallRule{Name: "Block SMB", Action: FirewallBlock, Direction: DirectionIn, Protocol: ProtocolTCP}, true},
		{"empty name", FirewallRule{Action: FirewallBlock, Direction: DirectionIn, Protocol: ProtocolTCP}, false},
		{"bad action", FirewallRule{Name: "x", Action: "drop", Direction: DirectionIn, Protocol: ProtocolTCP}, false},
		{"bad direction", FirewallRule{Name: "x", Action: FirewallAllow, Direction: "both", Protocol: ProtocolAny}, false},
		{"bad protocol", FirewallRule{Name: "x", Action: FirewallAllow, Direction: DirectionOut, Protocol: "ICMP"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Valid())
		})
	}
}

func TestUpdateStatus_CanAdvanceTo(t *testing.T) {
	assert.True(t, UpdatePending.CanAdvanceTo(UpdateInstalling))
	assert.True(t, UpdateInstalling.CanAdvanceTo(UpdateInstalled))
	assert.False(t, UpdatePending.CanAdvanceTo(UpdateInstalled))
	assert.False(t, UpdateInstalled.CanAdvanceTo(UpdatePending))
	assert.False(t, UpdateInstalling.CanAdvanceTo(UpdatePending))
}
