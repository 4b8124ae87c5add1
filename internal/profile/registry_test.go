package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

func TestNewRegistry_BuiltIns(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{Quick, Full, Custom, Offline}, r.List())

	tests := []struct {
		id     string
		ticks  int
		files  int
		chance float64
	}{
		{Quick, 100, 45000, 0.3},
		{Full, 300, 250000, 0.6},
		{Custom, 150, 120000, 0.4},
		{Offline, 200, 180000, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, err := r.Lookup(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.id, p.ID)
			assert.NotEmpty(t, p.Name)
			assert.Equal(t, tt.ticks, p.Ticks)
			assert.Equal(t, tt.files, p.FileCount)
			assert.InDelta(t, tt.chance, p.ThreatChance, 1e-9)
		})
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	_, err := NewRegistry().Lookup("deep")
	assert.EqualError(t, err, "scan profile not found: deep")
}

func TestRegistry_RegisterReplacesInPlace(t *testing.T) {
	r := NewRegistryWithProfiles(NewQuickScan(), NewFullScan())
	r.Register(NewStaticProfile(Quick, "Tiny scan", 3, 30, 1))

	assert.Equal(t, []string{Quick, Full}, r.List())
	p, err := r.Lookup(Quick)
	require.NoError(t, err)
	assert.Equal(t, "Tiny scan", p.Name)
	assert.Len(t, r.GetAll(), 2)
}

func TestRegistry_Targets(t *testing.T) {
	r := NewRegistryWithProfiles(
		NewQuickScan(),
		NewStaticProfile("lab", "Lab scan", 5, 10, 0, `C:\lab\a.exe`),
	)

	assert.Equal(t, CriticalSystemFiles, r.Targets(domain.ScanProfile{ID: Quick}))
	assert.Equal(t, []string{`C:\lab\a.exe`}, r.Targets(domain.ScanProfile{ID: "lab"}))
	assert.Equal(t, CriticalSystemFiles, r.Targets(domain.ScanProfile{ID: "unknown"}))
	assert.Len(t, CriticalSystemFiles, 12)
}
