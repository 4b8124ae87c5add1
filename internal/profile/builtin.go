package profile

// Built-in profile ids.
const (
	Quick   = "quick"
	Full    = "full"
	Custom  = "custom"
	Offline = "offline"
)

// StaticProfile is a ScanStrategy with fixed parameters.
type StaticProfile struct {
	id      string
	name    string
	ticks   int
	files   int
	chance  float64
	targets []string
}

var _ ScanStrategy = (*StaticProfile)(nil)

// NewQuickScan checks the places threats are most often found.
func NewQuickScan() *StaticProfile {
	return &StaticProfile{id: Quick, name: "Quick scan", ticks: 100, files: 45000, chance: 0.3}
}

// NewFullScan checks every file and running program.
func NewFullScan() *StaticProfile {
	return &StaticProfile{id: Full, name: "Full scan", ticks: 300, files: 250000, chance: 0.6}
}

// NewCustomScan checks user-chosen locations.
func NewCustomScan() *StaticProfile {
	return &StaticProfile{id: Custom, name: "Custom scan", ticks: 150, files: 120000, chance: 0.4}
}

// NewOfflineScan simulates a boot-time scan for hard-to-remove malware.
func NewOfflineScan() *StaticProfile {
	return &StaticProfile{id: Offline, name: "Microsoft Defender Offline scan", ticks: 200, files: 180000, chance: 0.8}
}

// NewStaticProfile creates a profile with custom parameters (for testing).
func NewStaticProfile(id, name string, ticks, files int, chance float64, targets ...string) *StaticProfile {
	return &StaticProfile{id: id, name: name, ticks: ticks, files: files, chance: chance, targets: targets}
}

func (p *StaticProfile) ID() string            { return p.id }
func (p *StaticProfile) Name() string          { return p.name }
func (p *StaticProfile) Ticks() int            { return p.ticks }
func (p *StaticProfile) FileCount() int        { return p.files }
func (p *StaticProfile) ThreatChance() float64 { return p.chance }

// Targets defaults to CriticalSystemFiles.
func (p *StaticProfile) Targets() []string {
	if len(p.targets) > 0 {
		return p.targets
	}
	return CriticalSystemFiles
}
