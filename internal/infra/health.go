// Package infra implements infrastructure concerns: report sinks, the
// encrypted report archive, its key file and the host health checker.
package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

const (
	statusNoIssues  = "No issues"
	statusAttention = "Attention needed"
)

// HealthThresholds decide when an item needs attention.
type HealthThresholds struct {
	StoragePercent float64       // Used disk share above which storage is flagged
	MemoryPercent  float64       // Used memory share above which memory is flagged
	MaxUptime      time.Duration // Uptime after which a restart is recommended
	Path           string        // Volume to inspect
}

// DefaultHealthThresholds returns the default thresholds.
func DefaultHealthThresholds() HealthThresholds {
	return HealthThresholds{
		StoragePercent: 90,
		MemoryPercent:  90,
		MaxUptime:      14 * 24 * time.Hour,
		Path:           "/",
	}
}

// hostStats are the gopsutil queries the checker relies on.
type hostStats struct {
	diskUsage func(ctx context.Context, path string) (*disk.UsageStat, error)
	memory    func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	uptime    func(ctx context.Context) (uint64, error)
	pids      func(ctx context.Context) ([]int32, error)
}

func gopsutilStats() hostStats {
	return hostStats{
		diskUsage: disk.UsageWithContext,
		memory:    mem.VirtualMemoryWithContext,
		uptime:    host.UptimeWithContext,
		pids:      process.PidsWithContext,
	}
}

// HostHealthChecker implements domain.HealthChecker using gopsutil.
type HostHealthChecker struct {
	thresholds HealthThresholds
	stats      hostStats
	now        func() time.Time
}

// NewHostHealthChecker creates a checker for the local host.
func NewHostHealthChecker(thresholds HealthThresholds) *HostHealthChecker {
	if thresholds.Path == "" {
		thresholds.Path = "/"
	}
	return &HostHealthChecker{
		thresholds: thresholds,
		stats:      gopsutilStats(),
		now:        time.Now,
	}
}

// Check inspects storage, memory, uptime and running apps. Items whose
// query fails are reported as needing attention; Check only fails when
// every query failed.
func (p *HostHealthChecker) Check(ctx context.Context) (domain.DeviceHealth, error) {
	select {
	case <-ctx.Done():
		return domain.DeviceHealth{}, ctx.Err()
	default:
	}

	var errs []string
	items := make([]domain.HealthItem, 0, 4)

	collect := func(name string, fn func() (domain.HealthItem, error)) {
		item, err := fn()
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", strings.ToLower(name), err))
			item = domain.HealthItem{Name: name, Status: statusAttention, Detail: "Unable to read status."}
		}
		item.Name = name
		items = append(items, item)
	}

	collect("Storage capacity", func() (domain.HealthItem, error) { return p.storage(ctx) })
	collect("Memory", func() (domain.HealthItem, error) { return p.memory(ctx) })
	collect("Uptime", func() (domain.HealthItem, error) { return p.uptime(ctx) })
	collect("Apps and software", func() (domain.HealthItem, error) { return p.apps(ctx) })

	health := domain.DeviceHealth{Items: items, CheckedAt: p.now()}
	if len(errs) == len(items) {
		return health, fmt.Errorf("health check failed: %s", strings.Join(errs, "; "))
	}
	return health, nil
}

func (p *HostHealthChecker) storage(ctx context.Context) (domain.HealthItem, error) {
	usage, err := p.stats.diskUsage(ctx, p.thresholds.Path)
	if err != nil {
		return domain.HealthItem{}, err
	}
	ok := usage.UsedPercent < p.thresholds.StoragePercent
	return statusItem(ok, fmt.Sprintf("%.0f%% of %s used.", usage.UsedPercent, humanBytes(usage.Total))), nil
}

func (p *HostHealthChecker) memory(ctx context.Context) (domain.HealthItem, error) {
	vm, err := p.stats.memory(ctx)
	if err != nil {
		return domain.HealthItem{}, err
	}
	ok := vm.UsedPercent < p.thresholds.MemoryPercent
	return statusItem(ok, fmt.Sprintf("%s available of %s.", humanBytes(vm.Available), humanBytes(vm.Total))), nil
}

func (p *HostHealthChecker) uptime(ctx context.Context) (domain.HealthItem, error) {
	secs, err := p.stats.uptime(ctx)
	if err != nil {
		return domain.HealthItem{}, err
	}
	up := time.Duration(secs) * time.Second
	ok := up < p.thresholds.MaxUptime
	detail := fmt.Sprintf("Up for %s.", up.Round(time.Minute))
	if !ok {
		detail += " A restart is recommended."
	}
	return statusItem(ok, detail), nil
}

func (p *HostHealthChecker) apps(ctx context.Context) (domain.HealthItem, error) {
	pids, err := p.stats.pids(ctx)
	if err != nil {
		return domain.HealthItem{}, err
	}
	return statusItem(true, fmt.Sprintf("%d processes running.", len(pids))), nil
}

func statusItem(ok bool, detail string) domain.HealthItem {
	status := statusNoIssues
	if !ok {
		status = statusAttention
	}
	return domain.HealthItem{OK: ok, Status: status, Detail: detail}
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

var _ domain.HealthChecker = (*HostHealthChecker)(nil)
