package commands

import (
	"chat-guard/domain/event"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// FormatUptime renders an elapsed duration as
// "D days H hours M minutes S seconds".
func FormatUptime(elapsed time.Duration) string {
	total := int(elapsed.Seconds())
	days := total / (24 * 3600)
	hours := (total % (24 * 3600)) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%d days %d hours %d minutes %d seconds", days, hours, minutes, seconds)
}

func (d *Dispatcher) uptime(_ context.Context, cmd event.Command, _ string) string {
	return "Bot uptime: " + FormatUptime(time.Since(d.stats.StartedAt()))
}

// status reports process health alongside the moderation counters.
func (d *Dispatcher) status(_ context.Context, cmd event.Command, _ string) string {
	snapshot := d.stats.Snapshot()
	report := fmt.Sprintf(
		"Uptime: %s\nObserved: %d Stored: %d Updated: %d\nDeleted: %d Notified: %d Purged: %d\nStore errors: %d Transport errors: %d",
		FormatUptime(time.Since(d.stats.StartedAt())),
		snapshot.Observed, snapshot.Stored, snapshot.Updated,
		snapshot.Deleted, snapshot.Notified, snapshot.Purged,
		snapshot.StoreErrors, snapshot.TransportErrors,
	)

	rss, cpu, state, err := selfStats()
	if err != nil {
		d.log.Warn("Process stats unavailable", "error", err)
		return report
	}
	return fmt.Sprintf("%s\nRSS: %d MB CPU: %.1f%% State: %s", report, rss/1024/1024, cpu, state)
}

// selfStats retrieves memory, CPU and OS status for this process.
func selfStats() (uint64, float64, string, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, 0, "", err
	}
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}
	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
