package metrics

import (
	"context"
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/host"
)

// SystemSource reads host identity and uptime.
type SystemSource struct{}

// Sample reads host information. The logged-in user comes from the utmp
// session list, falling back to the user running sysview.
func (SystemSource) Sample(ctx context.Context) (SystemInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return SystemInfo{}, fmt.Errorf("reading host info: %w", err)
	}

	platform := strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
	sys := SystemInfo{
		Hostname: info.Hostname,
		OS:       info.OS,
		Platform: platform,
		Kernel:   info.KernelVersion,
		Arch:     info.KernelArch,
		Uptime:   time.Duration(info.Uptime) * time.Second,
		User:     "unknown",
	}

	if users, err := host.UsersWithContext(ctx); err == nil && len(users) > 0 && users[0].User != "" {
		sys.User = users[0].User
	} else if u, err := user.Current(); err == nil {
		sys.User = u.Username
	}

	return sys, nil
}
