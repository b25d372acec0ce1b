package evaluate

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"
)

// Prober performs the four runtime checks of spec.md §4.3 step 10. Each
// method receives an already-expanded template (the evaluator expands
// tokens before calling in); a Prober implementation only does the probe
// itself, so tests can substitute a fake without touching expansion.
type Prober interface {
	TryExec(ctx context.Context, path string) bool
	ShowIfRegistered(ctx context.Context, busName string) bool
	ShowIfTrue(ctx context.Context, command string) bool
	ShowIfRunning(ctx context.Context, processName string) bool
}

// SystemProber is the production Prober: try_exec checks the access bits
// directly, show_if_registered queries the session D-Bus, show_if_true
// spawns the command under a rate limiter, show_if_running scans the
// process table via gopsutil.
type SystemProber struct {
	// ShowIfTrueLimiter bounds how often show_if_true may spawn a process;
	// nil means unlimited. A menu with many show_if_true actions would
	// otherwise fork once per item on every menu-request.
	ShowIfTrueLimiter *rate.Limiter
}

// NewSystemProber builds a SystemProber whose show_if_true spawns are
// limited to rps events per second, bursting up to burst.
func NewSystemProber(rps float64, burst int) *SystemProber {
	return &SystemProber{ShowIfTrueLimiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (p *SystemProber) TryExec(ctx context.Context, path string) bool {
	if path == "" {
		return false
	}
	if !strings.HasPrefix(path, "/") {
		resolved, err := exec.LookPath(path)
		if err != nil {
			return false
		}
		path = resolved
	}
	return unix.Access(path, unix.X_OK) == nil
}

func (p *SystemProber) ShowIfRegistered(ctx context.Context, busName string) bool {
	if busName == "" {
		return false
	}
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return false
	}
	defer conn.Close()

	var owned bool
	err = conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, busName).Store(&owned)
	return err == nil && owned
}

func (p *SystemProber) ShowIfTrue(ctx context.Context, command string) bool {
	if command == "" {
		return false
	}
	if p.ShowIfTrueLimiter != nil {
		if err := p.ShowIfTrueLimiter.Wait(ctx); err != nil {
			return false
		}
	}
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "true"
}

func (p *SystemProber) ShowIfRunning(ctx context.Context, processName string) bool {
	if processName == "" {
		return false
	}
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false
	}
	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if name == processName {
			return true
		}
	}
	return false
}

// withTimeout bounds a probe call to d, per spec.md §5 ("short timeout,
// suggested 500ms... if a probe times out, the item is treated as
// non-matching").
func withTimeout(parent context.Context, d time.Duration, fn func(context.Context) bool) bool {
	if d <= 0 {
		return fn(parent)
	}
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()

	done := make(chan bool, 1)
	go func() { done <- fn(ctx) }()
	select {
	case ok := <-done:
		return ok
	case <-ctx.Done():
		return false
	}
}
