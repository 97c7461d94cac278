package refresh

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gameshelf/internal/logging"
	"gameshelf/internal/notifications"
)

// Start begins periodic refresh cycles in the background. The first cycle
// runs immediately; later cycles follow the configured interval.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("refresh already running")
	}
	if m.interval <= 0 {
		m.mu.Unlock()
		return errors.New("refresh interval not configured")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	go m.runLoop(runCtx)
	return nil
}

// Stop terminates background processing and waits for completion.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

func (m *Manager) runLoop(ctx context.Context) {
	defer m.wg.Done()

	for {
		report, err := m.RunCycle(ctx, CycleOptions{ResolveFirst: m.resolveFirst})
		m.setLastCycle(&report, err)
		m.notifyCycle(ctx, report, err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.interval):
		}
	}
}

func (m *Manager) notifyCycle(ctx context.Context, report CycleReport, cycleErr error) {
	if m.notifier == nil {
		return
	}

	if cycleErr != nil {
		if errors.Is(cycleErr, context.Canceled) {
			return
		}
		if err := m.notifier.Publish(ctx, notifications.EventError, notifications.Payload{
			"context": "refresh",
			"error":   cycleErr.Error(),
		}); err != nil && !errors.Is(err, context.Canceled) {
			m.logger.Debug("refresh error notification failed", logging.Error(err))
		}
		return
	}

	if report.Resolve != nil && report.Resolve.Attempted > 0 {
		if err := m.notifier.Publish(ctx, notifications.EventResolveCompleted, notifications.Payload{
			"linked": strconv.Itoa(report.Resolve.Linked),
			"failed": strconv.Itoa(report.Resolve.Failed),
		}); err != nil && !errors.Is(err, context.Canceled) {
			m.logger.Debug("resolve notification failed", logging.Error(err))
		}
	}

	// Quiet cycles (nothing due) do not notify.
	if report.Attempted == 0 {
		return
	}
	if err := m.notifier.Publish(ctx, notifications.EventRefreshCompleted, notifications.Payload{
		"updated":  strconv.Itoa(report.Recorded),
		"empty":    strconv.Itoa(report.Empty),
		"failed":   strconv.Itoa(report.Failed),
		"duration": notifications.FormatDuration(report.Duration),
	}); err != nil && !errors.Is(err, context.Canceled) {
		m.logger.Debug("refresh notification failed", logging.Error(err))
	}
}
