package stack

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/fkoep/stackup/internal/provisioning"
)

// ErrTimeout is returned when a service never becomes ready within the
// configured attempt budget. A slow but healthy service run again with a
// larger budget is fine; any other error means the probe itself broke.
var ErrTimeout = errors.New("timed out waiting for readiness")

// Signal is a readiness probe for a started service.
type Signal interface {
	// Ready reports whether the service is ready. Errors are treated as
	// not-ready-yet: a service still starting commonly cannot answer probes.
	Ready(ctx context.Context) (bool, error)

	// Description names the condition being waited for, for log output.
	Description() string
}

// LogSignal reports readiness when a pattern appears in a container's log
// stream.
type LogSignal struct {
	Docker    func(ctx context.Context) (provisioning.RuntimeAPI, error)
	Container string
	Pattern   string

	// Tail bounds how much log history is scanned per probe.
	Tail string
}

// Ready implements the Signal interface.
func (s *LogSignal) Ready(ctx context.Context) (bool, error) {
	api, err := s.Docker(ctx)
	if err != nil {
		return false, err
	}

	tail := s.Tail
	if tail == "" {
		tail = "400"
	}
	logs, err := api.ContainerLogs(ctx, s.Container, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       tail,
	})
	if err != nil {
		return false, err
	}
	defer logs.Close()

	// The log stream is multiplexed; demux before matching.
	var out bytes.Buffer
	if _, err := stdcopy.StdCopy(&out, &out, logs); err != nil && err != io.EOF {
		return false, err
	}
	return strings.Contains(out.String(), s.Pattern), nil
}

// Description implements the Signal interface.
func (s *LogSignal) Description() string {
	return fmt.Sprintf("%q in logs of %s", s.Pattern, s.Container)
}

// FileSignal reports readiness when a file exists. Useful for services that
// drop a generated secret on first successful start.
type FileSignal struct {
	Path string
}

// Ready implements the Signal interface.
func (s *FileSignal) Ready(_ context.Context) (bool, error) {
	_, err := os.Stat(s.Path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Description implements the Signal interface.
func (s *FileSignal) Description() string {
	return s.Path
}

// Wait polls the signal until it fires or the attempt budget is exhausted.
// Probe errors count as a failed attempt rather than aborting, because early
// probes routinely race the service's startup. A nil sleep uses the real
// clock.
func Wait(ctx *provisioning.Context, signal Signal, interval time.Duration, maxAttempts int, sleep func(time.Duration)) error {
	if sleep == nil {
		sleep = time.Sleep
	}

	ctx.Observer.Printf("waiting for %s", signal.Description())
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ready, err := signal.Ready(ctx)
		if err != nil {
			ctx.Observer.Printf("readiness probe %d/%d: %v", attempt, maxAttempts, err)
		}
		if ready {
			ctx.Observer.Event(provisioning.Event{
				Type:    provisioning.EventResourceCreated,
				Phase:   "stack",
				Message: fmt.Sprintf("service ready after %d attempt(s)", attempt),
			})
			return nil
		}
		if attempt < maxAttempts {
			sleep(interval)
		}
	}
	return fmt.Errorf("%w: %s after %d attempts", ErrTimeout, signal.Description(), maxAttempts)
}
