package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fkoep/stackup/internal/provisioning"
	"github.com/fkoep/stackup/internal/util/netutil"
)

// AccessDataFile is the name of the persisted report in the output directory.
const AccessDataFile = "access-data.yaml"

// Provisioner resolves the host address and publishes the access report.
type Provisioner struct {
	// Out receives the printed summary. Defaults to stdout.
	Out io.Writer

	// Dial is the dialer used for address resolution; injectable for tests.
	Dial netutil.Dialer
}

// NewProvisioner creates a report provisioner printing to stdout.
func NewProvisioner() *Provisioner {
	return &Provisioner{Out: os.Stdout}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "report"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	ip, err := netutil.OutboundIP(p.Dial)
	if err != nil {
		return fmt.Errorf("failed to resolve host address: %w", err)
	}
	ctx.State.HostIP = ip

	r := Build(ctx.Config, ip)

	path := filepath.Join(ctx.Config.OutputDir, AccessDataFile)
	if err := r.WriteYAML(path); err != nil {
		return err
	}
	ctx.Observer.Event(provisioning.Event{
		Type:     provisioning.EventResourceCreated,
		Phase:    p.Name(),
		Resource: path,
		Message:  "access data written",
	})

	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	r.Print(out)
	return nil
}
