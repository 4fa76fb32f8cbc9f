package handlers

import (
	"fmt"
	"io"

	"github.com/fkoep/stackup/internal/provisioning/report"
	"github.com/fkoep/stackup/internal/util/netutil"
)

// resolveHostIP resolves the host's primary address (for testing injection).
var resolveHostIP = func() (string, error) {
	return netutil.OutboundIP(nil)
}

// Report prints the access data for an already provisioned stack.
func Report(out io.Writer, configPath string) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}

	ip, err := resolveHostIP()
	if err != nil {
		return fmt.Errorf("failed to resolve host address: %w", err)
	}

	report.Build(cfg, ip).Print(out)
	return nil
}
