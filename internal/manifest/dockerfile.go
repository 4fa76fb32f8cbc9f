package manifest

import (
	"fmt"

	"github.com/fkoep/stackup/internal/config"
)

// ScannerDockerfile renders the custom build definition for the code
// scanner image: fix data-directory ownership as root, then drop to the
// image's unprivileged numeric user.
func ScannerDockerfile(owner config.Owner) string {
	return fmt.Sprintf(`FROM sonarqube:community

USER root
RUN chown -R %d:%d /opt/sonarqube/data /opt/sonarqube/extensions /opt/sonarqube/logs
USER %d
`, owner.UID, owner.GID, owner.UID)
}
