package manifest

import "github.com/fkoep/stackup/internal/config"

// Database credentials for the scanner's backing store. The stack is
// local-only; these are not secrets.
const (
	scannerDBName     = "sonarqube"
	scannerDBUser     = "sonar"
	scannerDBPassword = "sonar"

	documentStoreUser     = "root"
	documentStorePassword = "stackup"
)

// DocumentStoreCredentials returns the document database root credentials,
// surfaced in the access report.
func DocumentStoreCredentials() (user, password string) {
	return documentStoreUser, documentStorePassword
}

// DevStack returns the static seven-service developer toolchain topology:
// CI server, relational database, code scanner (custom local build),
// artifact repository, document database, reverse proxy, and container
// registry, all joined to one shared network. The same config always yields
// the same topology.
func DevStack(cfg *config.Config) *Manifest {
	name := func(short string) string { return cfg.Project + "-" + short }

	return &Manifest{
		Project: cfg.Project,
		Network: cfg.Project,
		Services: []ServiceSpec{
			{
				Name:          "jenkins",
				Image:         "jenkins/jenkins:lts",
				ContainerName: name("jenkins"),
				Restart:       "unless-stopped",
				Ports:         []string{"8080:8080", "50000:50000"},
				Volumes: []VolumeMapping{
					{Source: cfg.DataDir(config.DirCI), Target: "/var/jenkins_home"},
				},
			},
			{
				Name:          "postgres",
				Image:         "postgres:15-alpine",
				ContainerName: name("postgres"),
				Restart:       "unless-stopped",
				Volumes: []VolumeMapping{
					{Source: cfg.DataDir(config.DirDatabase), Target: "/var/lib/postgresql/data"},
				},
				Environment: []string{
					"POSTGRES_DB=" + scannerDBName,
					"POSTGRES_PASSWORD=" + scannerDBPassword,
					"POSTGRES_USER=" + scannerDBUser,
				},
				Health: &HealthCheck{
					Test:     []string{"CMD-SHELL", "pg_isready -U " + scannerDBUser + " -d " + scannerDBName},
					Interval: "10s",
					Timeout:  "5s",
					Retries:  5,
				},
			},
			{
				Name:          "sonarqube",
				BuildContext:  "./sonarqube",
				ContainerName: name("sonarqube"),
				Restart:       "unless-stopped",
				Ports:         []string{"9000:9000"},
				Volumes: []VolumeMapping{
					{Source: cfg.DataDir(config.DirScannerData), Target: "/opt/sonarqube/data"},
					{Source: cfg.DataDir(config.DirScannerExt), Target: "/opt/sonarqube/extensions"},
					{Source: cfg.DataDir(config.DirScannerLogs), Target: "/opt/sonarqube/logs"},
				},
				Environment: []string{
					"SONAR_ES_BOOTSTRAP_CHECKS_DISABLE=true",
					"SONAR_JDBC_PASSWORD=" + scannerDBPassword,
					"SONAR_JDBC_URL=jdbc:postgresql://postgres:5432/" + scannerDBName,
					"SONAR_JDBC_USERNAME=" + scannerDBUser,
				},
				DependsOn: []Dependency{
					{Service: "postgres", Condition: ConditionHealthy},
				},
			},
			{
				Name:          "nexus",
				Image:         "sonatype/nexus3:latest",
				ContainerName: name("nexus"),
				Restart:       "unless-stopped",
				Ports:         []string{"8081:8081"},
				Volumes: []VolumeMapping{
					{Source: cfg.DataDir(config.DirArtifacts), Target: "/nexus-data"},
				},
			},
			{
				Name:          "mongo",
				Image:         "mongo:7",
				ContainerName: name("mongo"),
				Restart:       "unless-stopped",
				Ports:         []string{"27017:27017"},
				Volumes: []VolumeMapping{
					{Source: cfg.DataDir(config.DirDocumentStore), Target: "/data/db"},
				},
				Environment: []string{
					"MONGO_INITDB_ROOT_PASSWORD=" + documentStorePassword,
					"MONGO_INITDB_ROOT_USERNAME=" + documentStoreUser,
				},
			},
			{
				Name:          "nginx",
				Image:         "nginx:1.27-alpine",
				ContainerName: name("nginx"),
				Restart:       "unless-stopped",
				Ports:         []string{"80:80", "443:443"},
				Volumes: []VolumeMapping{
					{Source: cfg.DataDir(config.DirProxyConf), Target: "/etc/nginx/conf.d", Mode: "ro"},
					{Source: cfg.DataDir(config.DirProxyCerts), Target: "/etc/nginx/certs", Mode: "ro"},
				},
			},
			{
				Name:          "registry",
				Image:         "registry:2",
				ContainerName: name("registry"),
				Restart:       "unless-stopped",
				Ports:         []string{"5000:5000"},
				Volumes: []VolumeMapping{
					{Source: cfg.DataDir(config.DirRegistry), Target: "/var/lib/registry"},
				},
			},
		},
	}
}
