// Package manifest models the container stack as declarative service
// specifications and renders them into an orchestration manifest.
//
// Rendering is a pure function of the model: the same input always produces
// byte-identical output, so generated files can be diffed across reruns.
package manifest

import "fmt"

// Dependency conditions understood by the orchestration layer.
const (
	// ConditionStarted gates on the dependency's container being started.
	ConditionStarted = "service_started"

	// ConditionHealthy gates on the dependency's health check passing.
	ConditionHealthy = "service_healthy"
)

// Manifest is the full stack description: a set of services joined to one
// shared bridge network.
type Manifest struct {
	// Project prefixes container names.
	Project string

	// Network is the single shared network all services join.
	Network string

	Services []ServiceSpec
}

// ServiceSpec describes one containerized service's runtime requirements.
// Exactly one of Image and BuildContext must be set.
type ServiceSpec struct {
	Name string

	// Image is an upstream image reference.
	Image string

	// BuildContext is a local build directory, relative to the manifest.
	BuildContext string

	ContainerName string
	Restart       string
	Ports         []string
	Volumes       []VolumeMapping

	// Environment holds KEY=value entries. Callers keep them sorted so the
	// rendered manifest is reproducible.
	Environment []string

	Health    *HealthCheck
	DependsOn []Dependency
}

// VolumeMapping binds a host path into the container.
type VolumeMapping struct {
	Source string
	Target string

	// Mode is an optional access mode such as "ro".
	Mode string
}

func (v VolumeMapping) String() string {
	if v.Mode != "" {
		return fmt.Sprintf("%s:%s:%s", v.Source, v.Target, v.Mode)
	}
	return fmt.Sprintf("%s:%s", v.Source, v.Target)
}

// HealthCheck is a periodic probe used to gate dependent services.
type HealthCheck struct {
	Test     []string
	Interval string
	Timeout  string
	Retries  int
}

// Dependency declares that a service waits for another before starting.
type Dependency struct {
	Service   string
	Condition string
}

// HasBuilds reports whether any service carries a local build context.
func (m *Manifest) HasBuilds() bool {
	for _, svc := range m.Services {
		if svc.BuildContext != "" {
			return true
		}
	}
	return false
}

// Service returns the spec with the given name, or nil.
func (m *Manifest) Service(name string) *ServiceSpec {
	for i := range m.Services {
		if m.Services[i].Name == name {
			return &m.Services[i]
		}
	}
	return nil
}
