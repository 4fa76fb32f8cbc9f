package manifest

import "fmt"

// Validate checks the manifest's structural invariants: unique service
// names, exactly one of image/build per service, dependency references that
// resolve within the manifest, health-gated dependencies pointing at
// services that actually declare a health check, and an acyclic dependency
// graph.
func (m *Manifest) Validate() error {
	if m.Network == "" {
		return fmt.Errorf("manifest network must not be empty")
	}
	if len(m.Services) == 0 {
		return fmt.Errorf("manifest declares no services")
	}

	byName := make(map[string]*ServiceSpec, len(m.Services))
	for i := range m.Services {
		svc := &m.Services[i]
		if svc.Name == "" {
			return fmt.Errorf("service %d has no name", i)
		}
		if _, dup := byName[svc.Name]; dup {
			return fmt.Errorf("duplicate service name %q", svc.Name)
		}
		byName[svc.Name] = svc

		if (svc.Image == "") == (svc.BuildContext == "") {
			return fmt.Errorf("service %q must set exactly one of image and build context", svc.Name)
		}
	}

	for _, svc := range m.Services {
		for _, dep := range svc.DependsOn {
			target, ok := byName[dep.Service]
			if !ok {
				return fmt.Errorf("service %q depends on unknown service %q", svc.Name, dep.Service)
			}
			if dep.Condition == ConditionHealthy && target.Health == nil {
				return fmt.Errorf("service %q requires %q to be healthy, but %q declares no health check",
					svc.Name, dep.Service, dep.Service)
			}
		}
	}

	if cycle := findCycle(byName); cycle != "" {
		return fmt.Errorf("dependency cycle involving service %q", cycle)
	}

	return nil
}

// findCycle runs a depth-first search over the dependency graph and returns
// the name of a service on a cycle, or "" if the graph is acyclic.
func findCycle(byName map[string]*ServiceSpec) string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(byName))

	var visit func(name string) string
	visit = func(name string) string {
		switch state[name] {
		case visiting:
			return name
		case done:
			return ""
		}
		state[name] = visiting
		for _, dep := range byName[name].DependsOn {
			if found := visit(dep.Service); found != "" {
				return found
			}
		}
		state[name] = done
		return ""
	}

	for name := range byName {
		if found := visit(name); found != "" {
			return found
		}
	}
	return ""
}
