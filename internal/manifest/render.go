package manifest

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Render produces the orchestration manifest. Output is built from explicit
// yaml nodes so key order is fixed by the model, never by map iteration —
// identical inputs render byte-identically.
func (m *Manifest) Render() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	services := newMapping()
	for _, svc := range m.Services {
		services.add(svc.Name, svc.node(m.Network))
	}

	networks := newMapping()
	networks.add(m.Network, mappingOf("driver", scalar("bridge")))

	root := newMapping()
	root.add("services", services.node())
	root.add("networks", networks.node())

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root.node()); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize manifest: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ServiceSpec) node(network string) *yaml.Node {
	svc := newMapping()

	if s.BuildContext != "" {
		svc.add("build", scalar(s.BuildContext))
	} else {
		svc.add("image", scalar(s.Image))
	}
	if s.ContainerName != "" {
		svc.add("container_name", scalar(s.ContainerName))
	}
	if s.Restart != "" {
		svc.add("restart", scalar(s.Restart))
	}

	if len(s.Ports) > 0 {
		ports := make([]*yaml.Node, 0, len(s.Ports))
		for _, p := range s.Ports {
			ports = append(ports, quoted(p))
		}
		svc.add("ports", sequence(ports...))
	}

	if len(s.Volumes) > 0 {
		vols := make([]*yaml.Node, 0, len(s.Volumes))
		for _, v := range s.Volumes {
			vols = append(vols, scalar(v.String()))
		}
		svc.add("volumes", sequence(vols...))
	}

	if len(s.Environment) > 0 {
		env := make([]*yaml.Node, 0, len(s.Environment))
		for _, e := range s.Environment {
			env = append(env, scalar(e))
		}
		svc.add("environment", sequence(env...))
	}

	if s.Health != nil {
		svc.add("healthcheck", s.Health.node())
	}

	if len(s.DependsOn) > 0 {
		deps := newMapping()
		for _, dep := range s.DependsOn {
			deps.add(dep.Service, mappingOf("condition", scalar(dep.Condition)))
		}
		svc.add("depends_on", deps.node())
	}

	svc.add("networks", sequence(scalar(network)))
	return svc.node()
}

func (h *HealthCheck) node() *yaml.Node {
	test := make([]*yaml.Node, 0, len(h.Test))
	for _, t := range h.Test {
		test = append(test, quoted(t))
	}
	testSeq := sequence(test...)
	testSeq.Style = yaml.FlowStyle

	hc := newMapping()
	hc.add("test", testSeq)
	hc.add("interval", scalar(h.Interval))
	hc.add("timeout", scalar(h.Timeout))
	hc.add("retries", intScalar(h.Retries))
	return hc.node()
}

// mapping builds a yaml mapping node with insertion-ordered keys.
type mapping struct {
	content []*yaml.Node
}

func newMapping() *mapping {
	return &mapping{}
}

func (m *mapping) add(key string, value *yaml.Node) {
	m.content = append(m.content, scalar(key), value)
}

func (m *mapping) node() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: m.content}
}

func mappingOf(key string, value *yaml.Node) *yaml.Node {
	m := newMapping()
	m.add(key, value)
	return m.node()
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func quoted(value string) *yaml.Node {
	n := scalar(value)
	n.Style = yaml.DoubleQuotedStyle
	return n
}

func intScalar(value int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(value)}
}

func sequence(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}
