package execx

import (
	"context"
	"strings"
)

// FakeRunner records commands instead of executing them. Intended for tests.
type FakeRunner struct {
	// Commands holds every invocation as "name arg1 arg2 ...".
	Commands []string

	// Errors maps a command prefix to the error returned when a command
	// starting with that prefix is run.
	Errors map[string]error

	// Outputs maps a command prefix to the stdout returned by Output.
	Outputs map[string]string
}

// NewFakeRunner returns an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Errors:  make(map[string]error),
		Outputs: make(map[string]string),
	}
}

// Run implements Runner.
func (f *FakeRunner) Run(_ context.Context, name string, args ...string) error {
	cmdline := strings.Join(append([]string{name}, args...), " ")
	f.Commands = append(f.Commands, cmdline)
	return f.match(cmdline)
}

// Output implements Runner.
func (f *FakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	cmdline := strings.Join(append([]string{name}, args...), " ")
	f.Commands = append(f.Commands, cmdline)
	if err := f.match(cmdline); err != nil {
		return "", err
	}
	for prefix, out := range f.Outputs {
		if strings.HasPrefix(cmdline, prefix) {
			return out, nil
		}
	}
	return "", nil
}

// Ran reports whether any recorded command starts with the given prefix.
func (f *FakeRunner) Ran(prefix string) bool {
	for _, c := range f.Commands {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func (f *FakeRunner) match(cmdline string) error {
	for prefix, err := range f.Errors {
		if strings.HasPrefix(cmdline, prefix) {
			return err
		}
	}
	return nil
}
