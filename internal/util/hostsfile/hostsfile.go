// Package hostsfile appends marker lines to flat text files idempotently.
// Used to register local hostname aliases in /etc/hosts: an entry that is
// already present counts as success, not an error.
package hostsfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// EnsureLine appends line to the file at path unless an identical line is
// already present. Returns true if the file was modified.
func EnsureLine(path, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, fmt.Errorf("refusing to append empty line to %s", path)
	}

	present, err := hasLine(path, line)
	if err != nil {
		return false, err
	}
	if present {
		return false, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, line); err != nil {
		return false, fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return true, nil
}

func hasLine(path, line string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == line {
			return true, nil
		}
	}
	return false, scanner.Err()
}
