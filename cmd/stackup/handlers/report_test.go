package handlers

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkoep/stackup/internal/config"
)

func TestReport_PrintsAccessData(t *testing.T) {
	stubEnvironment(t, config.Default())
	resolveHostIP = func() (string, error) {
		return "10.1.2.3", nil
	}

	var buf bytes.Buffer
	err := Report(&buf, "")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Stack is up on 10.1.2.3")
	assert.Contains(t, out, "http://10.1.2.3:8080")
	assert.Contains(t, out, "initialAdminPassword")
}

func TestReport_ResolutionFailure(t *testing.T) {
	stubEnvironment(t, config.Default())
	resolveHostIP = func() (string, error) {
		return "", errors.New("no non-loopback IPv4 address found")
	}

	err := Report(&bytes.Buffer{}, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve host address")
}
