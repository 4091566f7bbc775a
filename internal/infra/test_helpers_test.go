package infra

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// commandCall records one CombinedOutput invocation.
type commandCall struct {
	name string
	args []string
}

func (c commandCall) String() string {
	return c.name + " " + strings.Join(c.args, " ")
}

// mockCommandRunner is a test double for domain.CommandRunner.
// failOn maps a "name firstArg" key to the error and output to return.
type mockCommandRunner struct {
	calls  []commandCall
	failOn map[string]error
	output map[string][]byte
}

func newMockCommandRunner() *mockCommandRunner {
	return &mockCommandRunner{
		failOn: make(map[string]error),
		output: make(map[string][]byte),
	}
}

func (m *mockCommandRunner) CombinedOutput(name string, args ...string) ([]byte, error) {
	call := commandCall{name: name, args: args}
	m.calls = append(m.calls, call)

	key := name
	if len(args) > 0 {
		key += " " + args[0]
	}
	return m.output[key], m.failOn[key]
}

func (m *mockCommandRunner) commands() []string {
	var out []string
	for _, c := range m.calls {
		key := c.name
		if len(c.args) > 0 {
			key += " " + c.args[0]
		}
		out = append(out, key)
	}
	return out
}

// mockWindowsPlatform is a test double for WindowsPlatform.
type mockWindowsPlatform struct {
	sandboxRoot   string
	sandboxErr    error
	existing      map[string]bool
	restartErr    error
	restartCalled bool
}

func (m *mockWindowsPlatform) SandboxAppDataDir() (string, error) {
	if m.sandboxErr != nil {
		return "", m.sandboxErr
	}
	return m.sandboxRoot, nil
}

func (m *mockWindowsPlatform) PathExists(path string) bool {
	return m.existing[path]
}

func (m *mockWindowsPlatform) RegisterRestart() error {
	m.restartCalled = true
	return m.restartErr
}

// mockMountTable is a test double for domain.MountTable.
type mockMountTable struct {
	mounted map[string]bool
	err     error
}

func (m *mockMountTable) IsMounted(path string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.mounted[path], nil
}

// recordingProgress counts Start/Stop pairs and tracks whether it is running.
type recordingProgress struct {
	started []string
	stopped int
	active  bool
}

func (p *recordingProgress) Start(message string) {
	p.started = append(p.started, message)
	p.active = true
}

func (p *recordingProgress) Stop() {
	p.stopped++
	p.active = false
}

var errToolFailed = errors.New("exit status 1")

// writeUpdate places a valid payload and checksum pair into <profile>/temp/update.
func writeUpdate(t *testing.T, profileDir, payloadName string) (string, string) {
	t.Helper()
	dir := UpdateDir(profileDir)
	require.NoError(t, os.MkdirAll(dir, 0755))

	payload := []byte("package " + payloadName)
	payloadPath := filepath.Join(dir, payloadName)
	checksumPath := payloadPath + ".sha256"
	require.NoError(t, os.WriteFile(payloadPath, payload, 0644))
	require.NoError(t, os.WriteFile(checksumPath, []byte(digestOf(payload)+"  "+payloadName+"\n"), 0644))
	return payloadPath, checksumPath
}
