package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentx-labs/calcx/internal/branding"
	"github.com/agentx-labs/calcx/internal/manifest"
)

// ExecRuntime loads plugins described by a *.plugin.yaml manifest. Each
// invocation spawns the manifest's command, writes {"args": [...]} on stdin
// and expects {"result": ...} or {"error": "..."} on stdout.
type ExecRuntime struct {
	// APIVersion is checked against each manifest's api constraint.
	APIVersion string
}

// NewExec returns the exec runtime for the host plugin API version.
func NewExec() *ExecRuntime {
	return &ExecRuntime{APIVersion: manifest.APIVersion}
}

func (r *ExecRuntime) Name() string { return RuntimeExec }

func (r *ExecRuntime) Matches(fileName string) bool {
	return manifest.IsManifestFile(fileName)
}

// Load parses and validates the manifest. The command itself is not run
// until the first invocation.
func (r *ExecRuntime) Load(_ context.Context, path string) (Plugin, error) {
	m, err := manifest.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if err := m.CheckAPI(r.APIVersion); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlugin, err)
	}
	timeout, err := m.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolving plugin directory: %w", err)
	}
	return &execPlugin{
		manifest: m,
		dir:      dir,
		argv:     m.ResolveCommand(dir),
		timeout:  timeout,
	}, nil
}

const waitDelay = 500 * time.Millisecond

type execPlugin struct {
	manifest *manifest.PluginManifest
	dir      string
	argv     []string
	timeout  time.Duration
}

type execRequest struct {
	Args []any `json:"args"`
}

type execResponse struct {
	Result any     `json:"result"`
	Error  *string `json:"error"`
}

func (p *execPlugin) Name() string { return p.manifest.Name }

func (p *execPlugin) Invoke(ctx context.Context, args ...any) (any, error) {
	if args == nil {
		args = []any{}
	}
	input, err := json.Marshal(execRequest{Args: args})
	if err != nil {
		return nil, fmt.Errorf("serializing plugin arguments: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.argv[0], p.argv[1:]...)
	cmd.Dir = p.dir
	cmd.Env = p.buildEnv()
	// Children that inherit stdout must not hold Run open past the deadline.
	cmd.WaitDelay = waitDelay
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("plugin %q timed out after %s", p.Name(), p.timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = "no output on stderr"
			}
			return nil, fmt.Errorf("plugin %q exited with code %d: %s", p.Name(), exitErr.ExitCode(), msg)
		}
		return nil, fmt.Errorf("running plugin %q: %w", p.Name(), err)
	}

	var resp execResponse
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &resp); err != nil {
		return nil, fmt.Errorf("plugin %q returned malformed output: %w", p.Name(), err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("plugin %q: %s", p.Name(), *resp.Error)
	}
	return resp.Result, nil
}

func (p *execPlugin) Close() error { return nil }

// buildEnv inherits the process environment, adds the manifest's env block
// and exposes the plugin's name and directory.
func (p *execPlugin) buildEnv() []string {
	env := os.Environ()
	for k, v := range p.manifest.Env {
		env = setEnv(env, k, v)
	}
	env = setEnv(env, branding.EnvVar("PLUGIN_NAME"), p.manifest.Name)
	env = setEnv(env, branding.EnvVar("PLUGIN_DIR"), p.dir)
	return env
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
