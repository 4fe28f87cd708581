// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs conversion tools packaged as container images
// through docker or podman.
package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	binDocker = "docker"
	binPodman = "podman"

	// PreferAuto tries docker first and falls back to podman.
	PreferAuto = "auto"

	maxStderrTail = 512
)

// Runtime provides container operations: checking availability, verifying
// images, and running containers.
type Runtime interface {
	// Name returns the runtime name ("docker" or "podman").
	Name() string

	// Available reports whether the runtime binary exists on PATH and
	// responds to an info command.
	Available(ctx context.Context) bool

	// ImageExists returns nil when the named image exists locally.
	ImageExists(ctx context.Context, image string) error

	// Run executes image with stdin piped in and stdout captured. The
	// container is removed afterwards.
	Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(ctx context.Context, name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// runtime implements Runtime for one container binary. Docker and podman
// differ only in binary name and the image check subcommand.
type runtime struct {
	bin           string
	imageCheckCmd []string
	exec          executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available(ctx context.Context) bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(ctx, r.bin, "info") == nil
}

func (r *runtime) ImageExists(ctx context.Context, image string) error {
	args := append(append([]string{}, r.imageCheckCmd...), image)
	if err := r.exec.RunSilent(ctx, r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	args := []string{"run", "--rm", "-i", "--network=none", image}
	if err := r.exec.RunPiped(ctx, r.bin, args, stdin, stdout, &stderr); err != nil {
		if tail := stderrTail(stderr.String()); tail != "" {
			return fmt.Errorf("running %s container %s: %w: %s", r.bin, image, err, tail)
		}
		return fmt.Errorf("running %s container %s: %w", r.bin, image, err)
	}
	return nil
}

func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderrTail {
		s = "..." + s[len(s)-maxStderrTail:]
	}
	return s
}

func newRuntime(bin string, exec executor) (*runtime, error) {
	switch bin {
	case binDocker:
		return &runtime{bin: binDocker, imageCheckCmd: []string{"image", "inspect"}, exec: exec}, nil
	case binPodman:
		return &runtime{bin: binPodman, imageCheckCmd: []string{"image", "exists"}, exec: exec}, nil
	default:
		return nil, fmt.Errorf("unknown container runtime %q", bin)
	}
}

var defaultExec executor = osExecutor{}

// Select returns the runtime named by preference ("auto", "docker" or
// "podman"). A named runtime must be available; auto tries docker first and
// falls back to podman.
func Select(ctx context.Context, preference string) (Runtime, error) {
	return selectRuntime(ctx, defaultExec, preference)
}

func selectRuntime(ctx context.Context, exec executor, preference string) (Runtime, error) {
	if preference == "" || preference == PreferAuto {
		for _, bin := range []string{binDocker, binPodman} {
			rt, _ := newRuntime(bin, exec)
			if rt.Available(ctx) {
				return rt, nil
			}
		}
		return nil, fmt.Errorf(
			"no container runtime available: neither %s nor %s found or operational",
			binDocker, binPodman,
		)
	}

	rt, err := newRuntime(preference, exec)
	if err != nil {
		return nil, err
	}
	if !rt.Available(ctx) {
		return nil, fmt.Errorf("container runtime %s not found or not operational", preference)
	}
	return rt, nil
}
