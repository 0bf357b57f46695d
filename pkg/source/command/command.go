// Copyright (c) 2025, The cirg Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package command

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"time"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/parser"
)

// Runner runs an external tool with a fixed argument list and returns its
// standard output decoded to UTF-8.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs tools as local subprocesses.
type ExecRunner struct {
	// Timeout bounds each invocation. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// NewRunner returns an ExecRunner with the given per-invocation timeout.
func NewRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Timeout: timeout}
}

// Run starts the tool and waits for it to exit. A non-zero exit status with
// output on stdout is not an error: schtasks and wevtutil both print usable
// output before failing on a single unreadable entry.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	hideWindow(cmd)

	err := cmd.Run()
	if ctx.Err() != nil {
		return "", cerrors.WrapWithContext(cerrors.ErrCodeTimeout, "command timed out", ctx.Err(),
			map[string]any{"command": name})
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && stdout.Len() > 0 {
			slog.Debug("command exited with error, using partial output",
				"command", name,
				"exitCode", exitErr.ExitCode(),
				"stderr", parser.DecodeConsole(stderr.Bytes()))
			return parser.DecodeConsole(stdout.Bytes()), nil
		}
		return "", cerrors.WrapWithContext(cerrors.ErrCodeSourceUnavailable, "command failed", err,
			map[string]any{"command": name, "stderr": parser.DecodeConsole(stderr.Bytes())})
	}
	return parser.DecodeConsole(stdout.Bytes()), nil
}
