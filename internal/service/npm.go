package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/shlex"
	"github.com/strongdm/leash-release/internal/domain"
)

const DefaultNpmBin = "npm"

// NpmService runs the external npm tool.
type NpmService interface {
	// Pack packs stageDir into destDir and returns the raw `--json` report.
	Pack(ctx context.Context, stageDir, destDir string) ([]byte, error)
}

type npmService struct {
	argv []string
}

// NewNpmService builds an NpmService from a command line such as "npm" or
// "corepack npm"; the command is split with shell word rules.
func NewNpmService(command string) (NpmService, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultNpmBin
	}
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, domain.NewErrorf(domain.ErrCodeInvalidArgument, "invalid npm command %q", command).Wrap(err)
	}
	if len(argv) == 0 {
		return nil, domain.NewErrorf(domain.ErrCodeInvalidArgument, "invalid npm command %q", command)
	}
	return &npmService{argv: argv}, nil
}

func (s *npmService) Pack(ctx context.Context, stageDir, destDir string) ([]byte, error) {
	args := append([]string{}, s.argv[1:]...)
	args = append(args, "pack", "--json", "--pack-destination", destDir, stageDir)
	cmd := exec.CommandContext(ctx, s.argv[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, packFailure(err, stderr.String())
	}
	return stdout.Bytes(), nil
}

func packFailure(err error, stderr string) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := fmt.Sprintf("npm pack failed with exit code %d", exitErr.ExitCode())
		if detail := domain.TruncateDiagnostic(stderr); detail != "" {
			msg += ": " + detail
		}
		return domain.NewError(domain.ErrCodePackToolFailed, msg)
	}
	return domain.NewError(domain.ErrCodePackToolFailed, "failed to run npm pack").Wrap(err)
}
