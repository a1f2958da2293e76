package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/strongdm/leash-release/internal/domain"
	"github.com/strongdm/leash-release/internal/repository"
	"github.com/strongdm/leash-release/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const defaultReleaseConcurrency = 4

// AggregateCLIReleasesUseCase gathers the latest npm and GitHub release of each coder CLI.
// Fetch failures are recorded per CLI and never fail the run.
type AggregateCLIReleasesUseCase struct {
	NpmRepo     repository.NpmRegistryRepository
	GithubRepo  repository.GithubReleaseRepository
	Sources     []domain.CLISource
	Concurrency int
}

// Execute runs the use case.
func (uc *AggregateCLIReleasesUseCase) Execute(ctx context.Context) (*domain.CLIReleaseReport, error) {
	sources := uc.Sources
	if sources == nil {
		sources = domain.DefaultCLISources()
	}
	limit := uc.Concurrency
	if limit <= 0 {
		limit = defaultReleaseConcurrency
	}

	records := make([]domain.CLIRelease, len(sources))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, src := range sources {
		g.Go(func() error {
			records[i] = uc.collect(ctx, src)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &domain.CLIReleaseReport{
		CoderCLIs: make(map[string]domain.CLIRelease, len(sources)),
		Order:     make([]string, 0, len(sources)),
	}
	var newest time.Time
	for i, src := range sources {
		rec := records[i]
		if _, dup := report.CoderCLIs[src.Key]; !dup {
			report.Order = append(report.Order, src.Key)
		}
		report.CoderCLIs[src.Key] = rec
		if published, ok := rec.PublishTime(); ok && (report.Summary == nil || published.After(newest)) {
			newest = published
			report.Summary = &domain.ReleaseSummary{
				MostRecentPublishedAt: domain.FormatSummaryTime(published),
				Package:               src.Key,
			}
		}
	}
	return report, nil
}

func (uc *AggregateCLIReleasesUseCase) collect(ctx context.Context, src domain.CLISource) domain.CLIRelease {
	log := logger.FromContext(ctx).With("cli", src.Key)
	var rec domain.CLIRelease
	var errs []string

	if src.NPM == "" {
		errs = append(errs, "npm: package not specified")
	} else if rel, err := uc.NpmRepo.LatestRelease(ctx, src.NPM); err != nil {
		log.Warn("npm lookup failed", "package", src.NPM, "err", err)
		errs = append(errs, "npm: "+domain.TruncateDiagnostic(err.Error()))
	} else {
		rec.NPM = rel
	}

	if src.GitHub != "" {
		if rel, err := uc.GithubRepo.LatestRelease(ctx, src.GitHub); err != nil {
			log.Warn("GitHub lookup failed", "repo", src.GitHub, "err", err)
			errs = append(errs, "github: "+domain.TruncateDiagnostic(err.Error()))
		} else {
			rec.GitHub = rel
		}
	}

	if len(errs) > 0 {
		msg := strings.Join(errs, "; ")
		rec.Error = &msg
	}
	return rec
}
