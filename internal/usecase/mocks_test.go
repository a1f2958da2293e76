package usecase

import (
	"context"

	"github.com/strongdm/leash-release/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockGitRepository struct {
	mock.Mock
}

func (m *mockGitRepository) CurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) ShortCommit(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) TagsAtHead(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]string)
	return tags, args.Error(1)
}

func (m *mockGitRepository) IsDirty(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// onState stubs the three state queries with successful answers.
func (m *mockGitRepository) onState(branch, commit string, dirty bool) *mockGitRepository {
	m.On("CurrentBranch", mock.Anything).Return(branch, nil)
	m.On("ShortCommit", mock.Anything).Return(commit, nil)
	m.On("IsDirty", mock.Anything).Return(dirty, nil)
	return m
}

type mockNpmService struct {
	mock.Mock
}

func (m *mockNpmService) Pack(ctx context.Context, stageDir, destDir string) ([]byte, error) {
	args := m.Called(ctx, stageDir, destDir)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}

type mockNpmRegistryRepository struct {
	mock.Mock
}

func (m *mockNpmRegistryRepository) LatestRelease(ctx context.Context, pkg string) (*domain.NpmRelease, error) {
	args := m.Called(ctx, pkg)
	rel, _ := args.Get(0).(*domain.NpmRelease)
	return rel, args.Error(1)
}

type mockGithubReleaseRepository struct {
	mock.Mock
}

func (m *mockGithubReleaseRepository) LatestRelease(ctx context.Context, ownerRepo string) (*domain.GithubRelease, error) {
	args := m.Called(ctx, ownerRepo)
	rel, _ := args.Get(0).(*domain.GithubRelease)
	return rel, args.Error(1)
}

func strPtr(s string) *string {
	return &s
}
