package mock

import (
	"context"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

var _ scraper.RunService = (*RunService)(nil)

// RunService is a mock implementation of scraper.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *scraper.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*scraper.Run, error)
	FindRunsFn    func(ctx context.Context, filter scraper.RunFilter) ([]*scraper.Run, error)
	DeleteRunFn   func(ctx context.Context, id string) error
}

func (s *RunService) CreateRun(ctx context.Context, run *scraper.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*scraper.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter scraper.RunFilter) ([]*scraper.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}
