package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"go.uber.org/zap"

	"github.com/temirov/repoup/internal/inventory"
	"github.com/temirov/repoup/internal/ui"
)

const (
	sessionFactoryMissingMessageConstant     = "session factory not configured"
	interruptedMessageConstant               = "interrupted by user"
	processingMessageTemplateConstant        = "Processing: %s"
	dryRunBranchMessageTemplateConstant      = "  Would update branch: %s"
	dryRunOutcomeMessageConstant             = "[DRY RUN] Would update"
	uncommittedChangesSkipMessageConstant    = "  Repository has uncommitted changes, skipping"
	uncommittedChangesOutcomeMessageConstant = "Uncommitted changes present"
	fetchingRemotesMessageConstant           = "  Fetching remotes..."
	fetchFailedOutcomeMessageConstant        = "Failed to fetch remotes"
	updatingBranchMessageTemplateConstant    = "  Updating branch: %s"
	branchUpdatedMessageTemplateConstant     = "    %s: Updated successfully"
	branchFailedMessageTemplateConstant      = "    %s: %s"
	sessionOpenFailedOutcomeMessageConstant  = "Failed to open repository session"
	checkoutFailedOutcomeTemplateConstant    = "Failed to checkout branch '%s'"
	pullFailedOutcomeTemplateConstant        = "Failed to pull branch '%s'"
	branchUpdatedOutcomeTemplateConstant     = "Successfully updated '%s'"
	repositoryUpdatedLogMessageConstant      = "repository processed"
	logFieldRepositoryPathConstant           = "repository_path"
	logFieldBranchCountConstant              = "branch_count"
	logFieldDryRunConstant                   = "dry_run"
)

// ErrSessionFactoryNotConfigured indicates the session factory dependency was missing.
var ErrSessionFactoryNotConfigured = errors.New(sessionFactoryMissingMessageConstant)

// ErrInterrupted reports that the run stopped early because the surrounding
// context was cancelled. Outcomes gathered before the interrupt are partial
// and are not summarized.
var ErrInterrupted = errors.New(interruptedMessageConstant)

// RepositorySession enumerates the scoped working-copy operations the update
// pipeline is built on. gitrepo.RepositorySession satisfies this interface.
type RepositorySession interface {
	HasUncommittedChanges(executionContext context.Context) bool
	FetchAll(executionContext context.Context) bool
	Checkout(executionContext context.Context, branchName string) bool
	Pull(executionContext context.Context) bool
	Close(executionContext context.Context)
}

// SessionFactory opens a repository session bound to the provided path.
type SessionFactory func(executionContext context.Context, repositoryPath string) (RepositorySession, error)

// Dependencies enumerates the collaborators the update service requires.
type Dependencies struct {
	Console        *ui.ConsoleLogger
	Logger         *zap.Logger
	SessionFactory SessionFactory
}

// Service coordinates batch repository updates.
type Service struct {
	console        *ui.ConsoleLogger
	logger         *zap.Logger
	sessionFactory SessionFactory
}

// NewService constructs a Service from the provided dependencies. The console
// and logger are optional; the session factory is not.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.SessionFactory == nil {
		return nil, ErrSessionFactoryNotConfigured
	}

	console := dependencies.Console
	if console == nil {
		console = ui.NewConsoleLogger(io.Discard, io.Discard, false)
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{console: console, logger: logger, sessionFactory: dependencies.SessionFactory}, nil
}

// Run processes every repository configuration in sequence order, collecting
// one outcome per requested branch. It reports how many repositories were
// processed and stops with ErrInterrupted once the context is cancelled,
// without aborting the repository in flight beyond its next branch boundary.
func (service *Service) Run(executionContext context.Context, repositories iter.Seq[inventory.RepositoryConfig], dryRun bool) ([]BranchOutcome, int, error) {
	var collectedOutcomes []BranchOutcome
	processedCount := 0

	for repositoryConfig := range repositories {
		if executionContext.Err() != nil {
			return collectedOutcomes, processedCount, ErrInterrupted
		}

		processedCount++
		repositoryOutcomes, repositoryError := service.UpdateRepository(executionContext, repositoryConfig, dryRun)
		collectedOutcomes = append(collectedOutcomes, repositoryOutcomes...)
		service.console.Newline()

		if repositoryError != nil {
			return collectedOutcomes, processedCount, repositoryError
		}
	}

	return collectedOutcomes, processedCount, nil
}

// UpdateRepository updates every requested branch of one repository,
// producing exactly one outcome per branch. The returned error is nil unless
// the context was cancelled mid-repository.
func (service *Service) UpdateRepository(executionContext context.Context, repositoryConfig inventory.RepositoryConfig, dryRun bool) ([]BranchOutcome, error) {
	service.console.Info(fmt.Sprintf(processingMessageTemplateConstant, repositoryConfig.Path))
	service.logger.Debug(
		repositoryUpdatedLogMessageConstant,
		zap.String(logFieldRepositoryPathConstant, repositoryConfig.Path),
		zap.Int(logFieldBranchCountConstant, len(repositoryConfig.Branches)),
		zap.Bool(logFieldDryRunConstant, dryRun),
	)

	if dryRun {
		outcomes := make([]BranchOutcome, 0, len(repositoryConfig.Branches))
		for _, branchName := range repositoryConfig.Branches {
			service.console.Dim(fmt.Sprintf(dryRunBranchMessageTemplateConstant, branchName))
			outcomes = append(outcomes, NewSuccessOutcome(repositoryConfig.Path, branchName, dryRunOutcomeMessageConstant))
		}
		return outcomes, nil
	}

	session, sessionError := service.sessionFactory(executionContext, repositoryConfig.Path)
	if sessionError != nil {
		return failEveryBranch(repositoryConfig, sessionOpenFailedOutcomeMessageConstant), nil
	}
	defer session.Close(executionContext)

	if session.HasUncommittedChanges(executionContext) {
		service.console.Warning(uncommittedChangesSkipMessageConstant)
		return failEveryBranch(repositoryConfig, uncommittedChangesOutcomeMessageConstant), nil
	}

	service.console.Dim(fetchingRemotesMessageConstant)
	if !session.FetchAll(executionContext) {
		return failEveryBranch(repositoryConfig, fetchFailedOutcomeMessageConstant), nil
	}

	outcomes := make([]BranchOutcome, 0, len(repositoryConfig.Branches))
	for _, branchName := range repositoryConfig.Branches {
		if executionContext.Err() != nil {
			return outcomes, ErrInterrupted
		}

		service.console.Dim(fmt.Sprintf(updatingBranchMessageTemplateConstant, branchName))
		branchOutcome := service.updateBranch(executionContext, session, repositoryConfig.Path, branchName)
		outcomes = append(outcomes, branchOutcome)

		if branchOutcome.Succeeded {
			service.console.Success(fmt.Sprintf(branchUpdatedMessageTemplateConstant, branchName))
		} else {
			service.console.Error(fmt.Sprintf(branchFailedMessageTemplateConstant, branchName, branchOutcome.Message))
		}
	}

	return outcomes, nil
}

// updateBranch performs checkout-then-pull for one branch, reducing the two
// failure points and the success path into a single outcome.
func (service *Service) updateBranch(executionContext context.Context, session RepositorySession, repositoryPath string, branchName string) BranchOutcome {
	if !session.Checkout(executionContext, branchName) {
		return NewFailureOutcome(repositoryPath, branchName, fmt.Sprintf(checkoutFailedOutcomeTemplateConstant, branchName))
	}

	if !session.Pull(executionContext) {
		return NewFailureOutcome(repositoryPath, branchName, fmt.Sprintf(pullFailedOutcomeTemplateConstant, branchName))
	}

	return NewSuccessOutcome(repositoryPath, branchName, fmt.Sprintf(branchUpdatedOutcomeTemplateConstant, branchName))
}

func failEveryBranch(repositoryConfig inventory.RepositoryConfig, failureMessage string) []BranchOutcome {
	outcomes := make([]BranchOutcome, 0, len(repositoryConfig.Branches))
	for _, branchName := range repositoryConfig.Branches {
		outcomes = append(outcomes, NewFailureOutcome(repositoryConfig.Path, branchName, failureMessage))
	}
	return outcomes
}
