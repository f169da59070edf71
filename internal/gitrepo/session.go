package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/repoup/internal/ui"
)

const (
	repositoryOperationsMissingMessageConstant = "repository operations not configured"
	repositoryPathRequiredMessageConstant      = "repository path must be provided"
	fetchFailedMessageTemplateConstant         = "Fetch failed: %v"
	checkoutFailedMessageTemplateConstant      = "Checkout failed for branch '%s': %v"
	pullFailedMessageTemplateConstant          = "Pull failed: %v"
	restoreFailedMessageTemplateConstant       = "Could not restore original branch: %s"
)

// ErrRepositoryOperationsNotConfigured indicates the repository operations dependency was missing.
var ErrRepositoryOperationsNotConfigured = errors.New(repositoryOperationsMissingMessageConstant)

// ErrRepositoryPathRequired indicates the repository path was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// RepositoryOperations enumerates the git operations a session is built on.
type RepositoryOperations interface {
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	FetchAllRemotes(executionContext context.Context, repositoryPath string) error
	CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error
	PullFastForward(executionContext context.Context, repositoryPath string) error
}

// RepositorySession scopes git operations to one working copy. The branch
// checked out when the session opens is restored when the session closes.
type RepositorySession struct {
	operations     RepositoryOperations
	console        *ui.ConsoleLogger
	repositoryPath string
	originalBranch string
}

// OpenRepositorySession records the currently checked-out branch and returns a
// session bound to repositoryPath. A failing branch query does not prevent the
// session from opening; restoration on Close becomes a no-op in that case.
func OpenRepositorySession(executionContext context.Context, operations RepositoryOperations, console *ui.ConsoleLogger, repositoryPath string) (*RepositorySession, error) {
	if operations == nil {
		return nil, ErrRepositoryOperationsNotConfigured
	}

	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return nil, ErrRepositoryPathRequired
	}

	if console == nil {
		console = ui.NewConsoleLogger(io.Discard, io.Discard, false)
	}

	session := &RepositorySession{
		operations:     operations,
		console:        console,
		repositoryPath: trimmedRepositoryPath,
	}

	originalBranch, branchError := operations.CurrentBranch(executionContext, trimmedRepositoryPath)
	if branchError == nil {
		session.originalBranch = strings.TrimSpace(originalBranch)
	}

	return session, nil
}

// Path reports the working copy the session is bound to.
func (session *RepositorySession) Path() string {
	return session.repositoryPath
}

// HasUncommittedChanges reports whether the working copy is dirty. Unknown
// state counts as dirty so a failing status query never risks local changes.
func (session *RepositorySession) HasUncommittedChanges(executionContext context.Context) bool {
	clean, statusError := session.operations.CheckCleanWorktree(executionContext, session.repositoryPath)
	if statusError != nil {
		return true
	}
	return !clean
}

// FetchAll downloads refs from every remote, reporting failure instead of propagating it.
func (session *RepositorySession) FetchAll(executionContext context.Context) bool {
	fetchError := session.operations.FetchAllRemotes(executionContext, session.repositoryPath)
	if fetchError != nil {
		session.console.Error(fmt.Sprintf(fetchFailedMessageTemplateConstant, fetchError))
		return false
	}
	return true
}

// Checkout switches the working copy to the named branch, reporting failure instead of propagating it.
func (session *RepositorySession) Checkout(executionContext context.Context, branchName string) bool {
	checkoutError := session.operations.CheckoutBranch(executionContext, session.repositoryPath, branchName)
	if checkoutError != nil {
		session.console.Error(fmt.Sprintf(checkoutFailedMessageTemplateConstant, branchName, checkoutError))
		return false
	}
	return true
}

// Pull fast-forwards the checked-out branch, reporting failure instead of propagating it.
func (session *RepositorySession) Pull(executionContext context.Context) bool {
	pullError := session.operations.PullFastForward(executionContext, session.repositoryPath)
	if pullError != nil {
		session.console.Error(fmt.Sprintf(pullFailedMessageTemplateConstant, pullError))
		return false
	}
	return true
}

// Close restores the branch recorded when the session opened. Restoration
// proceeds even when the surrounding run was cancelled, and failures surface
// only as a warning; Close never returns an error.
func (session *RepositorySession) Close(executionContext context.Context) {
	if len(session.originalBranch) == 0 {
		return
	}

	restorationContext := context.WithoutCancel(executionContext)
	restoreError := session.operations.CheckoutBranch(restorationContext, session.repositoryPath, session.originalBranch)
	if restoreError != nil {
		session.console.Warning(fmt.Sprintf(restoreFailedMessageTemplateConstant, session.originalBranch))
	}
}
