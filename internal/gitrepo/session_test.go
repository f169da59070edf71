package gitrepo_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repoup/internal/gitrepo"
	"github.com/temirov/repoup/internal/ui"
)

type recordedOperation struct {
	name       string
	branchName string
}

type stubRepositoryOperations struct {
	currentBranch      string
	currentBranchError error
	cleanState         bool
	cleanStateError    error
	fetchError         error
	checkoutErrors     map[string]error
	pullError          error
	recordedOperations []recordedOperation
}

func (operations *stubRepositoryOperations) CurrentBranch(_ context.Context, _ string) (string, error) {
	operations.recordedOperations = append(operations.recordedOperations, recordedOperation{name: "current-branch"})
	return operations.currentBranch, operations.currentBranchError
}

func (operations *stubRepositoryOperations) CheckCleanWorktree(_ context.Context, _ string) (bool, error) {
	operations.recordedOperations = append(operations.recordedOperations, recordedOperation{name: "status"})
	return operations.cleanState, operations.cleanStateError
}

func (operations *stubRepositoryOperations) FetchAllRemotes(_ context.Context, _ string) error {
	operations.recordedOperations = append(operations.recordedOperations, recordedOperation{name: "fetch"})
	return operations.fetchError
}

func (operations *stubRepositoryOperations) CheckoutBranch(_ context.Context, _ string, branchName string) error {
	operations.recordedOperations = append(operations.recordedOperations, recordedOperation{name: "checkout", branchName: branchName})
	if operations.checkoutErrors == nil {
		return nil
	}
	return operations.checkoutErrors[branchName]
}

func (operations *stubRepositoryOperations) PullFastForward(_ context.Context, _ string) error {
	operations.recordedOperations = append(operations.recordedOperations, recordedOperation{name: "pull"})
	return operations.pullError
}

func newTestConsole() (*ui.ConsoleLogger, *bytes.Buffer, *bytes.Buffer) {
	outputBuffer := &bytes.Buffer{}
	errorBuffer := &bytes.Buffer{}
	return ui.NewConsoleLogger(outputBuffer, errorBuffer, false), outputBuffer, errorBuffer
}

func TestOpenRepositorySessionValidatesInputs(testInstance *testing.T) {
	console, _, _ := newTestConsole()

	_, missingOperationsError := gitrepo.OpenRepositorySession(context.Background(), nil, console, testRepositoryPathConstant)
	require.ErrorIs(testInstance, missingOperationsError, gitrepo.ErrRepositoryOperationsNotConfigured)

	_, missingPathError := gitrepo.OpenRepositorySession(context.Background(), &stubRepositoryOperations{}, console, "  ")
	require.ErrorIs(testInstance, missingPathError, gitrepo.ErrRepositoryPathRequired)
}

func TestSessionCloseRestoresOriginalBranch(testInstance *testing.T) {
	operations := &stubRepositoryOperations{currentBranch: "main\n"}
	console, _, _ := newTestConsole()

	session, openError := gitrepo.OpenRepositorySession(context.Background(), operations, console, testRepositoryPathConstant)
	require.NoError(testInstance, openError)

	session.Checkout(context.Background(), "develop")
	session.Close(context.Background())

	require.Equal(testInstance, []recordedOperation{
		{name: "current-branch"},
		{name: "checkout", branchName: "develop"},
		{name: "checkout", branchName: "main"},
	}, operations.recordedOperations)
}

func TestSessionCloseSkipsRestorationWhenBranchUnknown(testInstance *testing.T) {
	operations := &stubRepositoryOperations{currentBranchError: errors.New("detached head query failed")}
	console, _, errorBuffer := newTestConsole()

	session, openError := gitrepo.OpenRepositorySession(context.Background(), operations, console, testRepositoryPathConstant)
	require.NoError(testInstance, openError)

	session.Close(context.Background())

	require.Equal(testInstance, []recordedOperation{{name: "current-branch"}}, operations.recordedOperations)
	require.Empty(testInstance, errorBuffer.String())
}

func TestSessionCloseWarnsWhenRestorationFails(testInstance *testing.T) {
	operations := &stubRepositoryOperations{
		currentBranch:  "main",
		checkoutErrors: map[string]error{"main": errors.New("checkout refused")},
	}
	console, outputBuffer, _ := newTestConsole()

	session, openError := gitrepo.OpenRepositorySession(context.Background(), operations, console, testRepositoryPathConstant)
	require.NoError(testInstance, openError)

	session.Close(context.Background())

	require.Contains(testInstance, outputBuffer.String(), "Could not restore original branch: main")
}

func TestSessionCloseRestoresDespiteCancelledContext(testInstance *testing.T) {
	operations := &stubRepositoryOperations{currentBranch: "main"}
	console, _, _ := newTestConsole()

	openContext, cancelOpenContext := context.WithCancel(context.Background())
	session, openError := gitrepo.OpenRepositorySession(openContext, operations, console, testRepositoryPathConstant)
	require.NoError(testInstance, openError)

	cancelOpenContext()
	session.Close(openContext)

	require.Equal(testInstance, recordedOperation{name: "checkout", branchName: "main"}, operations.recordedOperations[len(operations.recordedOperations)-1])
}

func TestHasUncommittedChangesTreatsFailuresAsDirty(testInstance *testing.T) {
	testCases := []struct {
		name          string
		cleanState    bool
		statusError   error
		expectedDirty bool
	}{
		{name: "clean_tree", cleanState: true, expectedDirty: false},
		{name: "dirty_tree", cleanState: false, expectedDirty: true},
		{name: "status_failure", cleanState: true, statusError: errors.New("status failed"), expectedDirty: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			operations := &stubRepositoryOperations{currentBranch: "main", cleanState: testCase.cleanState, cleanStateError: testCase.statusError}
			console, _, _ := newTestConsole()

			session, openError := gitrepo.OpenRepositorySession(context.Background(), operations, console, testRepositoryPathConstant)
			require.NoError(testInstance, openError)

			require.Equal(testInstance, testCase.expectedDirty, session.HasUncommittedChanges(context.Background()))
		})
	}
}

func TestSessionOperationsReportFailuresOnErrorStream(testInstance *testing.T) {
	testCases := []struct {
		name            string
		operations      *stubRepositoryOperations
		invoke          func(session *gitrepo.RepositorySession) bool
		expectedMessage string
	}{
		{
			name:       "fetch_failure",
			operations: &stubRepositoryOperations{currentBranch: "main", fetchError: errors.New("remote unreachable")},
			invoke: func(session *gitrepo.RepositorySession) bool {
				return session.FetchAll(context.Background())
			},
			expectedMessage: "Fetch failed",
		},
		{
			name:       "checkout_failure",
			operations: &stubRepositoryOperations{currentBranch: "main", checkoutErrors: map[string]error{"develop": errors.New("pathspec mismatch")}},
			invoke: func(session *gitrepo.RepositorySession) bool {
				return session.Checkout(context.Background(), "develop")
			},
			expectedMessage: "Checkout failed for branch 'develop'",
		},
		{
			name:       "pull_failure",
			operations: &stubRepositoryOperations{currentBranch: "main", pullError: errors.New("non fast-forward")},
			invoke: func(session *gitrepo.RepositorySession) bool {
				return session.Pull(context.Background())
			},
			expectedMessage: "Pull failed",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			console, _, errorBuffer := newTestConsole()
			session, openError := gitrepo.OpenRepositorySession(context.Background(), testCase.operations, console, testRepositoryPathConstant)
			require.NoError(testInstance, openError)

			require.False(testInstance, testCase.invoke(session))
			require.Contains(testInstance, errorBuffer.String(), testCase.expectedMessage)
		})
	}
}

func TestSessionOperationsSucceedSilently(testInstance *testing.T) {
	operations := &stubRepositoryOperations{currentBranch: "main", cleanState: true}
	console, _, errorBuffer := newTestConsole()

	session, openError := gitrepo.OpenRepositorySession(context.Background(), operations, console, testRepositoryPathConstant)
	require.NoError(testInstance, openError)

	require.True(testInstance, session.FetchAll(context.Background()))
	require.True(testInstance, session.Checkout(context.Background(), "develop"))
	require.True(testInstance, session.Pull(context.Background()))
	require.Empty(testInstance, errorBuffer.String())
	require.Equal(testInstance, testRepositoryPathConstant, session.Path())
}
