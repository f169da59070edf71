package update

// BranchOutcome records the result of attempting to update one
// (repository, branch) pair. Outcomes are created once and never mutated.
type BranchOutcome struct {
	RepositoryPath string
	BranchName     string
	Succeeded      bool
	Message        string
}

// NewSuccessOutcome creates a successful branch outcome.
func NewSuccessOutcome(repositoryPath string, branchName string, message string) BranchOutcome {
	return BranchOutcome{RepositoryPath: repositoryPath, BranchName: branchName, Succeeded: true, Message: message}
}

// NewFailureOutcome creates a failed branch outcome.
func NewFailureOutcome(repositoryPath string, branchName string, message string) BranchOutcome {
	return BranchOutcome{RepositoryPath: repositoryPath, BranchName: branchName, Succeeded: false, Message: message}
}
