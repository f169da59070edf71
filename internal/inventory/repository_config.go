package inventory

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	branchListSeparatorConstant           = ","
	enabledTrueValueConstant              = "true"
	enabledYesValueConstant               = "yes"
	enabledOneValueConstant               = "1"
	gitMetadataDirectoryNameConstant      = ".git"
	pathMissingValidationTemplateConstant = "Repository path does not exist: %s"
	pathNotDirectoryValidationConstant    = "Repository path is not a directory: %s"
	pathNotRepositoryValidationConstant   = "Path is not a git repository: %s"
	branchesMissingValidationConstant     = "No branches specified for repository: %s"
	missingPathFieldValidationConstant    = "missing required 'path' field"
)

// RepositoryConfig identifies one working copy to manage.
type RepositoryConfig struct {
	Path     string
	Branches []string
	Enabled  bool
}

// Name reports the repository's base directory name for display purposes.
func (config RepositoryConfig) Name() string {
	return filepath.Base(config.Path)
}

// Validate checks the configuration against the filesystem and reports every
// problem found. An empty slice means the configuration is usable.
func (config RepositoryConfig) Validate(fileSystem FileSystem) []string {
	var validationErrors []string

	pathInformation, statError := fileSystem.Stat(config.Path)
	switch {
	case statError != nil:
		validationErrors = append(validationErrors, fmt.Sprintf(pathMissingValidationTemplateConstant, config.Path))
	case !pathInformation.IsDir():
		validationErrors = append(validationErrors, fmt.Sprintf(pathNotDirectoryValidationConstant, config.Path))
	default:
		gitMetadataPath := filepath.Join(config.Path, gitMetadataDirectoryNameConstant)
		if _, gitStatError := fileSystem.Stat(gitMetadataPath); gitStatError != nil {
			validationErrors = append(validationErrors, fmt.Sprintf(pathNotRepositoryValidationConstant, config.Path))
		}
	}

	if len(config.Branches) == 0 {
		validationErrors = append(validationErrors, fmt.Sprintf(branchesMissingValidationConstant, config.Path))
	}

	return validationErrors
}

// parseBranchList splits a comma-separated branch declaration, trimming each
// entry and discarding empty ones. Duplicates are preserved in declared order.
func parseBranchList(rawBranches string) []string {
	branchCandidates := strings.Split(rawBranches, branchListSeparatorConstant)
	branches := make([]string, 0, len(branchCandidates))
	for _, branchCandidate := range branchCandidates {
		trimmedBranch := strings.TrimSpace(branchCandidate)
		if len(trimmedBranch) == 0 {
			continue
		}
		branches = append(branches, trimmedBranch)
	}
	return branches
}

// parseEnabledFlag interprets the enabled cell. An explicitly present but
// empty cell counts as enabled, matching the historical file format.
func parseEnabledFlag(rawEnabled string) bool {
	normalizedEnabled := strings.ToLower(strings.TrimSpace(rawEnabled))
	switch normalizedEnabled {
	case enabledTrueValueConstant, enabledYesValueConstant, enabledOneValueConstant, "":
		return true
	default:
		return false
	}
}
