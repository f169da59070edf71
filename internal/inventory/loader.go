package inventory

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/temirov/repoup/internal/ui"
)

const (
	pathColumnNameConstant                  = "path"
	branchesColumnNameConstant              = "branches"
	enabledColumnNameConstant               = "enabled"
	columnAbsentIndexConstant               = -1
	headerRowNumberConstant                 = 1
	fileNotFoundErrorTemplateConstant       = "configuration file not found: %s"
	fileNotRegularErrorTemplateConstant     = "configuration path is not a file: %s"
	fileReadErrorTemplateConstant           = "failed to read configuration file %s: %w"
	fileParseErrorTemplateConstant          = "failed to parse configuration file %s: %w"
	emptyFileErrorTemplateConstant          = "configuration file %s is empty or has no header row"
	missingColumnsErrorTemplateConstant     = "configuration file %s missing required columns: %s"
	missingColumnsJoinSeparatorConstant     = ", "
	rowWarningTemplateConstant              = "Row %d: %s"
	skippingDisabledMessageTemplateConstant = "Skipping disabled repository: %s"
)

// Loader reads repository configurations from CSV files.
type Loader struct {
	fileSystem FileSystem
	console    *ui.ConsoleLogger
}

// NewLoader constructs a Loader. A nil filesystem selects the OS-backed
// default; a nil console discards row-level diagnostics.
func NewLoader(fileSystem FileSystem, console *ui.ConsoleLogger) *Loader {
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}
	if console == nil {
		console = ui.NewConsoleLogger(io.Discard, io.Discard, false)
	}
	return &Loader{fileSystem: fileSystem, console: console}
}

type columnLayout struct {
	pathIndex     int
	branchesIndex int
	enabledIndex  int
}

// LoadRepositories parses the CSV file and returns a restartable sequence of
// repository configurations in file order. Header problems abort loading with
// an error; unusable rows are warned about during iteration and skipped.
// Consumers may stop iterating early without exhausting the sequence.
func (loader *Loader) LoadRepositories(configurationFilePath string) (iter.Seq[RepositoryConfig], error) {
	records, layout, loadError := loader.readRecords(configurationFilePath)
	if loadError != nil {
		return nil, loadError
	}

	return func(yield func(RepositoryConfig) bool) {
		for recordIndex, record := range records {
			rowNumber := recordIndex + headerRowNumberConstant + 1
			repositoryConfig, rowError := parseRecord(record, layout)
			if rowError != nil {
				loader.console.Warning(fmt.Sprintf(rowWarningTemplateConstant, rowNumber, rowError))
				continue
			}
			if !yield(repositoryConfig) {
				return
			}
		}
	}, nil
}

// EnabledRepositories wraps LoadRepositories, filtering out disabled rows and
// rows that fail filesystem validation. Validation failures are warned about;
// disabled rows are noted dimly.
func (loader *Loader) EnabledRepositories(configurationFilePath string) (iter.Seq[RepositoryConfig], error) {
	repositories, loadError := loader.LoadRepositories(configurationFilePath)
	if loadError != nil {
		return nil, loadError
	}

	return func(yield func(RepositoryConfig) bool) {
		for repositoryConfig := range repositories {
			if !repositoryConfig.Enabled {
				loader.console.Dim(fmt.Sprintf(skippingDisabledMessageTemplateConstant, repositoryConfig.Path))
				continue
			}

			validationErrors := repositoryConfig.Validate(loader.fileSystem)
			if len(validationErrors) > 0 {
				for _, validationError := range validationErrors {
					loader.console.Warning(validationError)
				}
				continue
			}

			if !yield(repositoryConfig) {
				return
			}
		}
	}, nil
}

// CountRepositories reports how many rows the file declares and how many of
// them are enabled and valid.
func (loader *Loader) CountRepositories(configurationFilePath string) (int, int, error) {
	repositories, loadError := loader.LoadRepositories(configurationFilePath)
	if loadError != nil {
		return 0, 0, loadError
	}

	totalCount := 0
	enabledCount := 0
	for repositoryConfig := range repositories {
		totalCount++
		if repositoryConfig.Enabled && len(repositoryConfig.Validate(loader.fileSystem)) == 0 {
			enabledCount++
		}
	}

	return totalCount, enabledCount, nil
}

func (loader *Loader) readRecords(configurationFilePath string) ([][]string, columnLayout, error) {
	pathInformation, statError := loader.fileSystem.Stat(configurationFilePath)
	if statError != nil {
		return nil, columnLayout{}, fmt.Errorf(fileNotFoundErrorTemplateConstant, configurationFilePath)
	}
	if pathInformation.IsDir() {
		return nil, columnLayout{}, fmt.Errorf(fileNotRegularErrorTemplateConstant, configurationFilePath)
	}

	fileContents, readError := loader.fileSystem.ReadFile(configurationFilePath)
	if readError != nil {
		return nil, columnLayout{}, fmt.Errorf(fileReadErrorTemplateConstant, configurationFilePath, readError)
	}

	csvReader := csv.NewReader(bytes.NewReader(fileContents))
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	allRecords, parseError := csvReader.ReadAll()
	if parseError != nil {
		return nil, columnLayout{}, fmt.Errorf(fileParseErrorTemplateConstant, configurationFilePath, parseError)
	}
	if len(allRecords) == 0 {
		return nil, columnLayout{}, fmt.Errorf(emptyFileErrorTemplateConstant, configurationFilePath)
	}

	layout, layoutError := resolveColumnLayout(allRecords[0], configurationFilePath)
	if layoutError != nil {
		return nil, columnLayout{}, layoutError
	}

	return allRecords[1:], layout, nil
}

func resolveColumnLayout(headerRecord []string, configurationFilePath string) (columnLayout, error) {
	layout := columnLayout{
		pathIndex:     columnAbsentIndexConstant,
		branchesIndex: columnAbsentIndexConstant,
		enabledIndex:  columnAbsentIndexConstant,
	}

	for columnIndex, columnName := range headerRecord {
		switch strings.ToLower(strings.TrimSpace(columnName)) {
		case pathColumnNameConstant:
			layout.pathIndex = columnIndex
		case branchesColumnNameConstant:
			layout.branchesIndex = columnIndex
		case enabledColumnNameConstant:
			layout.enabledIndex = columnIndex
		}
	}

	var missingColumns []string
	if layout.pathIndex == columnAbsentIndexConstant {
		missingColumns = append(missingColumns, pathColumnNameConstant)
	}
	if layout.branchesIndex == columnAbsentIndexConstant {
		missingColumns = append(missingColumns, branchesColumnNameConstant)
	}
	if len(missingColumns) > 0 {
		return columnLayout{}, fmt.Errorf(missingColumnsErrorTemplateConstant, configurationFilePath, strings.Join(missingColumns, missingColumnsJoinSeparatorConstant))
	}

	return layout, nil
}

func parseRecord(record []string, layout columnLayout) (RepositoryConfig, error) {
	repositoryPath := strings.TrimSpace(fieldAt(record, layout.pathIndex))
	if len(repositoryPath) == 0 {
		return RepositoryConfig{}, errors.New(missingPathFieldValidationConstant)
	}

	branches := parseBranchList(fieldAt(record, layout.branchesIndex))

	enabled := true
	if layout.enabledIndex != columnAbsentIndexConstant && layout.enabledIndex < len(record) {
		enabled = parseEnabledFlag(record[layout.enabledIndex])
	}

	return RepositoryConfig{Path: repositoryPath, Branches: branches, Enabled: enabled}, nil
}

func fieldAt(record []string, columnIndex int) string {
	if columnIndex == columnAbsentIndexConstant || columnIndex >= len(record) {
		return ""
	}
	return record[columnIndex]
}
