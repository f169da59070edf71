package utils_test

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/repoup/internal/utils"
)

const loggerTestMessageConstant = "logger_factory_message"

// captureStandardError runs action while os.Stderr is redirected to a pipe
// and returns everything written. The logger must be built inside action
// because zap resolves its stderr sink when the logger is created.
func captureStandardError(testInstance *testing.T, action func()) string {
	testInstance.Helper()

	pipeReader, pipeWriter, pipeError := os.Pipe()
	require.NoError(testInstance, pipeError)

	originalStandardError := os.Stderr
	os.Stderr = pipeWriter
	defer func() {
		os.Stderr = originalStandardError
	}()

	action()

	os.Stderr = originalStandardError
	require.NoError(testInstance, pipeWriter.Close())

	capturedOutput, readError := io.ReadAll(pipeReader)
	require.NoError(testInstance, readError)
	require.NoError(testInstance, pipeReader.Close())

	return string(capturedOutput)
}

func TestCreateLoggerEncodesByFormat(testInstance *testing.T) {
	testCases := []struct {
		name            string
		requestedLevel  utils.LogLevel
		requestedFormat utils.LogFormat
		expectJSON      bool
	}{
		{
			name:            "structured_format_emits_json",
			requestedLevel:  utils.LogLevelInfo,
			requestedFormat: utils.LogFormatStructured,
			expectJSON:      true,
		},
		{
			name:            "console_format_emits_text",
			requestedLevel:  utils.LogLevelInfo,
			requestedFormat: utils.LogFormatConsole,
			expectJSON:      false,
		},
		{
			name:            "names_match_case_insensitively",
			requestedLevel:  utils.LogLevel("INFO"),
			requestedFormat: utils.LogFormat(" Structured "),
			expectJSON:      true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			var logger *zap.Logger
			var creationError error

			capturedOutput := captureStandardError(subTest, func() {
				logger, creationError = utils.NewLoggerFactory().CreateLogger(testCase.requestedLevel, testCase.requestedFormat)
				if creationError != nil {
					return
				}
				logger.Info(loggerTestMessageConstant)
				if syncError := logger.Sync(); syncError != nil {
					require.True(subTest, errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL))
				}
			})

			require.NoError(subTest, creationError)
			trimmedOutput := strings.TrimSpace(capturedOutput)
			require.Contains(subTest, trimmedOutput, loggerTestMessageConstant)
			require.Equal(subTest, testCase.expectJSON, json.Valid([]byte(trimmedOutput)))
		})
	}
}

func TestCreateLoggerHonorsMinimumLevel(testInstance *testing.T) {
	capturedOutput := captureStandardError(testInstance, func() {
		logger, creationError := utils.NewLoggerFactory().CreateLogger(utils.LogLevelError, utils.LogFormatStructured)
		require.NoError(testInstance, creationError)
		logger.Info(loggerTestMessageConstant)
	})

	require.Empty(testInstance, strings.TrimSpace(capturedOutput))
}

func TestCreateLoggerRejectsUnknownNames(testInstance *testing.T) {
	testCases := []struct {
		name            string
		requestedLevel  utils.LogLevel
		requestedFormat utils.LogFormat
		expectedFailure string
	}{
		{
			name:            "unknown_level",
			requestedLevel:  utils.LogLevel("verbose"),
			requestedFormat: utils.LogFormatStructured,
			expectedFailure: `unknown log level "verbose"`,
		},
		{
			name:            "unknown_format",
			requestedLevel:  utils.LogLevelInfo,
			requestedFormat: utils.LogFormat("xml"),
			expectedFailure: `unknown log format "xml"`,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			logger, creationError := utils.NewLoggerFactory().CreateLogger(testCase.requestedLevel, testCase.requestedFormat)

			require.Nil(subTest, logger)
			require.EqualError(subTest, creationError, testCase.expectedFailure)
		})
	}
}
