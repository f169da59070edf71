package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repoup/internal/utils"
)

const contextConfigurationPathConstant = "/etc/repoup/config.yaml"

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, available := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, available)

	enrichedContext := accessor.WithConfigurationFilePath(context.Background(), contextConfigurationPathConstant)
	storedPath, available := accessor.ConfigurationFilePath(enrichedContext)
	require.True(testInstance, available)
	require.Equal(testInstance, contextConfigurationPathConstant, storedPath)
}

func TestCommandContextAccessorToleratesMissingContext(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	var missingContext context.Context
	_, available := accessor.ConfigurationFilePath(missingContext)
	require.False(testInstance, available)

	enrichedContext := accessor.WithConfigurationFilePath(missingContext, contextConfigurationPathConstant)
	storedPath, available := accessor.ConfigurationFilePath(enrichedContext)
	require.True(testInstance, available)
	require.Equal(testInstance, contextConfigurationPathConstant, storedPath)
}
