package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	testConfigurationFileNameConstant    = "config.yaml"
	testAnalyzeCommandNameConstant       = "analyze"
	testDeployCommandNameConstant        = "deploy"
	testConfiguredLogLevelConstant       = "debug"
	testConfiguredLogFormatConstant      = "console"
	testConfiguredRemoteNameConstant     = "upstream"
	testConfiguredPromptPathConstant     = "/tmp/custom_prompt.txt"
	testFlagOverrideLogLevelConstant     = "warn"
	quietLogLevelFlagArgumentConstant    = "--log-level=error"
	helpOutputAnalyzeSnippetConstant     = "analyze"
	helpOutputDeploySnippetConstant      = "deploy"
	defaultLogLevelExpectationConstant   = "info"
	defaultLogFormatExpectationConstant  = "structured"
	defaultRemoteNameExpectationConstant = "origin"
)

func writeApplicationConfiguration(testInstance *testing.T, document map[string]any) string {
	testInstance.Helper()

	serializedConfiguration, marshalError := yaml.Marshal(document)
	require.NoError(testInstance, marshalError)

	configurationPath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, serializedConfiguration, 0o644))

	return configurationPath
}

func TestNewApplicationRegistersSubcommands(testInstance *testing.T) {
	application := NewApplication()

	registeredCommandNames := make([]string, 0, len(application.rootCommand.Commands()))
	for _, registeredCommand := range application.rootCommand.Commands() {
		registeredCommandNames = append(registeredCommandNames, registeredCommand.Name())
	}

	require.Contains(testInstance, registeredCommandNames, testAnalyzeCommandNameConstant)
	require.Contains(testInstance, registeredCommandNames, testDeployCommandNameConstant)
}

func TestInitializeConfigurationAppliesDefaults(testInstance *testing.T) {
	application := NewApplication()

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.NoError(testInstance, initializationError)

	require.Equal(testInstance, defaultLogLevelExpectationConstant, application.configuration.Common.LogLevel)
	require.Equal(testInstance, defaultLogFormatExpectationConstant, application.configuration.Common.LogFormat)
	require.Equal(testInstance, defaultRemoteNameExpectationConstant, application.configuration.Tools.Deploy.RemoteName)
}

func TestInitializeConfigurationReadsConfigurationFile(testInstance *testing.T) {
	configurationPath := writeApplicationConfiguration(testInstance, map[string]any{
		"common": map[string]any{
			"log_level":  testConfiguredLogLevelConstant,
			"log_format": testConfiguredLogFormatConstant,
		},
		"tools": map[string]any{
			"analyze": map[string]any{
				"prompt_file": testConfiguredPromptPathConstant,
			},
			"deploy": map[string]any{
				"remote": testConfiguredRemoteNameConstant,
			},
		},
	})

	application := NewApplication()
	application.configurationFilePath = configurationPath

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.NoError(testInstance, initializationError)

	require.Equal(testInstance, testConfiguredLogLevelConstant, application.configuration.Common.LogLevel)
	require.Equal(testInstance, testConfiguredLogFormatConstant, application.configuration.Common.LogFormat)
	require.Equal(testInstance, testConfiguredPromptPathConstant, application.configuration.Tools.Analyze.PromptArtifactPath)
	require.Equal(testInstance, testConfiguredRemoteNameConstant, application.configuration.Tools.Deploy.RemoteName)
	require.Equal(testInstance, configurationPath, application.configurationMetadata.ConfigFileUsed)
	require.True(testInstance, application.humanReadableLoggingEnabled())
}

func TestPersistentFlagOverridesConfiguredLogLevel(testInstance *testing.T) {
	configurationPath := writeApplicationConfiguration(testInstance, map[string]any{
		"common": map[string]any{
			"log_level": testConfiguredLogLevelConstant,
		},
	})

	application := NewApplication()
	application.configurationFilePath = configurationPath

	flagError := application.rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, testFlagOverrideLogLevelConstant)
	require.NoError(testInstance, flagError)

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.NoError(testInstance, initializationError)

	require.Equal(testInstance, testFlagOverrideLogLevelConstant, application.configuration.Common.LogLevel)
}

func TestInitializeConfigurationRejectsUnknownLogLevel(testInstance *testing.T) {
	configurationPath := writeApplicationConfiguration(testInstance, map[string]any{
		"common": map[string]any{
			"log_level": "chatty",
		},
	})

	application := NewApplication()
	application.configurationFilePath = configurationPath

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.Error(testInstance, initializationError)
	require.Contains(testInstance, initializationError.Error(), "unable to create logger")
}

func TestRootCommandWithoutArgumentsPrintsHelp(testInstance *testing.T) {
	application := NewApplication()

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs([]string{quietLogLevelFlagArgumentConstant})

	executionError := application.Execute()
	require.NoError(testInstance, executionError)

	helpOutput := outputBuffer.String()
	require.Contains(testInstance, helpOutput, helpOutputAnalyzeSnippetConstant)
	require.Contains(testInstance, helpOutput, helpOutputDeploySnippetConstant)
}
