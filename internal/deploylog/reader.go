package deploylog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	logFileGlobPatternConstant = "Deployment_*.txt"

	directoryNotFoundMessageConstant = "deploylog: no deployment log directory found"
	noLogFilesMessageConstant        = "deploylog: no deployment log files found"
	readerLoggerMissingConstant      = "deploylog: logger not configured"

	noLogFilesRemediationTemplateConstant = "no deployment log files matching %s in %s; run the deployment log generator before deploying"
	selectedLogFileMessageConstant        = "Using deployment log"
	logFileLogFieldConstant               = "log_file"
	logDirectoryLogFieldConstant          = "log_directory"
)

var (
	// ErrLogDirectoryNotFound indicates none of the candidate directories exist.
	ErrLogDirectoryNotFound = errors.New(directoryNotFoundMessageConstant)
	// ErrNoDeploymentFiles indicates the located directory holds no log files.
	ErrNoDeploymentFiles = errors.New(noLogFilesMessageConstant)
	// ErrLoggerNotConfigured indicates a Reader was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(readerLoggerMissingConstant)
)

// candidateDirectoryNames lists the casing variants a deployment log folder
// is known to appear under.
var candidateDirectoryNames = []string{"DeploymentLogs", "deploymentLogs", "deploymentlogs"}

// Reader locates the freshest deployment log file and parses its fields.
type Reader struct {
	logger             *zap.Logger
	additionalSearches []string
}

// NewReader constructs a Reader. Additional search directories, when
// provided, are consulted before the conventional candidates.
func NewReader(logger *zap.Logger, additionalSearchDirectories []string) (*Reader, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	return &Reader{logger: logger, additionalSearches: append([]string{}, additionalSearchDirectories...)}, nil
}

// LocateLogDirectory returns the first existing deployment log directory,
// checking configured directories first and then every casing variant under
// the repository root, the working directory, and the working directory's
// parent.
func (reader *Reader) LocateLogDirectory(repositoryRoot string, workingDirectory string) (string, error) {
	candidateDirectories := append([]string{}, reader.additionalSearches...)
	for _, baseDirectory := range []string{repositoryRoot, workingDirectory, filepath.Dir(workingDirectory)} {
		if len(baseDirectory) == 0 {
			continue
		}
		for _, directoryName := range candidateDirectoryNames {
			candidateDirectories = append(candidateDirectories, filepath.Join(baseDirectory, directoryName))
		}
	}

	for _, candidateDirectory := range candidateDirectories {
		directoryInformation, statError := os.Stat(candidateDirectory)
		if statError != nil || !directoryInformation.IsDir() {
			continue
		}
		return candidateDirectory, nil
	}

	return "", ErrLogDirectoryNotFound
}

// FindLatestLogFile returns the deployment log file with the most recent
// modification time inside logDirectory. Absence of any matching file is an
// actionable error since the log generator must run before a deployment.
func (reader *Reader) FindLatestLogFile(logDirectory string) (string, error) {
	matchedFiles, globError := filepath.Glob(filepath.Join(logDirectory, logFileGlobPatternConstant))
	if globError != nil {
		return "", globError
	}
	if len(matchedFiles) == 0 {
		return "", fmt.Errorf(noLogFilesRemediationTemplateConstant+": %w", logFileGlobPatternConstant, logDirectory, ErrNoDeploymentFiles)
	}

	latestFilePath := ""
	for _, matchedFile := range matchedFiles {
		fileInformation, statError := os.Stat(matchedFile)
		if statError != nil {
			continue
		}
		if len(latestFilePath) == 0 {
			latestFilePath = matchedFile
			continue
		}
		latestInformation, latestStatError := os.Stat(latestFilePath)
		if latestStatError != nil || fileInformation.ModTime().After(latestInformation.ModTime()) {
			latestFilePath = matchedFile
		}
	}
	if len(latestFilePath) == 0 {
		return "", fmt.Errorf(noLogFilesRemediationTemplateConstant+": %w", logFileGlobPatternConstant, logDirectory, ErrNoDeploymentFiles)
	}

	return latestFilePath, nil
}

// ReadLatestRecord locates the deployment log directory, picks the freshest
// log file, and parses it into a DeploymentRecord.
func (reader *Reader) ReadLatestRecord(repositoryRoot string, workingDirectory string) (DeploymentRecord, error) {
	logDirectory, locateError := reader.LocateLogDirectory(repositoryRoot, workingDirectory)
	if locateError != nil {
		return DeploymentRecord{}, locateError
	}

	latestLogFile, findError := reader.FindLatestLogFile(logDirectory)
	if findError != nil {
		return DeploymentRecord{}, findError
	}

	logContent, readError := os.ReadFile(latestLogFile)
	if readError != nil {
		return DeploymentRecord{}, readError
	}

	reader.logger.Info(selectedLogFileMessageConstant,
		zap.String(logFileLogFieldConstant, latestLogFile),
		zap.String(logDirectoryLogFieldConstant, logDirectory))

	return ParseDeploymentRecord(string(logContent)), nil
}
