package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/deploy_scripts/internal/gitrepo"
)

func TestParseRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name           string
		remote         string
		expectedResult gitrepo.RemoteURL
		expectError    bool
	}{
		{
			name:   "scp_style_ssh_remote",
			remote: "git@github.com:acme/project.git",
			expectedResult: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolSSH,
				Host:       "github.com",
				Owner:      "acme",
				Repository: "project",
			},
		},
		{
			name:   "ssh_protocol_remote",
			remote: "ssh://git@github.com/acme/project.git",
			expectedResult: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolSSH,
				Host:       "github.com",
				Owner:      "acme",
				Repository: "project",
			},
		},
		{
			name:   "https_remote_without_git_suffix",
			remote: "https://github.com/acme/project",
			expectedResult: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolHTTPS,
				Host:       "github.com",
				Owner:      "acme",
				Repository: "project",
			},
		},
		{
			name:        "blank_remote_is_rejected",
			remote:      "   ",
			expectError: true,
		},
		{
			name:        "unrecognized_scheme_is_rejected",
			remote:      "ftp://github.com/acme/project",
			expectError: true,
		},
		{
			name:        "ssh_remote_without_repository_is_rejected",
			remote:      "git@github.com:acme",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			parsedRemote, parseError := gitrepo.ParseRemoteURL(testCase.remote)
			if testCase.expectError {
				require.Error(subtestInstance, parseError)
				return
			}
			require.NoError(subtestInstance, parseError)
			require.Equal(subtestInstance, testCase.expectedResult, parsedRemote)
		})
	}
}
