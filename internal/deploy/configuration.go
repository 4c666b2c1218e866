package deploy

const defaultRemoteNameConstant = "origin"

// CommandConfiguration carries the deploy command settings sourced from the
// configuration file, environment variables, and flags.
type CommandConfiguration struct {
	RemoteName     string   `mapstructure:"remote"`
	LogDirectories []string `mapstructure:"log_directories"`
}

// WithDefaults fills unset fields with conventional values.
func (configuration CommandConfiguration) WithDefaults() CommandConfiguration {
	updatedConfiguration := configuration
	if len(updatedConfiguration.RemoteName) == 0 {
		updatedConfiguration.RemoteName = defaultRemoteNameConstant
	}
	return updatedConfiguration
}
