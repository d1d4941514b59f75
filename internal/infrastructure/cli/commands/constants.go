package commands

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
)

// Hints
const (
	MsgInitUseForce = "Use --force to overwrite it."
)
