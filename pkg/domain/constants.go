package domain

const (
	// MarkerName is the registration marker recorded on a host once the
	// decorator has been installed.
	MarkerName = "plugins-enhanced"

	// EventError is the event name used by hosts for the error channel.
	EventError = "error"

	// MethodUse and MethodRun name the host methods replaced by the decorator.
	MethodUse = "use"
	MethodRun = "run"
)
