package definition

import "errors"

var (
	// Parsing
	ErrParsingCancelled  = errors.New("definition parsing cancelled")
	ErrFailedToParseYAML = errors.New("failed to parse YAML definition")
	ErrFailedToReadFile  = errors.New("failed to read definition file")
	ErrInvalidDocument   = errors.New("invalid state machine definition")

	// Registry
	ErrEmptyName         = errors.New("registry name cannot be empty")
	ErrNilFunc           = errors.New("registered function cannot be nil")
	ErrAlreadyRegistered = errors.New("name is already registered")

	// Compilation
	ErrNilRegistry    = errors.New("registry cannot be nil")
	ErrUnknownGuard   = errors.New("guard is not registered")
	ErrUnknownAction  = errors.New("action is not registered")
	ErrUnknownHook    = errors.New("hook is not registered")
	ErrUnknownPayload = errors.New("payload type is not registered")
)
