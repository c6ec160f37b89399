package unlink

import "fmt"

// ConfigurationError reports an unlink tool path that does not exist.
type ConfigurationError struct {
	// Path is the tool path that was resolved.
	Path string
	// Err is the underlying stat error, if any.
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf(
		"%s is not valid, make sure the unlink executable exists in the path specified: %q",
		ToolPathKey, e.Path,
	)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ExecutionError reports an unlink tool invocation that could not be carried out.
type ExecutionError struct {
	// Command is the fully substituted command line.
	Command string
	// Err is the underlying spawn or exit error.
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("running %q: %v", e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
