package format

import "fmt"

// A ConfigError reports a configuration source that could not be opened or
// decoded. Source is the path that failed.
type ConfigError struct {
	Source string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
