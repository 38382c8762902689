package errors

import "fmt"

// FixtureNotFound reports a fixture path that does not exist under root.
func FixtureNotFound(path, root string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("fixture not found: %s", path),
		fmt.Sprintf("Fixtures are resolved relative to %s", root),
		"Run 'munbench resolve <path>' to see the absolute path being used",
	)
}

// ResourceRootNotFound reports a missing fixture directory.
func ResourceRootNotFound(dir string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("resource directory does not exist: %s", dir),
		"Set resource_root in .munbench/config.json or MUNBENCH_RESOURCE_ROOT",
	)
}

// UnknownBackend reports a backend name that is not compiled, script or bytecode.
func UnknownBackend(name string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown backend %q", name),
		"munbench provision <fixture> --backend compiled|script|bytecode",
		"Omit --backend to infer it from the fixture extension (.mun, .lua, .wasm)",
	)
}

// InvalidDisplayColor reports a bad --color or color config value.
func InvalidDisplayColor(value string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid color mode %q", value),
		"Use one of: disable, auto, enable",
	)
}

// InvalidOptLevel reports a bad opt_level value.
func InvalidOptLevel(value string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("invalid optimization level %q", value),
		"Use one of: none, less, default, aggressive (or 0-3)",
	)
}

// CommandNotFound reports an external tool missing from PATH.
func CommandNotFound(command, configKey string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("%s not found in PATH", command),
		fmt.Sprintf("Install %s or point %s at it", command, configKey),
		"Run 'munbench doctor' to check all dependencies",
	)
}

// CompilationFailed reports compiler diagnostics for a fixture.
func CompilationFailed(err error) *CLIError {
	return Wrap(err, Provisioning, "Fix the reported compiler errors and run again")
}

// ProvisioningFailed reports a backend that could not be brought up.
func ProvisioningFailed(err error) *CLIError {
	return WrapWithMessage(err, Provisioning, "provisioning failed")
}

// InvocationFailed reports a failed call into a provisioned backend.
func InvocationFailed(entry string, err error) *CLIError {
	return WrapWithMessage(err, Runtime, fmt.Sprintf("invoking %s", entry),
		"Check that the fixture exports the entry point")
}

// ConfigFileNotFound reports an explicit --config path that is missing.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Check the --config path",
	)
}

// ConfigParseError reports an unparsable config file.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration, fmt.Sprintf("failed to parse config %s", path),
		"Check the file is valid JSON")
}
