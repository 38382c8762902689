package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestMessages(t *testing.T) {
	cause := errors.New("cause")

	tests := map[string]struct {
		err      *CLIError
		category ErrorCategory
		contains string
		usage    bool
	}{
		"fixture not found":   {err: FixtureNotFound("x.lua", "/root/benches/resources"), category: Prerequisite, contains: "x.lua"},
		"root not found":      {err: ResourceRootNotFound("/missing"), category: Prerequisite, contains: "/missing"},
		"unknown backend":     {err: UnknownBackend("jit"), category: Argument, contains: "jit", usage: true},
		"invalid color":       {err: InvalidDisplayColor("rainbow"), category: Argument, contains: "rainbow"},
		"invalid opt level":   {err: InvalidOptLevel("max"), category: Configuration, contains: "max"},
		"command not found":   {err: CommandNotFound("mun", "compiler_cmd"), category: Prerequisite, contains: "mun"},
		"compilation failed":  {err: CompilationFailed(cause), category: Provisioning, contains: "cause"},
		"provisioning failed": {err: ProvisioningFailed(cause), category: Provisioning, contains: "provisioning failed"},
		"invocation failed":   {err: InvocationFailed("fibonacci", cause), category: Runtime, contains: "fibonacci"},
		"config not found":    {err: ConfigFileNotFound("/etc/x.json"), category: Configuration, contains: "/etc/x.json"},
		"config parse error":  {err: ConfigParseError("/etc/x.json", cause), category: Configuration, contains: "cause"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if test.err.Category != test.category {
				t.Errorf("Expected %v category, got %v", test.category, test.err.Category)
			}
			if !strings.Contains(test.err.Message, test.contains) {
				t.Errorf("Expected message to contain %q, got %q", test.contains, test.err.Message)
			}
			if test.usage && test.err.Usage == "" {
				t.Error("Expected non-empty usage")
			}
			if len(test.err.Remediation) == 0 && test.err.Err == nil {
				t.Error("Expected remediation steps")
			}
		})
	}
}

func TestMessagesKeepCause(t *testing.T) {
	cause := errors.New("cause")

	if !errors.Is(CompilationFailed(cause), cause) {
		t.Error("CompilationFailed should wrap its cause")
	}
	if !errors.Is(InvocationFailed("main", cause), cause) {
		t.Error("InvocationFailed should wrap its cause")
	}
}
