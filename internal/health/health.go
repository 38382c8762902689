// Package health runs the checks behind "munbench doctor": external tools,
// fixture directory, and the in-process script and bytecode backends.
package health

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mun-lang/munbench/internal/display"
	"github.com/mun-lang/munbench/internal/provision"
	"github.com/mun-lang/munbench/internal/resource"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional failures are reported but do not fail the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

func (r *HealthReport) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed && !c.Optional {
		r.Passed = false
	}
}

// Checker holds what the checks need.
type Checker struct {
	CompilerCmd string
	RuntimeCmd  string
	ColorMode   display.DisplayColor
	Provisioner *provision.Provisioner
	// LookPath defaults to exec.LookPath.
	LookPath func(string) (string, error)
	// Negotiator defaults to display.Default().
	Negotiator *display.Negotiator
	// ColorEnabled is a decision already negotiated for ColorMode. When set,
	// Negotiator is not consulted.
	ColorEnabled *bool
}

// Run runs all health checks and returns a report
func (c *Checker) Run(ctx context.Context) *HealthReport {
	report := &HealthReport{
		Checks: make([]CheckResult, 0, 6),
		Passed: true,
	}

	compiled := c.checkCommand("Compiler", c.CompilerCmd)
	compiled.Optional = true
	report.add(compiled)

	runtime := c.checkCommand("Runtime host", c.RuntimeCmd)
	runtime.Optional = true
	report.add(runtime)

	report.add(c.checkResources())
	report.add(c.checkScript())
	report.add(c.checkBytecode(ctx))
	report.add(c.checkColor())

	return report
}

func (c *Checker) checkCommand(name, command string) CheckResult {
	lookPath := c.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(command)
	if err != nil {
		return CheckResult{
			Name:    name,
			Passed:  false,
			Message: fmt.Sprintf("%s not found in PATH; compiled fixtures are unavailable", command),
		}
	}
	return CheckResult{Name: name, Passed: true, Message: path}
}

func (c *Checker) resolver() *resource.Resolver {
	if c.Provisioner != nil {
		return c.Provisioner.Resolver()
	}
	return resource.Default()
}

func (c *Checker) checkResources() CheckResult {
	dir := c.resolver().Dir()
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return CheckResult{
			Name:    "Fixtures",
			Passed:  false,
			Message: fmt.Sprintf("resource directory %s does not exist", dir),
		}
	}
	return CheckResult{Name: "Fixtures", Passed: true, Message: dir}
}

func (c *Checker) provisioner() *provision.Provisioner {
	if c.Provisioner != nil {
		return c.Provisioner
	}
	return provision.New(nil)
}

func (c *Checker) checkScript() CheckResult {
	const name = "Script backend"
	h, err := c.provisioner().ScriptEngine("empty.lua")
	if err != nil {
		return CheckResult{Name: name, Passed: false, Message: err.Error()}
	}
	defer h.Close()
	return CheckResult{Name: name, Passed: true, Message: "empty.lua loaded"}
}

func (c *Checker) checkBytecode(ctx context.Context) CheckResult {
	const name = "Bytecode backend"
	h, err := c.provisioner().BytecodeModule(ctx, "empty.wasm")
	if err != nil {
		return CheckResult{Name: name, Passed: false, Message: err.Error()}
	}
	defer h.Close(ctx)
	return CheckResult{Name: name, Passed: true, Message: "empty.wasm instantiated"}
}

func (c *Checker) checkColor() CheckResult {
	state := "disabled"
	if c.colorEnabled() {
		state = "enabled"
	}
	return CheckResult{
		Name:     "Terminal colour",
		Passed:   true,
		Message:  fmt.Sprintf("%s (mode %s)", state, c.ColorMode),
		Optional: true,
	}
}

func (c *Checker) colorEnabled() bool {
	if c.ColorEnabled != nil {
		return *c.ColorEnabled
	}
	n := display.Default()
	if c.Negotiator != nil {
		n = *c.Negotiator
	}
	return n.ShouldEnable(c.ColorMode)
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder

	for _, check := range report.Checks {
		switch {
		case check.Passed:
			fmt.Fprintf(&b, "✓ %s: %s\n", check.Name, check.Message)
		case check.Optional:
			fmt.Fprintf(&b, "! Warning: %s\n", check.Message)
		default:
			fmt.Fprintf(&b, "✗ Error: %s\n", check.Message)
		}
	}

	return b.String()
}
