package display

import (
	"fmt"
	"strconv"
	"strings"
)

// WindowsVersion is the version reported by the Windows `ver` command.
type WindowsVersion struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// ParseWindowsVersion extracts the version from `ver` output such as
// "Microsoft Windows [Version 10.0.19045.3570]". The last whitespace-separated
// token must end in "]"; only its first three components are used.
func ParseWindowsVersion(output string) (WindowsVersion, error) {
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return WindowsVersion{}, fmt.Errorf("parsing windows version: empty output")
	}

	token := strings.TrimSpace(fields[len(fields)-1])
	if !strings.HasSuffix(token, "]") {
		return WindowsVersion{}, fmt.Errorf("parsing windows version %q: missing closing bracket", token)
	}
	token = strings.TrimSuffix(token, "]")

	parts := strings.Split(token, ".")
	if len(parts) < 3 {
		return WindowsVersion{}, fmt.Errorf("parsing windows version %q: expected MAJOR.MINOR.PATCH", token)
	}

	major, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return WindowsVersion{}, fmt.Errorf("parsing major version %q: %w", parts[0], err)
	}
	minor, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return WindowsVersion{}, fmt.Errorf("parsing minor version %q: %w", parts[1], err)
	}
	patch, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return WindowsVersion{}, fmt.Errorf("parsing patch version %q: %w", parts[2], err)
	}

	return WindowsVersion{Major: major, Minor: minor, Patch: patch}, nil
}

// SupportsANSI reports whether cmd.exe on this version handles ANSI escapes.
// Support arrived in Windows 10 build 10586.
func (v WindowsVersion) SupportsANSI() bool {
	return v.Major >= 10 && (v.Patch >= 10586 || v.Minor > 0)
}

// String formats the version as MAJOR.MINOR.PATCH.
func (v WindowsVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// versionSupportsANSI parses `ver` output and reports ANSI support. Any
// parse failure means no support.
func versionSupportsANSI(output string) bool {
	v, err := ParseWindowsVersion(output)
	if err != nil {
		return false
	}
	return v.SupportsANSI()
}
