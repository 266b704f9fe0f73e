// Package cli provides the pieces shared by every Orizon command-line tool:
// version information, logging, configuration, usage rendering and the
// single process exit point.
package cli

import (
	"fmt"
	"io"
	"runtime"

	semver "github.com/Masterminds/semver/v3"
)

// Version information for all CLI tools
const (
	Version   = "0.1.0"
	BuildDate = "2025-08-22"
)

// CommitSHA is set during build with -ldflags "-X .../internal/cli.CommitSHA=...".
var CommitSHA = "unknown"

// VersionInfo contains version and build information
type VersionInfo struct {
	Version   *semver.Version
	BuildDate string
	CommitSHA string
	GoVersion string
	Platform  string
	Arch      string
}

// GetVersionInfo returns structured version information
func GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version:   semver.MustParse(Version),
		BuildDate: BuildDate,
		CommitSHA: CommitSHA,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// VersionString returns the one-line version, e.g. "Orizon 0.1.0 1a2b3c4".
func VersionString(toolName string) string {
	info := GetVersionInfo()
	s := fmt.Sprintf("%s %s", toolName, info.Version)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		s += " " + info.CommitSHA
	}
	return s
}

// PrintVersion prints version information in a consistent format
func PrintVersion(w io.Writer, toolName string, detailed bool) {
	if !detailed {
		fmt.Fprintln(w, VersionString(toolName))
		return
	}

	info := GetVersionInfo()
	fmt.Fprintf(w, "%s v%s\n", toolName, info.Version)
	fmt.Fprintf(w, "Build Date: %s\n", info.BuildDate)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		fmt.Fprintf(w, "Commit: %s\n", info.CommitSHA)
	}
	if pre := info.Version.Prerelease(); pre != "" {
		fmt.Fprintf(w, "Channel: %s\n", pre)
	}
	fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
	fmt.Fprintf(w, "Platform: %s/%s\n", info.Platform, info.Arch)
}

// CommandInfo represents information about a CLI command
type CommandInfo struct {
	Name        string
	Description string
}

// PrintUsage prints a standardized usage message
func PrintUsage(w io.Writer, tool string, commands []CommandInfo) {
	fmt.Fprintf(w, "%s - Orizon Language Tools\n\n", tool)
	fmt.Fprintf(w, "USAGE:\n")
	fmt.Fprintf(w, "    %s [OPTIONS] <command> [ARGS]\n", tool)
	fmt.Fprintf(w, "    %s [OPTIONS] <file.oriz|directory>\n\n", tool)

	if len(commands) > 0 {
		fmt.Fprintf(w, "COMMANDS:\n")
		for _, cmd := range commands {
			fmt.Fprintf(w, "    %-14s %s\n", cmd.Name, cmd.Description)
		}
		fmt.Fprintf(w, "\n")
	}

	fmt.Fprintf(w, "GLOBAL OPTIONS:\n")
	fmt.Fprintf(w, "    -help, -h        Show help information\n")
	fmt.Fprintf(w, "    -v, -verbose     Verbose output\n")
	fmt.Fprintf(w, "    -show-timings    Print phase timings to stderr\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Use '%s help <topic>' for more information about a command.\n", tool)
}
