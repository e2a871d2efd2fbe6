package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"loxremote/internal/utils"
)

// PrintUsage displays the styled help/usage text
func PrintUsage(version string) {
	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Render(utils.ExecutableName())

	versionTag := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Render("v" + version)

	fmt.Printf("%s %s\n", banner, versionTag)
	fmt.Println(Muted("Remote control bridge for the Loxone Miniserver"))
	fmt.Println()

	printSection("Usage", []string{
		utils.ExecutableName() + " [flags]            Run the bridge",
		utils.ExecutableName() + " discover [-pick]   List miniserver functions",
		utils.ExecutableName() + " check              Verify miniserver connectivity",
		utils.ExecutableName() + " init               Create a starter config file",
		utils.ExecutableName() + " help               Show this help message",
	})

	printSection("Flags", []string{
		"-config string    Path to configuration file (default \"config.yaml\")",
		"-version          Print version and exit",
	})

	printSection("Examples", []string{
		utils.ExecutableName() + " -config /etc/loxremote/config.yaml",
		utils.ExecutableName() + " discover -pick",
	})
}

func printSection(title string, items []string) {
	fmt.Println(Bold(title))
	for _, item := range items {
		fmt.Printf("  %s\n", item)
	}
	fmt.Println()
}

// PrintVersion displays the version
func PrintVersion(version string) {
	fmt.Printf("%s %s\n", Bold(utils.ExecutableName()), Muted("v"+version))
}

// PrintFatalError displays an error with context before the program exits
func PrintFatalError(context, message string) {
	fmt.Println(Error(context))
	if message != "" {
		fmt.Println(Muted("  " + message))
	}
}

// PrintDiscoverUsage displays usage for the discover subcommand
func PrintDiscoverUsage() {
	fmt.Println(Bold("Usage"))
	fmt.Printf("  %s discover [-config path] [-pick]\n", utils.ExecutableName())
	fmt.Println()
	fmt.Println(Muted("Lists the functions exposed by the configured miniserver."))
	fmt.Println(Muted("With -pick, select one interactively to generate a mapping snippet."))
}
