package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/radialtree/pkg/pipeline"
)

// uiOut receives all status output. Tests swap it for a buffer.
var uiOut io.Writer = os.Stdout

// maxListedIDs caps how many node IDs a single status line names.
const maxListedIDs = 5

var (
	colorAccent = lipgloss.Color("36")  // node ids, titles
	colorOK     = lipgloss.Color("35")  // finished steps, cache hits
	colorWarn   = lipgloss.Color("220") // unplaced nodes
	colorFail   = lipgloss.Color("167") // failed steps
	colorURL    = lipgloss.Color("75")  // addresses, suggested commands
	colorText   = lipgloss.Color("255") // paths, values
	colorMuted  = lipgloss.Color("245") // labels
	colorFaint  = lipgloss.Color("240") // separators, details
)

// Styles shared with the interactive node browser.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleNodeID  = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleValue   = lipgloss.NewStyle().Foreground(colorText)
	styleLabel   = lipgloss.NewStyle().Foreground(colorMuted).Width(8)
	styleURL     = lipgloss.NewStyle().Foreground(colorURL).Underline(true)
	styleCommand = lipgloss.NewStyle().Foreground(colorURL)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

const (
	arrowGlyph = "→"
	sepGlyph   = " · "
)

// statusKind selects the icon and color of a status line.
type statusKind int

const (
	statusDone statusKind = iota
	statusFailed
	statusWarn
	statusNote
)

var statusIcons = map[statusKind]struct {
	icon  string
	style lipgloss.Style
}{
	statusDone:   {"✓", lipgloss.NewStyle().Foreground(colorOK)},
	statusFailed: {"✗", lipgloss.NewStyle().Foreground(colorFail)},
	statusWarn:   {"!", lipgloss.NewStyle().Foreground(colorWarn)},
	statusNote:   {"›", lipgloss.NewStyle().Foreground(colorMuted)},
}

// printStatus prints one icon-prefixed line. Warnings are colored in full.
func printStatus(kind statusKind, format string, args ...any) {
	s := statusIcons[kind]
	msg := fmt.Sprintf(format, args...)
	if kind == statusWarn {
		msg = StyleWarning.Render(msg)
	}
	fmt.Fprintln(uiOut, s.style.Render(s.icon)+" "+msg)
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printArtifacts reports a finished step and the files it wrote.
func printArtifacts(title string, paths ...string) {
	printStatus(statusDone, "%s", title)
	for _, p := range paths {
		fmt.Fprintln(uiOut, "  "+StyleDim.Render(arrowGlyph)+" "+styleValue.Render(p))
	}
}

// printSceneStats prints the node, edge and placement counts of a pass on
// one line, followed by whether the scene came from the cache.
func printSceneStats(stats pipeline.Stats, cached bool) {
	var parts []string
	if stats.NodeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d nodes", stats.NodeCount))
	}
	if stats.EdgeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d edges", stats.EdgeCount))
	}
	if stats.PlacedCount > 0 && stats.PlacedCount != stats.NodeCount {
		parts = append(parts, fmt.Sprintf("%d placed", stats.PlacedCount))
	}
	if stats.Disconnected > 0 {
		parts = append(parts, fmt.Sprintf("%d unplaced", stats.Disconnected))
	}

	origin := StyleDim.Render("fresh")
	if cached {
		origin = lipgloss.NewStyle().Foreground(colorOK).Render("cached")
	}
	parts = append(parts, origin)

	fmt.Fprintln(uiOut, "  "+strings.Join(parts, StyleDim.Render(sepGlyph)))
}

// printUnplaced warns about nodes unreachable from any root. Long lists are
// shortened to the first few IDs.
func printUnplaced(ids []string) {
	if len(ids) == 0 {
		return
	}
	printStatus(statusWarn, "%d node(s) unreachable from any root were not placed: %s",
		len(ids), summarizeIDs(ids))
}

// summarizeIDs joins up to maxListedIDs IDs and counts the rest.
func summarizeIDs(ids []string) string {
	if len(ids) <= maxListedIDs {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(ids[:maxListedIDs], ", "), len(ids)-maxListedIDs)
}

// printEdgeChange reports a link or unlink and the document size afterwards.
func printEdgeChange(verb, parent string, children []string, nodes, edges int) {
	printStatus(statusDone, "%s %s %s %s", verb, StyleNodeID.Render(parent), arrowGlyph, strings.Join(children, ", "))
	printDetail("%d nodes, %d edges", nodes, edges)
}

// printServing prints the banner shown when the HTTP server starts.
func printServing(url, storeBackend, cacheLoc string) {
	printStatus(statusNote, "Serving on %s", styleURL.Render(url))
	fmt.Fprintln(uiOut, "  "+styleLabel.Render("store")+" "+styleValue.Render(storeBackend))
	fmt.Fprintln(uiOut, "  "+styleLabel.Render("cache")+" "+styleValue.Render(cacheLoc))
}

// printWatching prints the banner shown while watch waits for changes.
func printWatching(path string) {
	printStatus(statusNote, "Watching %s %s", styleValue.Render(path), StyleDim.Render("(ctrl+c to stop)"))
}

// printNextStep suggests a follow-up command after a blank line.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut)
	fmt.Fprintln(uiOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
