package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/BrokerGo/internal/broker"
	"github.com/dyike/BrokerGo/internal/models"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1).
		MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6")).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 2).
		Width(78)

	replyStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#10B981")).
		Padding(1, 2).
		Width(78)

	completedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	rejectedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	pendingStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B")).
		Bold(true)

	dimStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))
)

// DisplayWelcomeBanner shows the welcome banner
func DisplayWelcomeBanner() {
	banner := `
oooooooooo.                      oooo                              .oooooo.
 888     Y8b                      888                             d8P    Y8b
 888     d8P oooo d8b .ooooo.     888  oooo   .ooooo.  oooo d8b  888
 888ooooo8P   888""P d88   88b    888 .8P    d88   88b  888""P   888
 888     8b   888    888   888    888888.    888ooo888  888      888  ooooo
 888     Y8b  888    888   888    888  88b.  888    .o  888       88.    88
o888ooooo8P  d888b    Y8bod8P    o888o o888o  Y8bod8P  d888b       Y8bood8P

               An Investment Bank, One Division at a Time
`
	welcomeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Width(80)

	fmt.Print(welcomeStyle.Render(banner))
	fmt.Println()
}

// ClearScreen clears the terminal screen
func ClearScreen() {
	fmt.Print("\033[2J\033[H")
}

// Section prints a boxed section header.
func Section(title string) {
	fmt.Println(sectionStyle.Render(title))
}

// Reply renders the firm's outward answer.
func Reply(text string) {
	fmt.Println(replyStyle.Render(text))
}

// RenderResult formats one division result with its status coloured.
func RenderResult(r *models.Result) string {
	var status string
	switch r.Status {
	case models.ResultCompleted:
		status = completedStyle.Render(r.Status)
	case models.ResultRejected:
		status = rejectedStyle.Render(r.Status)
	default:
		status = pendingStyle.Render(r.Status)
	}
	return fmt.Sprintf("  [%s] %s: %s", status, r.Division, r.Message)
}

// RenderStatus prints the broker-wide snapshot.
func RenderStatus(info broker.Info) {
	Section(fmt.Sprintf("%s — balance %s, regulatory status %s",
		info.Name, info.Balance.StringFixed(2), info.RegulatoryStatus))

	ids := make([]string, 0, len(info.Divisions))
	for id := range info.Divisions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	for _, id := range ids {
		div := info.Divisions[id]
		fmt.Fprintf(&sb, "%-24s pending %-3d completed %-3d inbox %-3d\n",
			div.Name, div.PendingTasks, div.CompletedTasks, div.InboxMessages)
	}
	fmt.Fprintf(&sb, "\nTrading desk: %d open positions, %d active quotes, gross exposure %d\n",
		info.TradingDesk.ActivePositions, info.TradingDesk.ActiveQuotes, info.TradingDesk.GrossExposure)
	fmt.Fprintf(&sb, "Banking book: %d active deals, %d completed\n",
		info.BankingBook.ActiveDeals, info.BankingBook.CompletedDeals)
	fmt.Fprintf(&sb, "Network: %d communications recorded", info.Network.TotalCommunications)
	fmt.Println(dimStyle.Render(sb.String()))
}
