package main

import (
	"fmt"
	"strconv"
	"strings"

	"kitchenops/internal/inventory"
	"kitchenops/internal/models"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#ffd60a")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Width(22)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the UI
func (m Model) View() string {
	var body string
	switch m.currentView {
	case viewLogin:
		body = loginView(m)
	case viewMain:
		body = m.mainMenu.View()
	case viewDashboard:
		body = dashboardView(m.dashboard)
	case viewStock:
		body = stockView(m)
	case viewIntake:
		body = intakeView(m)
	case viewSpecials:
		body = specialsView(m)
	case viewReports:
		body = reportView(m.report)
	default:
		body = "Loading..."
	}

	if m.loading {
		body += "\n" + m.spinner.View() + " Working..."
	}
	if m.message != "" {
		body += "\n" + successStyle.Render(m.message)
	}
	if m.error != "" {
		body += "\n" + errorStyle.Render(m.error)
	}
	return docStyle.Render(body)
}

func loginView(m Model) string {
	view := titleStyle.Render("KitchenOps Staff Portal") + "\n\n"
	view += m.staffInput.View() + "\n"
	view += m.passInput.View() + "\n\n"
	view += helpStyle.Render("tab to switch fields, enter to sign in, esc to quit")
	return view
}

func statusStyle(status inventory.ExpiryStatus) lipgloss.Style {
	switch status {
	case inventory.StatusExpired:
		return errorStyle
	case inventory.StatusExpiringSoon:
		return warningStyle
	default:
		return successStyle
	}
}

func formatQuantity(q float64, unit models.Unit) string {
	return strconv.FormatFloat(q, 'f', -1, 64) + " " + string(unit)
}

func dashboardView(dash *inventory.Dashboard) string {
	view := titleStyle.Render("Kitchen Ops") + "\n\n"
	if dash == nil {
		return view
	}

	card := func(label string, value int) string {
		return cardStyle.Render(fmt.Sprintf("%s\n%d", label, value))
	}
	view += lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total SKUs", dash.Counters.TotalCount),
		card("Low Stock Alerts", dash.Counters.LowStockCount),
		card("Waste Risk", dash.Counters.ExpiringSoonCount),
		card("Expired", dash.Counters.ExpiredCount),
	) + "\n\n"

	view += infoStyle.Render("Critical Low Stock") + "\n"
	if len(dash.CriticalLowStock) == 0 {
		view += "Stock levels are healthy.\n"
	}
	for _, it := range dash.CriticalLowStock {
		level := inventory.DefaultMinStockLevel
		if it.MinStockLevel != nil {
			level = *it.MinStockLevel
		}
		view += fmt.Sprintf("• %-30s %-12s min %s  %s\n", it.Name, formatQuantity(it.Quantity, it.Unit),
			strconv.FormatFloat(level, 'f', -1, 64), it.Location)
	}

	view += "\n" + helpStyle.Render("r to refresh, esc to go back")
	return view
}

func stockRows(items []inventory.ItemStatus) []table.Row {
	rows := make([]table.Row, len(items))
	for i, it := range items {
		status := string(it.Status)
		if it.LowStock {
			status += " !"
		}
		rows[i] = table.Row{
			it.ID,
			it.Name,
			string(it.Category),
			formatQuantity(it.Quantity, it.Unit),
			it.Location,
			it.ExpiryDate.Local().Format("2006-01-02"),
			status,
		}
	}
	return rows
}

func stockView(m Model) string {
	view := titleStyle.Render("Stock List") + "\n\n"
	view += fmt.Sprintf("Category: %s   Sort: %s   Showing %d of %d\n",
		m.query.Category, m.query.Sort, len(m.items), m.total)
	if m.searching || m.query.Search != "" {
		view += m.searchInput.View() + "\n"
	}
	view += "\n" + m.stockTable.View() + "\n\n"

	legend := []string{
		statusStyle(inventory.StatusFresh).Render(string(inventory.StatusFresh)),
		statusStyle(inventory.StatusExpiringSoon).Render(string(inventory.StatusExpiringSoon)),
		statusStyle(inventory.StatusExpired).Render(string(inventory.StatusExpired)),
	}
	view += strings.Join(legend, " ") + "  ! low stock\n"
	view += helpStyle.Render("/ search, c category, s sort, d remove, r refresh, esc back")
	return view
}

func intakeView(m Model) string {
	view := titleStyle.Render("Stock Intake") + "\n\n"
	view += "Manual entry:  name, category, quantity, unit[, location[, min stock]]\n"
	view += "Barcode:       scan [code]\n"
	view += "Photo:         photo <path to image>\n\n"
	view += "Categories: " + joinCategories() + "\n"
	view += "Units: " + joinUnits() + "\n\n"
	view += m.intakeInput.View() + "\n\n"
	view += helpStyle.Render("enter to submit, esc to go back")
	return view
}

func joinCategories() string {
	parts := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func joinUnits() string {
	parts := make([]string, len(models.Units))
	for i, u := range models.Units {
		parts[i] = string(u)
	}
	return strings.Join(parts, ", ")
}

func specialsView(m Model) string {
	view := titleStyle.Render("Daily Specials") + "\n\n"
	if m.specials == nil {
		view += "Suggest specials that use stock expiring within " + strconv.Itoa(inventory.PriorityWindowDays) + " days.\n\n"
		view += helpStyle.Render("g to generate, esc to go back")
		return view
	}

	if len(m.specials.PriorityItems) == 0 {
		view += "Nothing is close to expiry. No specials needed today.\n\n"
		view += helpStyle.Render("g to regenerate, esc to go back")
		return view
	}

	view += infoStyle.Render("Use first") + "\n"
	for _, line := range m.specials.PriorityItems {
		view += "• " + line + "\n"
	}
	view += "\n"

	for _, r := range m.specials.Recipes {
		view += lipgloss.NewStyle().Bold(true).Render(r.Title) + fmt.Sprintf("  [%s, %s margin]\n", r.Type, r.ProfitMarginPotential)
		view += "  Uses: " + strings.Join(r.IngredientsUsed, ", ") + "\n"
		if r.Notes != "" {
			view += "  " + r.Notes + "\n"
		}
		view += "\n"
	}

	view += helpStyle.Render("g to regenerate, esc to go back")
	return view
}

func bar(count, peak, width int) string {
	if peak == 0 {
		return ""
	}
	n := count * width / peak
	if n == 0 && count > 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func reportView(report *inventory.Report) string {
	view := titleStyle.Render("Reports") + "\n\n"
	if report == nil {
		return view
	}

	peak := 0
	for _, c := range report.CategoryDistribution {
		peak = max(peak, c.Count)
	}
	view += infoStyle.Render("Category Distribution") + "\n"
	for _, c := range report.CategoryDistribution {
		view += fmt.Sprintf("%-20s %-30s %d\n", c.Category, bar(c.Count, peak, 30), c.Count)
	}

	peak = 0
	for _, p := range report.ExpiryTimeline {
		peak = max(peak, p.Count)
	}
	view += "\n" + infoStyle.Render("Expiry Timeline") + "\n"
	for _, p := range report.ExpiryTimeline {
		view += fmt.Sprintf("%-12s %-30s %d\n", p.Date, bar(p.Count, peak, 30), p.Count)
	}

	view += "\n" + helpStyle.Render("r to refresh, esc to go back")
	return view
}
