package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"kitchenops/internal/inventory"
	"kitchenops/internal/models"
	"kitchenops/internal/pantry"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const requestTimeout = 90 * time.Second

// Screens
const (
	viewLogin     = "login"
	viewMain      = "main"
	viewDashboard = "dashboard"
	viewStock     = "stock"
	viewIntake    = "intake"
	viewSpecials  = "specials"
	viewReports   = "reports"
)

// Main menu entries
const (
	menuKitchenOps    = "Kitchen Ops"
	menuStockList     = "Stock List"
	menuStockIntake   = "Stock Intake"
	menuDailySpecials = "Daily Specials"
	menuReports       = "Reports"
	menuSignOut       = "Sign Out"
	menuExit          = "Exit"
)

// Model defines the application state
type Model struct {
	client *ApiClient

	mainMenu    list.Model
	staffInput  textinput.Model
	passInput   textinput.Model
	stockTable  table.Model
	searchInput textinput.Model
	intakeInput textinput.Model
	spinner     spinner.Model

	currentView string
	loading     bool
	searching   bool
	query       inventory.Query
	categoryIdx int

	dashboard *inventory.Dashboard
	items     []inventory.ItemStatus
	total     int
	specials  *pantry.Specials
	report    *inventory.Report

	message string
	error   string
}

// item represents a list item
type item struct {
	title, desc string
}

// FilterValue implements list.Item interface
func (i item) FilterValue() string { return i.title }

// Title implements list.Item interface
func (i item) Title() string { return i.title }

// Description implements list.Item interface
func (i item) Description() string { return i.desc }

// Initialize the model
func initialModel(client *ApiClient) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := []list.Item{
		item{title: menuKitchenOps, desc: "Stock health and low-stock alerts"},
		item{title: menuStockList, desc: "Search, filter and remove items"},
		item{title: menuStockIntake, desc: "Add items by hand, barcode or photo"},
		item{title: menuDailySpecials, desc: "Recipes for stock that expires soon"},
		item{title: menuReports, desc: "Category distribution and expiry timeline"},
		item{title: menuSignOut, desc: "Return to the staff portal"},
		item{title: menuExit, desc: "Exit the application"},
	}
	mainMenu := list.New(items, list.NewDefaultDelegate(), 60, 20)
	mainMenu.Title = "KitchenOps"

	staff := textinput.New()
	staff.Placeholder = "Staff ID"
	staff.CharLimit = 64
	staff.Width = 30
	staff.Focus()

	pass := textinput.New()
	pass.Placeholder = "Passcode"
	pass.CharLimit = 64
	pass.Width = 30
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	stock := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 8},
			{Title: "Item", Width: 28},
			{Title: "Category", Width: 18},
			{Title: "Qty", Width: 10},
			{Title: "Location", Width: 16},
			{Title: "Expires", Width: 12},
			{Title: "Status", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	search := textinput.New()
	search.Placeholder = "Search items..."
	search.CharLimit = 64
	search.Width = 30

	intake := textinput.New()
	intake.Placeholder = "Arborio Rice, Dry Storage, 12, kg, Shelf B2"
	intake.CharLimit = 256
	intake.Width = 60

	return Model{
		client:      client,
		mainMenu:    mainMenu,
		staffInput:  staff,
		passInput:   pass,
		stockTable:  stock,
		searchInput: search,
		intakeInput: intake,
		spinner:     s,
		currentView: viewLogin,
		query:       inventory.Query{Category: inventory.AllCategories, Sort: inventory.SortByExpiry},
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink)
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.mainMenu.SetSize(msg.Width-4, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginMsg:
		m.loading = false
		m.error = ""
		m.passInput.SetValue("")
		m.currentView = viewMain
		m.message = fmt.Sprintf("Signed in as %s", msg.staffID)
		return m, nil
	case dashboardMsg:
		m.loading = false
		m.dashboard = msg.dashboard
		return m, nil
	case itemsMsg:
		m.loading = false
		m.items = msg.list.Items
		m.total = msg.list.Total
		m.stockTable.SetRows(stockRows(m.items))
		return m, nil
	case deletedMsg:
		m.message = fmt.Sprintf("Removed %s", msg.id)
		return m, fetchItems(m.client, m.query)
	case intakeMsg:
		m.loading = false
		m.error = ""
		m.message = msg.message
		m.intakeInput.SetValue("")
		return m, nil
	case specialsMsg:
		m.loading = false
		m.specials = msg.specials
		return m, nil
	case reportMsg:
		m.loading = false
		m.report = msg.report
		return m, nil
	case errorMsg:
		m.loading = false
		m.error = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case viewLogin:
		if m.staffInput.Focused() {
			m.staffInput, cmd = m.staffInput.Update(msg)
		} else {
			m.passInput, cmd = m.passInput.Update(msg)
		}
	case viewMain:
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case viewStock:
		if m.searching {
			m.searchInput, cmd = m.searchInput.Update(msg)
		} else {
			m.stockTable, cmd = m.stockTable.Update(msg)
		}
	case viewIntake:
		m.intakeInput, cmd = m.intakeInput.Update(msg)
	}
	return m, cmd
}

// handleKey processes screen-specific keys. Unhandled keys fall through to the focused widget.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	key := msg.String()

	switch m.currentView {
	case viewLogin:
		switch key {
		case "tab", "shift+tab", "up", "down":
			m.toggleLoginFocus()
			return m, nil, true
		case "enter":
			if m.staffInput.Focused() {
				m.toggleLoginFocus()
				return m, nil, true
			}
			m.loading = true
			return m, login(m.client, m.staffInput.Value(), m.passInput.Value()), true
		case "esc":
			return m, tea.Quit, true
		}

	case viewMain:
		switch key {
		case "q":
			return m, tea.Quit, true
		case "enter":
			selected, ok := m.mainMenu.SelectedItem().(item)
			if !ok {
				return m, nil, true
			}
			next, cmd := m.open(selected.title)
			return next, cmd, true
		}

	case viewStock:
		if m.searching {
			switch key {
			case "enter", "esc":
				m.searching = false
				m.searchInput.Blur()
				m.query.Search = m.searchInput.Value()
				return m, fetchItems(m.client, m.query), true
			}
			return m, nil, false
		}
		switch key {
		case "/":
			m.searching = true
			return m, m.searchInput.Focus(), true
		case "c":
			filters := categoryFilters()
			m.categoryIdx = (m.categoryIdx + 1) % len(filters)
			m.query.Category = filters[m.categoryIdx]
			return m, fetchItems(m.client, m.query), true
		case "s":
			m.query.Sort = nextSort(m.query.Sort)
			return m, fetchItems(m.client, m.query), true
		case "d":
			row := m.stockTable.SelectedRow()
			if len(row) == 0 {
				return m, nil, true
			}
			return m, deleteItem(m.client, row[0]), true
		case "r":
			return m, fetchItems(m.client, m.query), true
		}

	case viewIntake:
		switch key {
		case "enter":
			action, err := parseIntake(m.intakeInput.Value())
			if err != nil {
				m.error = err.Error()
				return m, nil, true
			}
			m.loading = true
			m.error = ""
			return m, runIntake(m.client, action), true
		}

	case viewSpecials:
		switch key {
		case "g", "r":
			if m.loading {
				return m, nil, true
			}
			m.loading = true
			return m, suggestSpecials(m.client), true
		}

	case viewDashboard:
		if key == "r" {
			return m, fetchDashboard(m.client), true
		}

	case viewReports:
		if key == "r" {
			return m, fetchReport(m.client), true
		}
	}

	if key == "esc" && m.currentView != viewMain && m.currentView != viewLogin {
		m.currentView = viewMain
		m.error = ""
		m.message = ""
		m.intakeInput.Blur()
		return m, nil, true
	}
	if key == "q" && m.currentView != viewIntake && m.currentView != viewLogin && !m.searching {
		return m, tea.Quit, true
	}
	return m, nil, false
}

func (m *Model) toggleLoginFocus() {
	if m.staffInput.Focused() {
		m.staffInput.Blur()
		m.passInput.Focus()
		return
	}
	m.passInput.Blur()
	m.staffInput.Focus()
}

// open switches to the screen behind a main menu entry
func (m Model) open(entry string) (Model, tea.Cmd) {
	m.error = ""
	m.message = ""

	switch entry {
	case menuExit:
		return m, tea.Quit
	case menuSignOut:
		m.client.token = ""
		m.currentView = viewLogin
		m.passInput.Blur()
		return m, m.staffInput.Focus()
	case menuKitchenOps:
		m.currentView = viewDashboard
		m.loading = true
		return m, fetchDashboard(m.client)
	case menuStockList:
		m.currentView = viewStock
		m.loading = true
		return m, fetchItems(m.client, m.query)
	case menuStockIntake:
		m.currentView = viewIntake
		return m, m.intakeInput.Focus()
	case menuDailySpecials:
		m.currentView = viewSpecials
		m.specials = nil
		return m, nil
	case menuReports:
		m.currentView = viewReports
		m.loading = true
		return m, fetchReport(m.client)
	}
	return m, nil
}

// Custom message types for the tea.Model
type loginMsg struct {
	staffID string
}

type dashboardMsg struct {
	dashboard *inventory.Dashboard
}

type itemsMsg struct {
	list *ItemList
}

type deletedMsg struct {
	id string
}

type intakeMsg struct {
	message string
}

type specialsMsg struct {
	specials *pantry.Specials
}

type reportMsg struct {
	report *inventory.Report
}

type errorMsg struct {
	err string
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func login(client *ApiClient, staffID, passcode string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		if err := client.Login(ctx, staffID, passcode); err != nil {
			return errorMsg{err: fmt.Sprintf("Error signing in: %v", err)}
		}
		return loginMsg{staffID: client.StaffID}
	}
}

func fetchDashboard(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		dash, err := client.GetDashboard(ctx)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching dashboard: %v", err)}
		}
		return dashboardMsg{dashboard: dash}
	}
}

func fetchItems(client *ApiClient, q inventory.Query) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		list, err := client.ListItems(ctx, q)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching items: %v", err)}
		}
		return itemsMsg{list: list}
	}
}

func deleteItem(client *ApiClient, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		if err := client.DeleteItem(ctx, id); err != nil {
			return errorMsg{err: fmt.Sprintf("Error removing item: %v", err)}
		}
		return deletedMsg{id: id}
	}
}

func runIntake(client *ApiClient, action intakeAction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		switch action.kind {
		case intakeScan:
			added, err := client.ScanItem(ctx, action.code)
			if err != nil {
				return errorMsg{err: fmt.Sprintf("Error scanning: %v", err)}
			}
			return intakeMsg{message: fmt.Sprintf("Added %s", added.Name)}

		case intakePhoto:
			result, err := client.UploadImage(ctx, action.path)
			if err != nil {
				return errorMsg{err: fmt.Sprintf("Error analysing photo: %v", err)}
			}
			if len(result.Items) == 0 {
				return intakeMsg{message: result.Message}
			}
			return intakeMsg{message: fmt.Sprintf("Added %d items: %s", len(result.Items), itemNames(result.Items))}

		default:
			added, err := client.AddItem(ctx, action.item)
			if err != nil {
				return errorMsg{err: fmt.Sprintf("Error adding item: %v", err)}
			}
			return intakeMsg{message: fmt.Sprintf("Added %s", added.Name)}
		}
	}
}

func suggestSpecials(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		specials, err := client.SuggestSpecials(ctx)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error generating specials: %v", err)}
		}
		return specialsMsg{specials: specials}
	}
}

func fetchReport(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		report, err := client.GetReports(ctx)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching reports: %v", err)}
		}
		return reportMsg{report: report}
	}
}

func itemNames(items []models.InventoryItem) string {
	names := ""
	for i, it := range items {
		if i > 0 {
			names += ", "
		}
		names += it.Name
	}
	return names
}

func main() {
	apiURL := flag.String("api", "", "KitchenOps API base URL (default $KITCHENOPS_API_URL or http://localhost:8080)")
	flag.Parse()

	client := NewApiClient(*apiURL)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := client.CheckHealth(ctx); err != nil {
		fmt.Printf("Warning: API server at %s is not available: %v\n", client.BaseURL, err)
	}
	cancel()

	p := tea.NewProgram(initialModel(client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}
