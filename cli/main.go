package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
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

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#ffd60a")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)
)

const (
	viewMain      = "main"
	viewInventory = "inventory"
	viewMenu      = "menu"
	viewSummary   = "summary"
)

// Model defines the application state
type Model struct {
	mainMenu      list.Model
	inventoryView table.Model
	menuList      list.Model
	summary       *Summary
	spinner       spinner.Model
	client        *ApiClient
	loading       bool
	currentView   string
	status        string
	error         string
}

// item represents a main menu entry
type item struct {
	title, desc string
}

func (i item) FilterValue() string { return i.title }
func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }

// menuEntry represents a dish in the menu list
type menuEntry struct {
	MenuItem
}

func (m menuEntry) Title() string       { return m.Name }
func (m menuEntry) FilterValue() string { return m.Name }
func (m menuEntry) Description() string {
	state := "available"
	if !m.IsAvailable {
		state = "UNAVAILABLE"
	}
	return fmt.Sprintf("%s - %s - %s", m.Category, m.Price, state)
}

func initialModel(client *ApiClient) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := []list.Item{
		item{title: "Inventory", desc: "Stock levels and status of every ingredient"},
		item{title: "Menu", desc: "Menu availability; deduct or restore orders"},
		item{title: "Summary", desc: "Stock value and items to reorder"},
		item{title: "Exit", desc: "Exit the application"},
	}
	mainMenu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "RestoPlus Inventory"

	columns := []table.Column{
		{Title: "SKU", Width: 10},
		{Title: "Name", Width: 22},
		{Title: "On hand", Width: 12},
		{Title: "Reorder at", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Stock %", Width: 8},
	}
	inventoryTable := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	menuList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	menuList.Title = "Menu"

	return Model{
		mainMenu:      mainMenu,
		inventoryView: inventoryTable,
		menuList:      menuList,
		spinner:       s,
		client:        client,
		currentView:   viewMain,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen)
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.mainMenu.SetSize(msg.Width-h, msg.Height-v)
		m.menuList.SetSize(msg.Width-h, msg.Height-v-4)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.currentView != viewMain {
				m.currentView = viewMain
				m.status, m.error = "", ""
				return m, nil
			}
		case "enter":
			if m.currentView == viewMain {
				selected, ok := m.mainMenu.SelectedItem().(item)
				if !ok {
					break
				}
				switch selected.title {
				case "Exit":
					return m, tea.Quit
				case "Inventory":
					m.currentView = viewInventory
					m.loading = true
					return m, fetchInventory(m.client)
				case "Menu":
					m.currentView = viewMenu
					m.loading = true
					return m, fetchMenu(m.client)
				case "Summary":
					m.currentView = viewSummary
					m.loading = true
					return m, fetchSummary(m.client)
				}
			}
		case "r":
			switch m.currentView {
			case viewInventory:
				return m, fetchInventory(m.client)
			case viewSummary:
				return m, fetchSummary(m.client)
			}
		case "a", "d", "u":
			if m.currentView != viewMenu {
				break
			}
			selected, ok := m.menuList.SelectedItem().(menuEntry)
			if !ok {
				break
			}
			switch msg.String() {
			case "a":
				return m, checkAvailability(m.client, selected.MenuItem)
			case "d":
				return m, deductOrder(m.client, selected.MenuItem)
			case "u":
				return m, restoreOrder(m.client, selected.MenuItem)
			}
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case inventoryMsg:
		m.loading = false
		m.inventoryView.SetRows(inventoryRows(msg.items))
		return m, nil
	case menuMsg:
		m.loading = false
		m.menuList.SetItems(menuItems(msg.items))
		return m, nil
	case summaryMsg:
		m.loading = false
		m.summary = msg.summary
		return m, nil
	case errorMsg:
		m.loading = false
		m.error = msg.err
		m.status = ""
		return m, nil
	case confirmMsg:
		m.error = ""
		m.status = msg.message
		return m, fetchMenu(m.client)
	}

	var cmd tea.Cmd
	switch m.currentView {
	case viewMain:
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case viewInventory:
		m.inventoryView, cmd = m.inventoryView.Update(msg)
	case viewMenu:
		m.menuList, cmd = m.menuList.Update(msg)
	}
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	var body string
	switch m.currentView {
	case viewMain:
		return docStyle.Render(m.mainMenu.View())
	case viewInventory:
		body = titleStyle.Render("Inventory") + "\n\n" + m.inventoryView.View() +
			"\nPress 'r' to refresh, 'esc' to go back\n"
	case viewMenu:
		body = m.menuList.View() +
			"\nPress 'a' to check, 'd' to deduct one order, 'u' to restore one order, 'esc' to go back\n"
	case viewSummary:
		body = titleStyle.Render("Stock Summary") + "\n\n" + summaryView(m.summary) +
			"\nPress 'r' to refresh, 'esc' to go back\n"
	default:
		return "Loading..."
	}

	if m.loading {
		body += m.spinner.View() + " loading\n"
	}
	if m.status != "" {
		body += m.status + "\n"
	}
	if m.error != "" {
		body += errorStyle.Render(m.error) + "\n"
	}
	return docStyle.Render(body)
}

type inventoryMsg struct {
	items []InventoryItem
}

type menuMsg struct {
	items []MenuItem
}

type summaryMsg struct {
	summary *Summary
}

type errorMsg struct {
	err string
}

type confirmMsg struct {
	message string
}

func fetchInventory(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		items, err := client.GetInventory("")
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching inventory: %v", err)}
		}
		return inventoryMsg{items: items}
	}
}

func fetchMenu(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		items, err := client.GetMenu()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching menu: %v", err)}
		}
		return menuMsg{items: items}
	}
}

func fetchSummary(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		s, err := client.GetSummary()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching summary: %v", err)}
		}
		return summaryMsg{summary: s}
	}
}

func checkAvailability(client *ApiClient, mi MenuItem) tea.Cmd {
	return func() tea.Msg {
		a, err := client.CheckAvailability(mi.ID, 1)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error checking %s: %v", mi.Name, err)}
		}
		return confirmMsg{message: availabilityView(mi.Name, a)}
	}
}

func deductOrder(client *ApiClient, mi MenuItem) tea.Cmd {
	return func() tea.Msg {
		ok, a, err := client.DeductOrder(mi.ID, 1)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error deducting %s: %v", mi.Name, err)}
		}
		if !ok {
			return confirmMsg{message: availabilityView(mi.Name, a)}
		}
		return confirmMsg{message: successStyle.Render(fmt.Sprintf("Deducted one %s", mi.Name))}
	}
}

func restoreOrder(client *ApiClient, mi MenuItem) tea.Cmd {
	return func() tea.Msg {
		if err := client.RestoreOrder(mi.ID, 1); err != nil {
			return errorMsg{err: fmt.Sprintf("Error restoring %s: %v", mi.Name, err)}
		}
		return confirmMsg{message: infoStyle.Render(fmt.Sprintf("Restored one %s", mi.Name))}
	}
}

func inventoryRows(items []InventoryItem) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, table.Row{
			it.SKU,
			it.Name,
			it.Display,
			it.ReorderLevel + " " + it.Unit,
			it.Status,
			it.StockPercentage,
		})
	}
	return rows
}

func menuItems(items []MenuItem) []list.Item {
	out := make([]list.Item, len(items))
	for i, mi := range items {
		out[i] = menuEntry{mi}
	}
	return out
}

// availabilityView renders an availability answer on one or more lines
func availabilityView(name string, a *Availability) string {
	if a == nil {
		return warnStyle.Render(name + ": not available")
	}
	switch a.Status {
	case "available":
		return successStyle.Render(name + ": available")
	case "no_recipe":
		return warnStyle.Render(name + ": no recipe registered")
	case "missing_ingredient":
		return warnStyle.Render(fmt.Sprintf("%s: missing ingredients %s", name, strings.Join(a.MissingItems, ", ")))
	}
	lines := []string{warnStyle.Render(name + ": insufficient stock")}
	for _, s := range a.Shortages {
		lines = append(lines, fmt.Sprintf("  %s needs %s %s, has %s", s.Name, s.Required, s.Unit, s.OnHand))
	}
	return strings.Join(lines, "\n")
}

func summaryView(s *Summary) string {
	if s == nil {
		return "No data yet\n"
	}
	view := fmt.Sprintf("Items: %d\n", s.TotalItems)
	view += fmt.Sprintf("Low stock: %d\n", s.LowStock)
	view += fmt.Sprintf("Critical: %d\n", s.CriticalStock)
	view += fmt.Sprintf("Out of stock: %d\n", s.OutOfStock)
	view += "\nStock value:\n"
	for currency, amount := range s.TotalValue {
		view += fmt.Sprintf("  %s\n", Money{Amount: amount, Currency: currency})
	}
	if len(s.NeedsReorder) > 0 {
		view += "\nReorder: " + strings.Join(s.NeedsReorder, ", ") + "\n"
	}
	return view
}

func main() {
	client := NewApiClient()
	if _, err := client.CheckHealth(); err != nil {
		fmt.Printf("API server at %s is not available: %v\n", client.BaseURL, err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(client))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}
