package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// FunctionInfo describes one miniserver function for display
type FunctionInfo struct {
	Name     string
	UUID     string
	Type     string
	Room     string
	Category string
}

// PrintFunctionList displays the discovered miniserver functions grouped by room
func PrintFunctionList(functions []FunctionInfo) {
	if len(functions) == 0 {
		fmt.Println(Warning("No functions discovered on the miniserver"))
		return
	}

	fmt.Println(Title("Miniserver functions"))
	fmt.Println()

	currentRoom := "\x00"
	for _, fn := range functions {
		if fn.Room != currentRoom {
			currentRoom = fn.Room
			room := fn.Room
			if room == "" {
				room = "(no room)"
			}
			fmt.Println(FunctionRoomStyle.Render(room))
		}

		meta := fn.Type
		if fn.Category != "" {
			meta += " · " + fn.Category
		}
		fmt.Printf("  %s  %s  %s\n",
			FunctionNameStyle.Render(padRight(fn.Name, 28)),
			FunctionUUIDStyle.Render(fn.UUID),
			FunctionMetaStyle.Render(meta),
		)
	}

	fmt.Println()
	fmt.Println(Muted(fmt.Sprintf("%d function(s). Use the uuid in mapping commands, e.g.", len(functions))))
	fmt.Println(Muted("  commands: [\"virtual_input:<uuid>:on\"]"))
}

// PrintMappingSnippet prints a ready-to-paste mapping entry for a function
func PrintMappingSnippet(fn FunctionInfo) {
	fmt.Println()
	fmt.Println(Bold(fn.Name))
	if fn.Room != "" {
		fmt.Println(Muted("Room: " + fn.Room))
	}
	fmt.Println()
	fmt.Println(Muted("Add to the mappings section of your config:"))
	snippet := fmt.Sprintf(`  - button: <button>
    action: single_press
    commands:
      - "virtual_input:%s:on"`, fn.UUID)
	fmt.Println(snippet)
}

// functionSelectModel wraps the huh form in Bubble Tea for escape handling
type functionSelectModel struct {
	form    *huh.Form
	aborted bool
}

func (m functionSelectModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m functionSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, tea.Quit
	}

	return m, cmd
}

func (m functionSelectModel) View() string {
	if m.form.State == huh.StateCompleted {
		return ""
	}
	return m.form.View()
}

// SelectFunction presents an interactive picker over the discovered
// functions and returns the chosen one, or nil if the user cancelled.
func SelectFunction(functions []FunctionInfo) (*FunctionInfo, error) {
	if len(functions) == 0 {
		return nil, fmt.Errorf("no functions to select from")
	}

	options := make([]huh.Option[int], len(functions))
	for i, fn := range functions {
		label := fmt.Sprintf("%s  %s",
			FunctionNameStyle.Render(padRight(fn.Name, 28)),
			FunctionMetaStyle.Render(functionLocation(fn)),
		)
		options[i] = huh.NewOption(label, i)
	}

	var selectedIndex int

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Select miniserver function").
				Description("Choose a function to generate a mapping for (esc to cancel)").
				Options(options...).
				Value(&selectedIndex),
		),
	).WithShowHelp(false)

	model := functionSelectModel{form: form}

	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m := finalModel.(functionSelectModel)
	if m.aborted {
		return nil, nil // User cancelled
	}

	return &functions[selectedIndex], nil
}

func functionLocation(fn FunctionInfo) string {
	var parts []string
	if fn.Room != "" {
		parts = append(parts, fn.Room)
	}
	if fn.Type != "" {
		parts = append(parts, fn.Type)
	}
	return strings.Join(parts, " · ")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
