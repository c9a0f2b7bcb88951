package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("My Items"))
	b.WriteString("\n\n")
	b.WriteString(m.formView())
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString(bannerStyle.BorderForeground(lipgloss.Color("9")).
			Render(errorStyle.Render("Error! ") + m.err))
		b.WriteString("\n")
	}
	if m.success != "" {
		b.WriteString(bannerStyle.BorderForeground(lipgloss.Color("42")).
			Render(successStyle.Render("Success! ") + m.success))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.listView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return panelStyle.Render(b.String())
}

func (m Model) formView() string {
	fieldLabel := func(text string, f focus) string {
		if m.focus == f {
			return focusedLabel.Render(text)
		}
		return labelStyle.Render(text)
	}

	button := buttonStyle.Render("Add Item")
	if m.loading {
		button = disabledStyle.Render("Adding...")
	}

	return strings.Join([]string{
		fieldLabel("Item Name:", focusName),
		m.name.View(),
		fieldLabel("Description (Optional):", focusDescription),
		m.description.View(),
		button,
	}, "\n")
}

func (m Model) listView() string {
	lines := []string{sectionLabel(m.focus == focusList, "Current Items")}

	switch {
	case m.loading && m.err == "":
		lines = append(lines, mutedStyle.Render("Loading items..."))
	case len(m.items) == 0 && !m.loading && m.err == "":
		lines = append(lines, mutedStyle.Render("No items found. Add some above!"))
	}

	for i, it := range m.items {
		prefix := "  "
		name := it.Name
		if m.focus == focusList && i == m.cursor {
			prefix = selectedStyle.Render("> ")
			name = selectedStyle.Render(name)
		}
		lines = append(lines, prefix+name)
		if it.Description != nil {
			lines = append(lines, "    "+*it.Description)
		}
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("    Added on: %s", it.Date.Local().Format("Jan 2, 2006"))))
	}
	return strings.Join(lines, "\n")
}

func sectionLabel(focused bool, text string) string {
	if focused {
		return focusedLabel.Render(text)
	}
	return headingStyle.Render(text)
}
