package confirm

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tracktidy/internal/metadata"
)

// Styles for the review form
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC")).
			Width(14)

	focusedLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#F8B500")).
				Width(14)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

var fieldLabels = []string{"Track", "Artist", "Album", "Album artist", "Genre", "Date"}

// formModel is the Bubble Tea model for one record review.
type formModel struct {
	key     string
	inputs  []textinput.Model
	focus   int
	aborted bool
}

func newFormModel(key string, record metadata.TrackRecord) formModel {
	values := []string{
		record.Track,
		record.Artist,
		record.AlbumName,
		record.AlbumArtist,
		record.Genre,
		record.Date,
	}
	inputs := make([]textinput.Model, len(values))
	for i, value := range values {
		ti := textinput.New()
		ti.SetValue(value)
		ti.CharLimit = 200
		ti.Width = 48
		inputs[i] = ti
	}
	inputs[0].Focus()
	return formModel{key: key, inputs: inputs}
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit

		case "enter":
			return m, tea.Quit

		case "tab", "down":
			m.setFocus((m.focus + 1) % len(m.inputs))
			return m, nil

		case "shift+tab", "up":
			m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *formModel) setFocus(index int) {
	m.inputs[m.focus].Blur()
	m.focus = index
	m.inputs[m.focus].Focus()
}

func (m formModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Review metadata"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.key))
	b.WriteString("\n\n")

	for i, input := range m.inputs {
		style := labelStyle
		if i == m.focus {
			style = focusedLabelStyle
		}
		b.WriteString(fmt.Sprintf("%s %s\n", style.Render(fieldLabels[i]), input.View()))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter: accept • tab: next field • esc: abort run"))
	return b.String()
}

// record assembles the edited values back into a track record.
func (m formModel) record() metadata.TrackRecord {
	return metadata.CleanRecord(metadata.TrackRecord{
		Key:         m.key,
		Track:       m.inputs[0].Value(),
		Artist:      m.inputs[1].Value(),
		AlbumName:   m.inputs[2].Value(),
		AlbumArtist: m.inputs[3].Value(),
		Genre:       m.inputs[4].Value(),
		Date:        m.inputs[5].Value(),
	})
}
