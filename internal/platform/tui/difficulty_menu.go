package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mergelife/internal/config"
	"github.com/vovakirdan/mergelife/internal/core"
)

// DifficultySelection holds the user's choice from the difficulty menu.
type DifficultySelection struct {
	Preset config.DifficultyPreset
}

// difficultyEntry pairs a preset with its menu line.
type difficultyEntry struct {
	preset config.DifficultyPreset
	label  string
}

var difficultyEntries = []difficultyEntry{
	{config.DifficultyEasy, "Easy (extra energy, gentle cost growth)"},
	{config.DifficultyNormal, "Normal (balanced economy)"},
	{config.DifficultyHard, "Hard (lean energy, steep cost growth)"},
	{config.DifficultyFixed, "Fixed (no progression, flat costs)"},
}

// DifficultyModel lets users choose a career difficulty preset.
type DifficultyModel struct {
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	selection DifficultySelection
	choosing  bool
	quitting  bool
	back      bool
}

// NewDifficultyModel creates a new difficulty selection model.
func NewDifficultyModel(width, height int) DifficultyModel {
	return DifficultyModel{
		cursor:    1, // Default to Normal
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m DifficultyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m DifficultyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m DifficultyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(difficultyEntries)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selection = DifficultySelection{Preset: difficultyEntries[m.cursor].preset}
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the difficulty selection.
func (m DifficultyModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("C A R E E R", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select difficulty:", m.width))
	b.WriteString("\n\n")

	for i, entry := range difficultyEntries {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, entry.label), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m DifficultyModel) Selected() *DifficultySelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m DifficultyModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m DifficultyModel) WantsBack() bool {
	return m.back
}

// RunDifficultySelector runs the difficulty selection and returns the
// choice. A nil selection means the user backed out or quit.
func RunDifficultySelector(cfg core.RuntimeConfig) (*DifficultySelection, core.RuntimeConfig, error) {
	model := NewDifficultyModel(cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, cfg, err
	}

	m, ok := finalModel.(DifficultyModel)
	if !ok {
		return nil, cfg, nil
	}

	if m.IsQuitting() || m.WantsBack() {
		return nil, cfg, nil
	}

	return m.Selected(), cfg, nil
}
