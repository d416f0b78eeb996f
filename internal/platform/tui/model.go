package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/game"
	"github.com/vovakirdan/mergelife/internal/storage"
)

// Model is the Bubble Tea model for running a single session.
type Model struct {
	session    *game.Session
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	resume     *storage.SaveGame
	quitting   bool
	runSaved   bool // Whether the run has been recorded for the current game over
}

// NewModel creates a new Bubble Tea model for the given session.
// If resume is non-nil the saved game is restored after the first reset.
func NewModel(session *game.Session, store *storage.Store, cfg core.RuntimeConfig, resume *storage.SaveGame) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		session:    session,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		resume:     resume,
	}
}

// Init initializes the model and starts the session.
func (m Model) Init() tea.Cmd {
	m.session.Reset(m.config)

	if m.resume != nil {
		if err := m.session.RestoreSave(m.resume); err != nil {
			m.session.SetStatus("Could not restore save, starting fresh")
		}
	}

	// Start the tick loop
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveGame()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		// Keep the run resumable when quitting mid-game
		if !m.gameState.GameOver {
			m.saveGame()
		}
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}
	case core.ActionNone, core.ActionBack:
		// Not used in standalone play
	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	m.session.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		// Reset seed for new run
		m.config.Seed = time.Now().UnixNano()
		m.session.Reset(m.config)
		m.gameState = m.session.State()
		m.runSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	// Run session simulation
	result := m.session.Step(m.inputFrame)
	m.gameState = result.State

	// Record the run on game over (once)
	if m.gameState.GameOver && !m.runSaved {
		if m.store != nil && m.gameState.Score > 0 {
			//nolint:errcheck // Best-effort save, session continues regardless
			m.store.SaveRun(m.session.Summary())
		}
		if m.store != nil {
			// The finished run makes the autosave stale
			//nolint:errcheck
			m.store.DeleteSave(autoSaveSlot)
		}
		m.runSaved = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// autoSaveSlot is the slot used for automatic saves and the Continue entry.
const autoSaveSlot = "auto"

// saveGame writes the current session to the autosave slot.
func (m *Model) saveGame() {
	if m.store == nil || m.gameState.GameOver {
		return
	}

	if err := m.store.SaveGame(m.session.SaveSnapshot(autoSaveSlot)); err != nil {
		m.session.SetStatus("Save failed")
		return
	}
	m.session.SetStatus("Game saved")
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// Render session to screen buffer
	m.session.Render(m.screen)

	// Convert screen to string
	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program for a single session.
func Run(session *game.Session, store *storage.Store, cfg core.RuntimeConfig, resume *storage.SaveGame) error {
	model := NewModel(session, store, cfg, resume)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
