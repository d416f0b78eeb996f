// Package tui provides terminal UI components including SSH server support via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/mergelife/internal/config"
	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/event"
	"github.com/vovakirdan/mergelife/internal/game"
	"github.com/vovakirdan/mergelife/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.mergelife/host_key.
	HostKeyPath string

	// DBPath is the path to the runs database.
	DBPath string

	// ConfigPath is the path to a custom game config YAML.
	ConfigPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.mergelife/mergelife.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server for remote play.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	store   *storage.Store
	gameCfg config.GameConfig
	logger  *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "mergelife-ssh",
	})

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
		// Continue without storage
	}

	// Load the game config once, all sessions share it
	gameCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot load game config: %w", err)
	}

	srv := &SSHServer{
		config:  cfg,
		store:   store,
		gameCfg: gameCfg,
		logger:  logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".mergelife", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// Create runtime config from PTY size
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 30,
		Seed:     time.Now().UnixNano(),
	}

	// Create session model that handles menu + game flow
	model := NewSessionModel(s.store, &s.gameCfg, cfg, sshSession.User(), s.logger)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages the full remote play flow: menu -> game -> menu,
// with a stats screen reachable from the menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	store     *storage.Store
	gameCfg   *config.GameConfig
	config    core.RuntimeConfig
	username  string
	logger    *log.Logger
	menu      MenuModel
	stats     *StatsModel
	gameModel *GameModel
	bus       *event.Bus
	inGame    bool
	inStats   bool
	quitting  bool
}

// NewSessionModel creates a new session model.
// The game config pointer must outlive the model, it is shared by every
// run the player starts.
func NewSessionModel(store *storage.Store, gameCfg *config.GameConfig, cfg core.RuntimeConfig, username string, logger *log.Logger) SessionModel {
	return SessionModel{
		store:    store,
		gameCfg:  gameCfg,
		config:   cfg,
		username: username,
		logger:   logger,
		menu:     NewMenuModel(store, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch {
	case m.inGame && m.gameModel != nil:
		return m.updateGame(msg)
	case m.inStats && m.stats != nil:
		return m.updateStats(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	// Check if user quit
	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	// Check if user opened the stats screen
	if m.menu.WantsStats() {
		stats := NewStatsModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.stats = &stats
		m.inStats = true
		return m, m.stats.Init()
	}

	// Check if a mode was selected
	if selected := m.menu.Selected(); selected != nil {
		m.config = m.menu.Config() // Get possibly updated config from resize
		m.config.Seed = time.Now().UnixNano()

		var resume *storage.SaveGame
		if selected.Resume && m.store != nil {
			if save, err := m.store.LoadGame(autoSaveSlot); err == nil {
				resume = save
			}
		}

		// Per-player event bus, drained into the server log
		bus := event.NewBus(0)
		go drainEvents(bus, m.logger, m.username)
		m.bus = bus

		sess := game.New(m.gameCfg, selected.Mode, bus, m.logger)

		gameModel := NewGameModel(sess, m.store, m.config, resume)
		m.gameModel = &gameModel
		m.inGame = true

		return m, m.gameModel.Init()
	}

	return m, cmd
}

// updateStats handles updates when the stats screen is open.
func (m SessionModel) updateStats(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	newStats, cmd := m.stats.Update(msg)
	if statsModel, ok := newStats.(StatsModel); ok {
		m.stats = &statsModel
	}

	if m.stats.IsGoingBack() {
		m.inStats = false
		m.stats = nil
		m.menu = NewMenuModel(m.store, m.config)
		return m, m.menu.Init()
	}

	if m.stats.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	// Check if user quit game (back to menu)
	if m.gameModel.BackToMenu() {
		m.closeBus()
		m.inGame = false
		m.gameModel = nil
		// Reset menu state so a fresh autosave shows up
		m.menu = NewMenuModel(m.store, m.config)
		return m, m.menu.Init()
	}

	// Check if user quit entirely
	if m.gameModel.IsQuitting() {
		m.closeBus()
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// closeBus shuts down the per-game event bus.
func (m *SessionModel) closeBus() {
	if m.bus != nil {
		m.bus.Close()
		m.bus = nil
	}
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.inGame && m.gameModel != nil:
		return m.gameModel.View()
	case m.inStats && m.stats != nil:
		return m.stats.View()
	}
	return m.menu.View()
}

// drainEvents forwards game events to the server log until the bus
// closes, then flushes whatever is still buffered.
func drainEvents(bus *event.Bus, logger *log.Logger, user string) {
	for {
		select {
		case e := <-bus.Events():
			logEvent(logger, user, e)
		case <-bus.Done():
			for {
				select {
				case e := <-bus.Events():
					logEvent(logger, user, e)
				default:
					return
				}
			}
		}
	}
}

// logEvent records one game event. Placement events are too chatty to log.
func logEvent(logger *log.Logger, user string, e event.Event) {
	if logger == nil {
		return
	}
	switch ev := e.(type) {
	case event.PatternExecuted:
		logger.Debug("pattern executed",
			"user", user,
			"kind", ev.Kind,
			"type", ev.Type,
			"cells", len(ev.Cells),
			"score", ev.Score,
		)
	case event.PlayerStateChanged:
		logger.Debug("player state changed",
			"user", user,
			"level", ev.Level,
			"reason", ev.Reason,
		)
	}
}

// GameModel wraps a running session with back-to-menu capability.
type GameModel struct {
	session    *game.Session
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	resume     *storage.SaveGame
	quitting   bool
	backToMenu bool
	runSaved   bool
}

// NewGameModel creates a new game model for the menu flow.
func NewGameModel(session *game.Session, store *storage.Store, cfg core.RuntimeConfig, resume *storage.SaveGame) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		session:    session,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		resume:     resume,
	}
}

// Init initializes the game.
func (m GameModel) Init() tea.Cmd {
	m.session.Reset(m.config)

	if m.resume != nil {
		if err := m.session.RestoreSave(m.resume); err != nil {
			m.session.SetStatus("Could not restore save, starting fresh")
		}
	}

	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.session.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveGame()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		if !m.gameState.GameOver {
			m.saveGame()
		}
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		// Back to menu when the run is over or paused
		if m.gameState.GameOver || m.gameState.Paused {
			if !m.gameState.GameOver {
				m.saveGame()
			}
			m.backToMenu = true
			return m, nil
		}
	case core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
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
			//nolint:errcheck // Best-effort save
			m.store.SaveRun(m.session.Summary())
		}
		if m.store != nil {
			//nolint:errcheck
			m.store.DeleteSave(autoSaveSlot)
		}
		m.runSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveGame writes the current session to the autosave slot.
func (m *GameModel) saveGame() {
	if m.store == nil || m.gameState.GameOver {
		return
	}

	if err := m.store.SaveGame(m.session.SaveSnapshot(autoSaveSlot)); err != nil {
		m.session.SetStatus("Save failed")
		return
	}
	m.session.SetStatus("Game saved")
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.session.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
