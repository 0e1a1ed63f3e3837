package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sukalov/karaokemadness/internal/schedule"
)

// Session is the part of a running game that survives a bot restart. The
// assignment itself is not stored: it is recomputed from the seed,
// difficulty and player count, which the scheduler guarantees reproduces
// the exact same split.
type Session struct {
	ChatID      int64               `json:"chat_id"`
	SongID      string              `json:"song_id"`
	SongName    string              `json:"song_name"`
	PlayerNames []string            `json:"player_names"`
	Difficulty  schedule.Difficulty `json:"difficulty"`
	Seed        int64               `json:"seed"`
	Stage       string              `json:"stage"`
	TimeAdded   time.Time           `json:"time_added"`
}

const (
	StageAskingPlayers = "asking_players"
	StageSinging       = "singing"
)

// Store persists the session list between restarts.
type Store interface {
	SetSessions(ctx context.Context, sessions []Session) error
	GetSessions(ctx context.Context) ([]Session, error)
}

// Config carries the UI-level bounds; the scheduler itself only enforces
// playerCount >= 1.
type Config struct {
	MinPlayers        int
	MaxPlayers        int
	DefaultDifficulty schedule.Difficulty
}

type game struct {
	session    Session
	lines      []schedule.Line
	sections   []schedule.SectionInfo
	assignment schedule.PlayerAssignment
}

// Manager holds one game per chat and mirrors the session list to the
// store on every change.
type Manager struct {
	mu    sync.RWMutex
	games map[int64]*game
	store Store
	cfg   Config
}

func NewManager(store Store, cfg Config) *Manager {
	return &Manager{
		games: make(map[int64]*game),
		store: store,
		cfg:   cfg,
	}
}

// Init reloads persisted sessions. resolve maps a song ID back to its
// timed lyrics; sessions whose song disappeared from the songbook are
// dropped. Assignments for singing sessions are regenerated from the
// stored seed.
func (m *Manager) Init(ctx context.Context, resolve func(songID string) ([]schedule.Line, []schedule.SectionInfo, bool)) error {
	sessions, err := m.store.GetSessions(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, session := range sessions {
		lines, sections, ok := resolve(session.SongID)
		if !ok {
			continue
		}
		g := &game{session: session, lines: lines, sections: sections}
		if session.Stage == StageSinging {
			assignment, genErr := schedule.Generate(lines, sections, len(session.PlayerNames), session.Difficulty, session.Seed)
			if genErr != nil {
				continue
			}
			g.assignment = assignment
		}
		m.games[session.ChatID] = g
	}
	return nil
}

// BeginSetup opens a session in the asking_players stage. One game per
// chat at a time.
func (m *Manager) BeginSetup(ctx context.Context, session Session, lines []schedule.Line, sections []schedule.SectionInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.games[session.ChatID]; exists {
		return fmt.Errorf("chat %d already has a game", session.ChatID)
	}
	session.Stage = StageAskingPlayers
	session.TimeAdded = time.Now()
	m.games[session.ChatID] = &game{session: session, lines: lines, sections: sections}
	return m.syncLocked(ctx)
}

// Session returns the chat's session at any stage.
func (m *Manager) Session(chatID int64) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.games[chatID]
	if !ok {
		return Session{}, false
	}
	return g.session, true
}

// StartGame fixes the player list, draws the first assignment and moves
// the session to the singing stage.
func (m *Manager) StartGame(ctx context.Context, chatID int64, names []string, seed int64) (schedule.PlayerAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.games[chatID]
	if !ok {
		return schedule.PlayerAssignment{}, fmt.Errorf("no game being set up in chat %d", chatID)
	}
	if len(names) < m.cfg.MinPlayers || len(names) > m.cfg.MaxPlayers {
		return schedule.PlayerAssignment{}, fmt.Errorf("need between %d and %d players, got %d", m.cfg.MinPlayers, m.cfg.MaxPlayers, len(names))
	}

	assignment, err := schedule.Generate(g.lines, g.sections, len(names), m.cfg.DefaultDifficulty, seed)
	if err != nil {
		return schedule.PlayerAssignment{}, err
	}

	g.session.PlayerNames = names
	g.session.Difficulty = m.cfg.DefaultDifficulty
	g.session.Seed = seed
	g.session.Stage = StageSinging
	g.assignment = assignment
	return assignment, m.syncLocked(ctx)
}

// SetDifficulty reruns the pipeline with the same seed at a new
// granularity.
func (m *Manager) SetDifficulty(ctx context.Context, chatID int64, difficulty schedule.Difficulty) (schedule.PlayerAssignment, error) {
	return m.regenerate(ctx, chatID, func(s *Session) { s.Difficulty = difficulty })
}

// Reshuffle discards the old assignment and draws a fresh one from a new
// seed.
func (m *Manager) Reshuffle(ctx context.Context, chatID int64, seed int64) (schedule.PlayerAssignment, error) {
	return m.regenerate(ctx, chatID, func(s *Session) { s.Seed = seed })
}

func (m *Manager) regenerate(ctx context.Context, chatID int64, change func(*Session)) (schedule.PlayerAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.games[chatID]
	if !ok || g.session.Stage != StageSinging {
		return schedule.PlayerAssignment{}, fmt.Errorf("no running game in chat %d", chatID)
	}

	next := g.session
	change(&next)
	assignment, err := schedule.Generate(g.lines, g.sections, len(next.PlayerNames), next.Difficulty, next.Seed)
	if err != nil {
		return schedule.PlayerAssignment{}, err
	}

	g.session = next
	g.assignment = assignment
	return assignment, m.syncLocked(ctx)
}

// Assignment returns the current split for rendering.
func (m *Manager) Assignment(chatID int64) (schedule.PlayerAssignment, Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.games[chatID]
	if !ok || g.session.Stage != StageSinging {
		return schedule.PlayerAssignment{}, Session{}, false
	}
	return g.assignment, g.session, true
}

// Finish computes the game stats, removes the session and returns both.
func (m *Manager) Finish(ctx context.Context, chatID int64) (schedule.GameStats, Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.games[chatID]
	if !ok || g.session.Stage != StageSinging {
		return schedule.GameStats{}, Session{}, fmt.Errorf("no running game in chat %d", chatID)
	}

	stats := schedule.ComputeStats(g.assignment, g.session.PlayerNames)
	session := g.session
	delete(m.games, chatID)
	return stats, session, m.syncLocked(ctx)
}

// Abort drops a session at any stage.
func (m *Manager) Abort(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.games[chatID]; !ok {
		return fmt.Errorf("no game in chat %d", chatID)
	}
	delete(m.games, chatID)
	return m.syncLocked(ctx)
}

func (m *Manager) syncLocked(ctx context.Context) error {
	sessions := make([]Session, 0, len(m.games))
	for _, g := range m.games {
		sessions = append(sessions, g.session)
	}
	if err := m.store.SetSessions(ctx, sessions); err != nil {
		fmt.Printf("error happened while saving sessions: %s", err)
		return err
	}
	return nil
}
