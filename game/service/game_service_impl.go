package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/tapmerge/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	log      *logrus.Entry
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		log:      logrus.WithField("component", "service"),
	}
}

// getConfigID returns the config_id for a preset display name, used for consistent responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		BoardState:     sess.Engine.GetState(),
		BoardConfig:    sess.Config,
	}
}

// CreateSession creates a new board from a preset, or from the default preset
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.BoardConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				var configIDs []string
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, fmt.Errorf("failed to load config '%s' (available configs: %v): %w", configName, configIDs, err)
			}
			return nil, fmt.Errorf("failed to load config '%s': %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let the session manager generate a 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	s.log.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"config":     configID,
	}).Info("Session created")

	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	// touch writes LastAccessedAt, which ListSessions reads under the read lock
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.touch(sessionID)
	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.log.WithField("session_id", sessionID).Info("Session deleted")
	return nil
}

// Tap applies the tap rule at (col, row). An out-of-range tap is reported as an
// unsuccessful outcome, not an error.
func (s *gameServiceImpl) Tap(ctx context.Context, sessionID string, col, row int, reset bool) (*TapOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.touch(sessionID)

	events := []GameEvent{}
	if reset {
		if _, err := sess.Engine.Reset(); err != nil {
			return nil, err
		}
		events = append(events, resetEvent())
	}

	result, err := sess.Engine.Tap(col, row)
	state := sess.Engine.GetState()
	outcome := &TapOutcome{
		BoardState: state,
		Events:     events,
		Grid:       engine.RenderGrid(state),
	}

	if err != nil {
		if !errors.Is(err, engine.ErrOutOfRange) {
			return nil, err
		}
		outcome.Message = err.Error()
		s.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"col":        col,
			"row":        row,
		}).Debug("Tap rejected")
		return outcome, nil
	}

	outcome.Success = true
	outcome.Result = result
	outcome.Events = append(outcome.Events, tapEvents(result)...)
	outcome.Message = describeTap(result)

	s.log.WithFields(logrus.Fields{
		"session_id":   sessionID,
		"col":          col,
		"row":          row,
		"interactions": len(result.Interactions),
		"dropped":      len(result.Dropped),
	}).Debug("Tap applied")

	return outcome, nil
}

// BulkTap applies taps in order, stopping at the first out-of-range one
func (s *gameServiceImpl) BulkTap(ctx context.Context, sessionID string, taps []engine.Position, reset bool) (*BulkTapResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.touch(sessionID)

	result := &BulkTapResult{
		RequestedTaps: len(taps),
		Events:        make([]GameEvent, 0),
		Success:       true,
	}

	if reset {
		if _, err := sess.Engine.Reset(); err != nil {
			return nil, err
		}
		result.Events = append(result.Events, resetEvent())
	}

	start := sess.Engine.GetState()
	result.StartMaxValue = start.MaxValue
	result.StartBlanks = start.Blanks

	// Limit taps to prevent abuse
	if len(taps) > engine.MaxBulkTaps {
		result.Truncated = true
		result.Limit = engine.MaxBulkTaps
		taps = taps[:engine.MaxBulkTaps]
	}

	for i, pos := range taps {
		if err := ctx.Err(); err != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("cancelled before tap %d: %v", i+1, err)
			result.StoppedOnTap = i + 1
			break
		}

		tapResult, err := sess.Engine.Tap(pos.Col, pos.Row)
		if err != nil {
			if !errors.Is(err, engine.ErrOutOfRange) {
				return nil, err
			}
			result.Success = false
			result.StoppedReason = fmt.Sprintf("tap %d rejected: %v", i+1, err)
			result.StoppedOnTap = i + 1
			break
		}

		result.TapsExecuted++
		result.Results = append(result.Results, tapResult)
		result.Events = append(result.Events, tapEvents(tapResult)...)
		for _, ia := range tapResult.Interactions {
			if ia.Kind == engine.Merge {
				result.Merges++
			}
		}
		result.Drops += len(tapResult.Dropped)
	}

	end := sess.Engine.GetState()
	result.BoardState = end
	result.EndMaxValue = end.MaxValue
	result.EndBlanks = end.Blanks
	result.Grid = engine.RenderGrid(end)

	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"requested":  result.RequestedTaps,
		"executed":   result.TapsExecuted,
	}).Debug("Bulk tap applied")

	return result, nil
}

// Reset rebuilds a session's board from its preset
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.touch(sessionID)
	state, err := sess.Engine.Reset()
	if err != nil {
		return nil, err
	}
	s.log.WithField("session_id", sessionID).Info("Board reset")
	return state, nil
}

// GetBoardState retrieves the current board
func (s *gameServiceImpl) GetBoardState(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.touch(sessionID)
	return sess.Engine.GetState(), nil
}

// GetTapHistory returns paginated tap history
func (s *gameServiceImpl) GetTapHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetTapHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	taps := []engine.TapHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				taps = append(taps, history[i])
			}
		} else {
			taps = append(taps, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Taps:        taps,
		TotalTaps:   total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available board presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific board preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a board preset to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func (s *gameServiceImpl) touch(sessionID string) {
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).Warn("Failed to update last access time")
	}
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      EventReset,
		Message:   "Board rebuilt from its preset",
		Timestamp: time.Now(),
	}
}

// tapEvents turns a tap result into a "tap" event followed by one event per
// interaction and a "drop" event per filled tile
func tapEvents(result *engine.TapResult) []GameEvent {
	now := time.Now()
	events := []GameEvent{{
		Type:      EventTap,
		Message:   fmt.Sprintf("Tapped (%d,%d)", result.Target.Col, result.Target.Row),
		Timestamp: now,
		Position:  result.Target,
	}}

	for _, ia := range result.Interactions {
		var eventType, msg string
		switch ia.Kind {
		case engine.Merge:
			eventType = EventMerge
			msg = fmt.Sprintf("Merged %d from (%d,%d) into %d", ia.SourceBefore, ia.Source.Col, ia.Source.Row, ia.TargetAfter)
		case engine.Shift:
			eventType = EventMove
			msg = fmt.Sprintf("Moved %d from (%d,%d)", ia.SourceBefore, ia.Source.Col, ia.Source.Row)
		default:
			eventType = EventToggle
			msg = fmt.Sprintf("Armed flag passed from (%d,%d)", ia.Source.Col, ia.Source.Row)
		}
		events = append(events, GameEvent{
			Type:      eventType,
			Message:   msg,
			Timestamp: now,
			Position:  ia.Source,
		})
	}

	for _, pos := range result.Dropped {
		events = append(events, GameEvent{
			Type:      EventDrop,
			Message:   fmt.Sprintf("A 1 dropped into (%d,%d)", pos.Col, pos.Row),
			Timestamp: now,
			Position:  pos,
		})
	}

	return events
}

func describeTap(result *engine.TapResult) string {
	if len(result.Interactions) == 0 && len(result.Dropped) == 0 {
		return fmt.Sprintf("Tapped (%d,%d): no armed neighbours", result.Target.Col, result.Target.Row)
	}
	return fmt.Sprintf("Tapped (%d,%d): %d interaction(s), %d drop(s)",
		result.Target.Col, result.Target.Row, len(result.Interactions), len(result.Dropped))
}
