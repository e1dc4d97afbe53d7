// Package adventure runs a narrated adventure for a finished character. A
// Session owns one conversation with the narrator and the transcript of
// everything said in it.
package adventure

import (
	"bytes"
	"context"
	_ "embed"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"text/template"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/tatianab/onepage/internal/engine"
	"github.com/tatianab/onepage/internal/errors"
	"github.com/tatianab/onepage/internal/models"
	"github.com/tatianab/onepage/internal/pkg/clock"
	"github.com/tatianab/onepage/internal/pkg/idgen"
	"github.com/tatianab/onepage/internal/roll"
	"github.com/tatianab/onepage/internal/rules"
)

//go:embed prompts/system_instruction.txt
var systemInstructionPrompt string

//go:embed prompts/travel.txt
var travelPrompt string

var (
	systemInstructionTemplate = template.Must(template.New("system_instruction").Parse(systemInstructionPrompt))
	travelTemplate            = template.Must(template.New("travel").Parse(travelPrompt))
)

const (
	DefaultSetting     = "Fantasy World"
	DefaultGoal        = "Explore and survive"
	DefaultTemperature = float32(0.9)

	// OpeningMessage is sent on the player's behalf to get the story going.
	OpeningMessage = "Begin the adventure."

	StartFailureText   = "The mists of Ravenloft... err, the adventure fails to load. (API Error)"
	NotInitializedText = "Error: Game session not initialized."
	SilentText         = "The spirits are silent. (API Error)"
)

// State is the lifecycle position of a session.
type State int

const (
	StateUninitialized State = iota
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "uninitialized"
}

// Params is the free-text framing of an adventure.
type Params struct {
	Setting string
	Goal    string
	Notes   string
}

// Encounter is the monster group rolled on a travel.
type Encounter struct {
	Monster rules.Monster
	Count   int
}

// TravelResult describes what happened on the way to a new area.
type TravelResult struct {
	Event     rules.RandomEvent
	Encounter *Encounter
	// Prompt is the action submitted to the narrator.
	Prompt string
	Reply  string
}

// Config holds the dependencies for a Session
type Config struct {
	Narrator engine.Narrator
	Roller   dice.Roller
	// Rules defaults to rules.Default().
	Rules       *rules.Tables
	Clock       clock.Clock
	IDGenerator idgen.Generator
	Logger      *slog.Logger
	// Temperature defaults to DefaultTemperature.
	Temperature float32
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Narrator == nil {
		vb.RequiredField("Narrator")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		vb.Fieldf("Temperature", "must be between 0 and 2, got %v", c.Temperature)
	}

	return vb.Build()
}

// Session is one adventure. All methods are safe for concurrent use, but
// only one narrated turn may be outstanding at a time.
type Session struct {
	id          string
	narrator    engine.Narrator
	roller      dice.Roller
	rules       *rules.Tables
	clock       clock.Clock
	logger      *slog.Logger
	temperature float32

	mu         sync.Mutex
	state      State
	params     Params
	conv       engine.Conversation
	transcript []models.ChatMessage
	lastEvent  *rules.RandomEvent
	busy       bool
	// epoch changes on every Restart so late replies can be recognised.
	epoch uint64
}

// New creates an uninitialized session.
func New(cfg *Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &Session{
		narrator:    cfg.Narrator,
		roller:      cfg.Roller,
		rules:       cfg.Rules,
		clock:       cfg.Clock,
		temperature: cfg.Temperature,
	}
	if s.rules == nil {
		s.rules = rules.Default()
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.temperature == 0 {
		s.temperature = DefaultTemperature
	}

	ids := cfg.IDGenerator
	if ids == nil {
		ids = idgen.NewUUID("adv")
	}
	s.id = ids.Generate()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s.logger = logger.With("session_id", s.id)

	return s, nil
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Params returns the framing given to the last Start.
func (s *Session) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Busy reports whether a narrated turn is outstanding.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Transcript returns a copy of the messages exchanged so far, oldest first.
func (s *Session) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.transcript)
}

// LastEvent returns the most recently rolled random event.
func (s *Session) LastEvent() (rules.RandomEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastEvent == nil {
		return rules.RandomEvent{}, false
	}
	return *s.lastEvent, true
}

// SystemInstruction renders the narrator briefing for a character.
func SystemInstruction(tables *rules.Tables, c models.Character, p Params) (string, error) {
	type stat struct {
		Code     rules.Ability
		Score    int
		Modifier string
	}

	stats := make([]stat, len(rules.Abilities))
	for i, a := range rules.Abilities {
		stats[i] = stat{Code: a, Score: c.Abilities[a], Modifier: rules.FormatModifier(c.Modifier(a))}
	}

	label := ""
	if info, ok := tables.Archetype(c.Archetype); ok {
		label = info.Label
	}

	data := struct {
		Name        string
		Level       int
		Archetype   rules.Archetype
		Label       string
		Stats       []stat
		CurrentHP   int
		MaxHP       int
		ArmorClass  int
		Proficiency int
		Equipment   string
		Spells      string
		Setting     string
		Goal        string
		Notes       string
	}{
		Name:        c.Name,
		Level:       c.Level,
		Archetype:   c.Archetype,
		Label:       label,
		Stats:       stats,
		CurrentHP:   c.CurrentHP,
		MaxHP:       c.MaxHP,
		ArmorClass:  c.ArmorClass(),
		Proficiency: c.ProficiencyBonus(),
		Equipment:   orNone(strings.Join(c.Equipment(), ", ")),
		Spells:      orNone(strings.Join(c.SpellNames(), ", ")),
		Setting:     orDefault(p.Setting, DefaultSetting),
		Goal:        orDefault(p.Goal, DefaultGoal),
		Notes:       orNone(strings.TrimSpace(p.Notes)),
	}

	var buf bytes.Buffer
	if err := systemInstructionTemplate.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "failed to render system instruction")
	}
	return buf.String(), nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func orNone(v string) string {
	return orDefault(v, "None")
}

// Start briefs the narrator on the character and the adventure and returns
// its opening narration. When the narrator cannot be reached the in-story
// failure text is returned alongside the error and the session stays
// uninitialized.
func (s *Session) Start(ctx context.Context, c models.Character, p Params) (string, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return "", errors.Aborted("turn already in progress")
	}
	if s.state == StateActive {
		s.mu.Unlock()
		return "", errors.FailedPrecondition("adventure already started")
	}
	s.params = p
	s.busy = true
	epoch := s.epoch
	s.mu.Unlock()

	instruction, err := SystemInstruction(s.rules, c, p)
	if err != nil {
		s.release(epoch)
		return "", err
	}

	s.logger.Info("starting adventure", "character", c.Name, "setting", orDefault(p.Setting, DefaultSetting))

	conv, err := s.narrator.OpenSession(ctx, instruction, s.temperature)
	var reply string
	if err == nil {
		reply, err = conv.Converse(ctx, OpeningMessage)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.logger.Debug("discarding opening from before restart")
		return "", errors.Aborted("session was restarted")
	}
	s.busy = false

	if err != nil {
		s.logger.Error("failed to start adventure", "error", err)
		return StartFailureText, errors.WrapWithCode(err, errors.CodeUnavailable, "narrator unavailable")
	}

	s.conv = conv
	s.state = StateActive
	s.transcript = append(s.transcript, s.message(models.RoleModel, reply))
	return reply, nil
}

// SendTurn relays a player action and returns the narrator's reply. Both
// are appended to the transcript. A narrator failure is recorded as the
// in-story silence text.
func (s *Session) SendTurn(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	if err := s.checkTurn(); err != nil {
		s.mu.Unlock()
		if errors.IsFailedPrecondition(err) {
			return NotInitializedText, err
		}
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		s.mu.Unlock()
		return "", errors.InvalidArgument("action must not be blank")
	}
	conv, epoch := s.beginTurn(text)
	s.mu.Unlock()

	reply, err := conv.Converse(ctx, text)
	return s.finishTurn(epoch, reply, err)
}

// RollRandomEvent picks a row of the event table uniformly. The roll is
// remembered as LastEvent but does not touch the conversation.
func (s *Session) RollRandomEvent() (rules.RandomEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := s.rollEvent()
	if err != nil {
		return rules.RandomEvent{}, err
	}
	s.lastEvent = &event
	return event, nil
}

func (s *Session) rollEvent() (rules.RandomEvent, error) {
	events := s.rules.RandomEvents()
	i, err := roll.Index(s.roller, len(events))
	if err != nil {
		return rules.RandomEvent{}, errors.Wrap(err, "failed to roll random event")
	}
	return events[i], nil
}

func (s *Session) rollEncounter() (*Encounter, error) {
	monsters := s.rules.Monsters()
	i, err := roll.Index(s.roller, len(monsters))
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll monster")
	}
	count, err := s.rules.EncounterSize().Roll(s.roller)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll encounter size")
	}
	return &Encounter{Monster: monsters[i], Count: count}, nil
}

// Travel moves the party to a new area: it rolls a random event, rolls an
// encounter when the event calls for one, and narrates the result as a
// regular turn.
func (s *Session) Travel(ctx context.Context) (TravelResult, error) {
	s.mu.Lock()
	if err := s.checkTurn(); err != nil {
		s.mu.Unlock()
		return TravelResult{}, err
	}

	event, err := s.rollEvent()
	if err != nil {
		s.mu.Unlock()
		return TravelResult{}, err
	}
	result := TravelResult{Event: event}
	if event.Encounter {
		if result.Encounter, err = s.rollEncounter(); err != nil {
			s.mu.Unlock()
			return TravelResult{}, err
		}
	}

	var buf bytes.Buffer
	if err := travelTemplate.Execute(&buf, result); err != nil {
		s.mu.Unlock()
		return TravelResult{}, errors.Wrap(err, "failed to render travel action")
	}
	result.Prompt = strings.TrimSpace(buf.String())

	s.lastEvent = &event
	conv, epoch := s.beginTurn(result.Prompt)
	s.mu.Unlock()

	s.logger.Debug("travelling", "event", event.Event, "encounter", result.Encounter != nil)

	reply, err := conv.Converse(ctx, result.Prompt)
	result.Reply, err = s.finishTurn(epoch, reply, err)
	return result, err
}

// Restart forgets the conversation and transcript. Params are kept so the
// adventure can be started again with the same framing. A turn still in
// flight is discarded when it completes.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.busy = false
	s.state = StateUninitialized
	s.conv = nil
	s.transcript = nil
	s.lastEvent = nil
	s.logger.Info("adventure restarted")
}

// checkTurn must be called with mu held.
func (s *Session) checkTurn() error {
	if s.busy {
		return errors.Aborted("turn already in progress")
	}
	if s.state != StateActive || s.conv == nil {
		return errors.FailedPrecondition("game session not initialized")
	}
	return nil
}

// beginTurn records the player's message and marks the session busy. It
// must be called with mu held.
func (s *Session) beginTurn(text string) (engine.Conversation, uint64) {
	s.transcript = append(s.transcript, s.message(models.RoleUser, text))
	s.busy = true
	return s.conv, s.epoch
}

func (s *Session) finishTurn(epoch uint64, reply string, err error) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		s.logger.Debug("discarding reply from before restart")
		return "", errors.Aborted("session was restarted")
	}
	s.busy = false

	if err != nil {
		s.logger.Warn("narrator failed to reply", "error", err)
		s.transcript = append(s.transcript, s.message(models.RoleModel, SilentText))
		return SilentText, errors.WrapWithCode(err, errors.CodeUnavailable, "narrator unavailable")
	}

	s.transcript = append(s.transcript, s.message(models.RoleModel, reply))
	return reply, nil
}

func (s *Session) release(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == epoch {
		s.busy = false
	}
}

func (s *Session) message(role models.Role, content string) models.ChatMessage {
	return models.ChatMessage{Role: role, Content: content, Timestamp: s.clock.Now()}
}
