package adventure_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/tatianab/onepage/internal/adventure"
	"github.com/tatianab/onepage/internal/engine"
	enginemock "github.com/tatianab/onepage/internal/engine/mock"
	"github.com/tatianab/onepage/internal/errors"
	"github.com/tatianab/onepage/internal/models"
	"github.com/tatianab/onepage/internal/pkg/clock"
	"github.com/tatianab/onepage/internal/pkg/idgen"
	"github.com/tatianab/onepage/internal/rules"
	"github.com/tatianab/onepage/internal/testutils"
	"github.com/tatianab/onepage/internal/testutils/builders"
)

type SessionTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	narrator *enginemock.MockNarrator
	conv     *enginemock.MockConversation
	roller   *testutils.ScriptedRoller
	now      time.Time
	session  *adventure.Session
	hero     models.Character
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func (s *SessionTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.narrator = enginemock.NewMockNarrator(s.ctrl)
	s.conv = enginemock.NewMockConversation(s.ctrl)
	s.roller = testutils.NewScriptedRoller()
	s.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.hero = builders.NewCharacterBuilder().Build()

	var err error
	s.session, err = adventure.New(&adventure.Config{
		Narrator:    s.narrator,
		Roller:      s.roller,
		Clock:       clock.Fixed{T: s.now},
		IDGenerator: idgen.NewSequential("test"),
	})
	s.Require().NoError(err)
}

func (s *SessionTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

// start brings the session to Active with a canned opening.
func (s *SessionTestSuite) start() {
	s.narrator.EXPECT().
		OpenSession(gomock.Any(), gomock.Any(), adventure.DefaultTemperature).
		Return(s.conv, nil)
	s.conv.EXPECT().
		Converse(gomock.Any(), adventure.OpeningMessage).
		Return("You stand at the gates of Barovia.", nil)

	_, err := s.session.Start(context.Background(), s.hero, adventure.Params{Setting: "Barovia"})
	s.Require().NoError(err)
}

func (s *SessionTestSuite) TestNewValidatesConfig() {
	_, err := adventure.New(&adventure.Config{})
	s.Require().Error(err)
	s.Contains(err.Error(), "Narrator")
	s.Contains(err.Error(), "Roller")

	_, err = adventure.New(&adventure.Config{Narrator: s.narrator, Roller: s.roller, Temperature: 3})
	s.Require().Error(err)
	s.Contains(err.Error(), "Temperature")
}

func (s *SessionTestSuite) TestInitialState() {
	s.Equal("test_1", s.session.ID())
	s.Equal(adventure.StateUninitialized, s.session.State())
	s.Empty(s.session.Transcript())
	s.False(s.session.Busy())
	_, ok := s.session.LastEvent()
	s.False(ok)
}

func (s *SessionTestSuite) TestStart() {
	s.narrator.EXPECT().
		OpenSession(gomock.Any(), gomock.Any(), adventure.DefaultTemperature).
		DoAndReturn(func(_ context.Context, instruction string, _ float32) (engine.Conversation, error) {
			s.Contains(instruction, "- **Name:** Thorin")
			s.Contains(instruction, "- **Class/Archetype:** Fighter (Dwarf Fighter)")
			s.Contains(instruction, "  - STR: 17 (+3)\n  - DEX: 12 (+1)")
			s.Contains(instruction, "  - INT: 8 (-1)")
			s.Contains(instruction, "- **HP:** 12/12")
			s.Contains(instruction, "- **Armor Class:** 11")
			s.Contains(instruction, "- **Proficiency Bonus:** +2")
			s.Contains(instruction, "- **Equipment:** Sword, No Armor")
			s.Contains(instruction, "- **Setting:** Barovia")
			s.Contains(instruction, "- **Goal:** Explore and survive")
			return s.conv, nil
		})
	s.conv.EXPECT().
		Converse(gomock.Any(), "Begin the adventure.").
		Return("You stand at the gates of Barovia.", nil)

	params := adventure.Params{Setting: "Barovia"}
	reply, err := s.session.Start(context.Background(), s.hero, params)
	s.Require().NoError(err)
	s.Equal("You stand at the gates of Barovia.", reply)
	s.Equal(adventure.StateActive, s.session.State())
	s.Equal(params, s.session.Params())
	s.Equal([]models.ChatMessage{
		{Role: models.RoleModel, Content: "You stand at the gates of Barovia.", Timestamp: s.now},
	}, s.session.Transcript())
}

func (s *SessionTestSuite) TestStartFailure() {
	testCases := []struct {
		name  string
		setup func()
	}{
		{
			name: "open session fails",
			setup: func() {
				s.narrator.EXPECT().
					OpenSession(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("bad api key"))
			},
		},
		{
			name: "opening narration fails",
			setup: func() {
				s.narrator.EXPECT().
					OpenSession(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(s.conv, nil)
				s.conv.EXPECT().
					Converse(gomock.Any(), gomock.Any()).
					Return("", fmt.Errorf("503"))
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			tc.setup()

			reply, err := s.session.Start(context.Background(), s.hero, adventure.Params{})
			s.True(errors.IsUnavailable(err))
			s.Equal(adventure.StartFailureText, reply)
			s.Equal(adventure.StateUninitialized, s.session.State())
			s.Empty(s.session.Transcript())
			s.False(s.session.Busy())
		})
	}
}

func (s *SessionTestSuite) TestStartTwice() {
	s.start()

	_, err := s.session.Start(context.Background(), s.hero, adventure.Params{})
	s.True(errors.IsFailedPrecondition(err))
	s.Len(s.session.Transcript(), 1)
}

func (s *SessionTestSuite) TestSendTurnBeforeStart() {
	reply, err := s.session.SendTurn(context.Background(), "I look around")
	s.True(errors.IsFailedPrecondition(err))
	s.Equal(adventure.NotInitializedText, reply)
	s.Empty(s.session.Transcript())
}

func (s *SessionTestSuite) TestSendTurnBlank() {
	s.start()

	_, err := s.session.SendTurn(context.Background(), "  \n ")
	s.True(errors.IsInvalidArgument(err))
	s.Len(s.session.Transcript(), 1)
}

func (s *SessionTestSuite) TestSendTurn() {
	s.start()
	gomock.InOrder(
		s.conv.EXPECT().Converse(gomock.Any(), "I knock on the gate.").Return("It creaks open.", nil),
		s.conv.EXPECT().Converse(gomock.Any(), "Rolled d20: 14").Return("You slip inside.", nil),
	)

	reply, err := s.session.SendTurn(context.Background(), "I knock on the gate.")
	s.Require().NoError(err)
	s.Equal("It creaks open.", reply)

	reply, err = s.session.SendTurn(context.Background(), "Rolled d20: 14")
	s.Require().NoError(err)
	s.Equal("You slip inside.", reply)

	transcript := s.session.Transcript()
	s.Require().Len(transcript, 5)
	roles := make([]models.Role, len(transcript))
	for i, m := range transcript {
		roles[i] = m.Role
	}
	s.Equal([]models.Role{
		models.RoleModel, models.RoleUser, models.RoleModel, models.RoleUser, models.RoleModel,
	}, roles)
	s.Equal("I knock on the gate.", transcript[1].Content)
	s.Equal("You slip inside.", transcript[4].Content)
}

func (s *SessionTestSuite) TestSendTurnFailure() {
	s.start()
	s.conv.EXPECT().Converse(gomock.Any(), "I pray.").Return("", fmt.Errorf("timeout"))

	reply, err := s.session.SendTurn(context.Background(), "I pray.")
	s.True(errors.IsUnavailable(err))
	s.Equal(adventure.SilentText, reply)

	transcript := s.session.Transcript()
	s.Require().Len(transcript, 3)
	s.Equal("I pray.", transcript[1].Content)
	s.Equal(models.ChatMessage{Role: models.RoleModel, Content: adventure.SilentText, Timestamp: s.now}, transcript[2])
	s.False(s.session.Busy())
}

func (s *SessionTestSuite) TestRollRandomEvent() {
	s.roller.Push(3)

	event, err := s.session.RollRandomEvent()
	s.Require().NoError(err)
	s.Equal("Trap Triggered", event.Event)
	s.Equal([]int{7}, s.roller.Sizes())

	last, ok := s.session.LastEvent()
	s.True(ok)
	s.Equal(event, last)
	s.Empty(s.session.Transcript())
}

func (s *SessionTestSuite) TestRollRandomEventCoversTable() {
	for id := 1; id <= 7; id++ {
		s.roller.Push(id)

		event, err := s.session.RollRandomEvent()
		s.Require().NoError(err)
		want, ok := rules.Default().RandomEvent(id)
		s.Require().True(ok)
		s.Equal(want, event)
	}

	session, err := adventure.New(&adventure.Config{Narrator: s.narrator, Roller: dice.DefaultRoller})
	s.Require().NoError(err)

	seen := make(map[int]bool)
	for range 2000 {
		event, err := session.RollRandomEvent()
		s.Require().NoError(err)
		s.GreaterOrEqual(event.ID, 1)
		s.LessOrEqual(event.ID, 7)
		seen[event.ID] = true
	}
	s.Len(seen, 7)
}

func (s *SessionTestSuite) TestRollRandomEventFailure() {
	sess, err := adventure.New(&adventure.Config{
		Narrator: s.narrator,
		Roller:   testutils.FailingRoller{Err: fmt.Errorf("dropped the die")},
	})
	s.Require().NoError(err)

	_, err = sess.RollRandomEvent()
	s.Error(err)
	_, ok := sess.LastEvent()
	s.False(ok)
}

func (s *SessionTestSuite) TestTravelWithoutEncounter() {
	s.start()
	s.roller.Push(2)
	want := "I travel to a new area.\n**Random Event:** Ambush (Enemies get surprise round).\n\n" +
		"Describe the new area and how this event manifests."
	s.conv.EXPECT().Converse(gomock.Any(), want).Return("Arrows fly from the trees!", nil)

	result, err := s.session.Travel(context.Background())
	s.Require().NoError(err)
	s.Equal(2, result.Event.ID)
	s.Nil(result.Encounter)
	s.Equal(want, result.Prompt)
	s.Equal("Arrows fly from the trees!", result.Reply)
	s.Len(s.session.Transcript(), 3)

	last, ok := s.session.LastEvent()
	s.True(ok)
	s.Equal("Ambush", last.Event)
}

func (s *SessionTestSuite) TestTravelWithEncounter() {
	s.start()
	s.roller.Push(7, 1, 2, 3)
	want := "I travel to a new area.\n**Random Event:** Monster Attack (2d4 random monsters appear).\n\n" +
		"**Encounter:** 5 Goblins appear!\nStats: AC 15, HP 7, Attack Dagger +2/1d4\n\nBegin combat!"
	s.conv.EXPECT().Converse(gomock.Any(), want).Return("Roll for initiative.", nil)

	result, err := s.session.Travel(context.Background())
	s.Require().NoError(err)
	s.Require().NotNil(result.Encounter)
	s.Equal("Goblin", result.Encounter.Monster.Name)
	s.Equal(5, result.Encounter.Count)
	s.Equal(want, result.Prompt)
	s.Equal([]int{7, 6, 4, 4}, s.roller.Sizes())
}

func (s *SessionTestSuite) TestTravelBeforeStart() {
	s.roller.Push(1)

	_, err := s.session.Travel(context.Background())
	s.True(errors.IsFailedPrecondition(err))
	s.Equal(1, s.roller.Remaining())
	s.Empty(s.session.Transcript())
}

func (s *SessionTestSuite) TestConcurrentTurnIsRejected() {
	s.start()
	release := make(chan struct{})
	s.conv.EXPECT().
		Converse(gomock.Any(), "I open the chest.").
		DoAndReturn(func(context.Context, string) (string, error) {
			<-release
			return "It is empty.", nil
		})

	done := make(chan error, 1)
	go func() {
		_, err := s.session.SendTurn(context.Background(), "I open the chest.")
		done <- err
	}()
	s.Eventually(s.session.Busy, time.Second, time.Millisecond)

	_, err := s.session.SendTurn(context.Background(), "I also open the door.")
	s.True(errors.IsAborted(err))
	s.roller.Push(1)
	_, err = s.session.Travel(context.Background())
	s.True(errors.IsAborted(err))
	s.Equal(1, s.roller.Remaining())

	close(release)
	s.Require().NoError(<-done)
	s.False(s.session.Busy())

	transcript := s.session.Transcript()
	s.Require().Len(transcript, 3)
	s.Equal("I open the chest.", transcript[1].Content)
	s.Equal("It is empty.", transcript[2].Content)
}

func (s *SessionTestSuite) TestRestartDiscardsInFlightReply() {
	s.start()
	release := make(chan struct{})
	s.conv.EXPECT().
		Converse(gomock.Any(), "I wait.").
		DoAndReturn(func(context.Context, string) (string, error) {
			<-release
			return "Too late.", nil
		})

	done := make(chan error, 1)
	go func() {
		_, err := s.session.SendTurn(context.Background(), "I wait.")
		done <- err
	}()
	s.Eventually(s.session.Busy, time.Second, time.Millisecond)

	s.session.Restart()
	s.Equal(adventure.StateUninitialized, s.session.State())
	s.Empty(s.session.Transcript())
	s.False(s.session.Busy())

	close(release)
	s.True(errors.IsAborted(<-done))
	s.Empty(s.session.Transcript())
	s.Equal(adventure.Params{Setting: "Barovia"}, s.session.Params())
}

func (s *SessionTestSuite) TestRestartThenStartAgain() {
	s.start()
	s.roller.Push(4)
	_, err := s.session.RollRandomEvent()
	s.Require().NoError(err)

	s.session.Restart()
	_, ok := s.session.LastEvent()
	s.False(ok)

	wounded := s.hero.Clone()
	wounded.AdjustHP(-5)
	fresh := enginemock.NewMockConversation(s.ctrl)
	s.narrator.EXPECT().
		OpenSession(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, instruction string, _ float32) (engine.Conversation, error) {
			s.Contains(instruction, "- **HP:** 7/12")
			s.Contains(instruction, "- **Setting:** Barovia")
			return fresh, nil
		})
	fresh.EXPECT().Converse(gomock.Any(), adventure.OpeningMessage).Return("Again, the gates.", nil)

	reply, err := s.session.Start(context.Background(), wounded, s.session.Params())
	s.Require().NoError(err)
	s.Equal("Again, the gates.", reply)
	s.Len(s.session.Transcript(), 1)
}

func (s *SessionTestSuite) TestSystemInstructionForWizard() {
	wizard := builders.NewCharacterBuilder().
		WithName("Morgana").
		WithArchetype(rules.Wizard).
		WithWeapons("Staff").
		WithArmor("Moon Cloak").
		WithAbility(rules.WIS, 14).
		WithSpells("Acid Orb", "Ease Pain").
		Build()

	instruction, err := adventure.SystemInstruction(rules.Default(), wizard, adventure.Params{
		Goal:  "Find the lost tome",
		Notes: "The tower is haunted.",
	})
	s.Require().NoError(err)
	s.Contains(instruction, "- **Class/Archetype:** Wizard (Human Wizard)")
	s.Contains(instruction, "- **HP:** 10/10")
	s.Contains(instruction, "- **Armor Class:** 13")
	s.Contains(instruction, "- **Equipment:** Staff, Moon Cloak")
	s.Contains(instruction, "- **Spells:** Acid Orb, Ease Pain")
	s.Contains(instruction, "- **Setting:** Fantasy World")
	s.Contains(instruction, "- **Goal:** Find the lost tome")
	s.Contains(instruction, "- **Notes/Scenario:** The tower is haunted.")
}
