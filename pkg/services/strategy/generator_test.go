package strategy

import (
	"context"
	"errors"
	"testing"

	"github.com/coder/quartz"
	"github.com/fadedpez/blackjackev/internal/logging"
	"github.com/fadedpez/blackjackev/pkg/entities"
	mock_chart "github.com/fadedpez/blackjackev/pkg/repositories/chart/mock"
	"github.com/fadedpez/blackjackev/pkg/services/ev"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type GeneratorTestSuite struct {
	suite.Suite
	clock   *quartz.Mock
	rules   entities.Rules
	hands   []StartingHand
	upcards []entities.Rank
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}

func (s *GeneratorTestSuite) SetupTest() {
	s.clock = quartz.NewMock(s.T())
	s.rules = entities.DefaultRules()
	s.rules.Decks = 1
	s.hands = []StartingHand{
		{First: entities.Six, Second: entities.Five},
		{First: entities.Ten, Second: entities.Six},
	}
	s.upcards = []entities.Rank{entities.Six, entities.Ten}
}

func (s *GeneratorTestSuite) generator(opts ...Option) *Generator {
	base := []Option{
		WithClock(s.clock),
		WithLogger(logging.NewLogger(logging.ERROR)),
		WithHands(s.hands, s.upcards),
		WithWorkers(2),
	}
	return NewGenerator(append(base, opts...)...)
}

func (s *GeneratorTestSuite) TestGenerate() {
	var updates []Progress
	chart, err := s.generator().Generate(context.Background(), s.rules, func(p Progress) {
		updates = append(updates, p)
	})
	s.Require().NoError(err)

	_, err = uuid.Parse(chart.ID)
	s.NoError(err)
	s.Equal(s.rules, chart.Rules)
	s.Equal(s.clock.Now(), chart.CreatedAt)
	s.Zero(chart.Duration)

	s.Require().Len(chart.Entries, 4)
	s.Equal("11", chart.Entries[0].PlayerHand)
	s.Equal("6", chart.Entries[0].DealerUpcard)
	s.Equal("Double", chart.Entries[0].Action)
	s.Equal("11", chart.Entries[1].PlayerHand)
	s.Equal("10", chart.Entries[1].DealerUpcard)
	s.Equal("16", chart.Entries[2].PlayerHand)
	s.Equal("Stand", chart.Entries[2].Action)

	s.Len(updates, 4)
	s.Equal(4, updates[3].Done)
	s.Equal(4, updates[3].Total)
}

func (s *GeneratorTestSuite) TestEntriesMatchCalculator() {
	chart, err := s.generator().Generate(context.Background(), s.rules, nil)
	s.Require().NoError(err)

	calc, err := ev.New(s.rules)
	s.Require().NoError(err)

	i := 0
	for _, hand := range s.hands {
		for _, up := range s.upcards {
			state, err := ev.NewState(hand.Ranks(), up, s.rules.Decks, true)
			s.Require().NoError(err)

			result := calc.OptimalStrategy(state)
			s.Equal(result.Optimal.String(), chart.Entries[i].Action, "%s vs %s", hand.Cards(), up)
			s.InDelta(result.OptimalEV, chart.Entries[i].EV, 1e-12)
			i++
		}
	}
}

func (s *GeneratorTestSuite) TestWorkerCountDoesNotChangeResults() {
	one, err := s.generator(WithWorkers(1)).Generate(context.Background(), s.rules, nil)
	s.Require().NoError(err)
	four, err := s.generator(WithWorkers(4)).Generate(context.Background(), s.rules, nil)
	s.Require().NoError(err)

	s.Equal(one.Entries, four.Entries)
}

func (s *GeneratorTestSuite) TestSavesToRepository() {
	ctrl := gomock.NewController(s.T())
	repo := mock_chart.NewMockRepository(ctrl)

	repo.EXPECT().SaveChart(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, c *entities.StrategyChart) error {
			s.Len(c.Entries, 4)
			return nil
		})

	_, err := s.generator(WithRepository(repo)).Generate(context.Background(), s.rules, nil)
	s.NoError(err)
}

func (s *GeneratorTestSuite) TestRepositoryError() {
	ctrl := gomock.NewController(s.T())
	repo := mock_chart.NewMockRepository(ctrl)

	boom := errors.New("database is locked")
	repo.EXPECT().SaveChart(gomock.Any(), gomock.Any()).Return(boom)

	chart, err := s.generator(WithRepository(repo)).Generate(context.Background(), s.rules, nil)
	s.Nil(chart)
	s.ErrorIs(err, boom)
}

func (s *GeneratorTestSuite) TestCancelled() {
	ctrl := gomock.NewController(s.T())
	repo := mock_chart.NewMockRepository(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chart, err := s.generator(WithRepository(repo)).Generate(ctx, s.rules, nil)
	s.Nil(chart)
	s.ErrorIs(err, context.Canceled)
}

func (s *GeneratorTestSuite) TestInvalidRules() {
	rules := s.rules
	rules.MaxSplits = 9

	_, err := s.generator().Generate(context.Background(), rules, nil)
	s.ErrorIs(err, entities.ErrInvalidRules)
}
