package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (s *ErrorTestSuite) TestNewGameError() {
	// Setup
	code := ErrChartNotFound
	message := "chart not found"

	// Execute
	err := NewGameError(code, message)

	// Assert
	s.Equal(code, err.Code, "Error code should match")
	s.Equal(message, err.Message, "Error message should match")
	s.Nil(err.Err, "Underlying error should be nil")
}

func (s *ErrorTestSuite) TestWrapError() {
	// Setup
	code := ErrDatabaseError
	message := "database error"
	underlying := errors.New("connection failed")

	// Execute
	err := WrapError(code, message, underlying)

	// Assert
	s.Equal(code, err.Code, "Error code should match")
	s.Equal(message, err.Message, "Error message should match")
	s.Equal(underlying, err.Err, "Underlying error should match")
	s.ErrorIs(err, underlying, "Unwrap should expose the cause")
}

func (s *ErrorTestSuite) TestErrorString() {
	testCases := []struct {
		name     string
		err      *GameError
		expected string
	}{
		{
			name:     "Simple error",
			err:      NewGameError(ErrInvalidArgument, "missing up-card"),
			expected: "INVALID_ARGUMENT: missing up-card",
		},
		{
			name:     "Wrapped error",
			err:      WrapError(ErrInternalError, "database error", errors.New("connection failed")),
			expected: "INTERNAL_ERROR: database error (connection failed)",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, tc.err.Error(), "Error string should match expected format")
		})
	}
}

func (s *ErrorTestSuite) TestIsGameError() {
	// Setup
	gameErr := NewGameError(ErrInvalidRules, "bad rules")
	regularErr := errors.New("regular error")

	// Test cases
	testCases := []struct {
		name     string
		err      error
		code     ErrorCode
		expected bool
	}{
		{
			name:     "Matching game error",
			err:      gameErr,
			code:     ErrInvalidRules,
			expected: true,
		},
		{
			name:     "Wrapped game error",
			err:      fmt.Errorf("loading profile: %w", gameErr),
			code:     ErrInvalidRules,
			expected: true,
		},
		{
			name:     "Non-matching game error",
			err:      gameErr,
			code:     ErrInternalError,
			expected: false,
		},
		{
			name:     "Regular error",
			err:      regularErr,
			code:     ErrInvalidRules,
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			code:     ErrInvalidRules,
			expected: false,
		},
	}

	// Execute and assert
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			result := IsGameError(tc.err, tc.code)
			s.Equal(tc.expected, result, "IsGameError result should match expected value")
		})
	}
}

func (s *ErrorTestSuite) TestAs() {
	// Setup
	gameErr := NewGameError(ErrChartNotFound, "chart not found")
	regularErr := errors.New("regular error")

	// Test cases
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "Game error",
			err:      gameErr,
			expected: true,
		},
		{
			name:     "Regular error",
			err:      regularErr,
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: false,
		},
	}

	// Execute and assert
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			var target *GameError
			result := As(tc.err, &target)
			s.Equal(tc.expected, result, "As result should match expected value")
			if tc.expected {
				s.Equal(gameErr, target, "Target should be set to the game error")
			}
		})
	}
}

func (s *ErrorTestSuite) TestAsWrappedDomainError() {
	exhausted := fmt.Errorf("%w: 5 of A", entities.ErrRankExhausted)
	wrapped := WrapError(ErrInvalidComposition, "impossible cards", exhausted)

	s.Run("through fmt wrapping", func() {
		var target *GameError
		s.Require().True(As(fmt.Errorf("evaluating hand: %w", wrapped), &target))
		s.Same(wrapped, target)
		s.Equal(ErrInvalidComposition, target.Code)
		s.ErrorIs(target, entities.ErrRankExhausted, "domain sentinel should stay reachable")
	})

	s.Run("outermost game error wins", func() {
		outer := WrapError(ErrInternalError, "generation failed", wrapped)
		var target *GameError
		s.Require().True(As(outer, &target))
		s.Same(outer, target)
		s.False(IsGameError(outer, ErrInvalidComposition), "IsGameError checks the first game error only")
	})

	s.Run("bare domain sentinel", func() {
		var target *GameError
		s.False(As(entities.ErrInvalidRules, &target))
		s.Nil(target)
	})

	s.Run("nil target", func() {
		s.False(As(wrapped, nil))
	})
}
