package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bullscows/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New()
}

func (s *ServiceSuite) score(guess, secret string) Result {
	r, err := s.service.Score(guess, secret)
	s.Require().NoError(err)
	return r
}

func (s *ServiceSuite) TestExactMatch() {
	r := s.score("1234", "1234")
	s.Equal(Result{Bulls: 4, Cows: 0}, r)
	s.True(r.IsWin())
	s.Equal(WinMessage, ResultMessage(r))
}

func (s *ServiceSuite) TestAllCows() {
	r := s.score("4321", "1234")
	s.Equal(Result{Bulls: 0, Cows: 4}, r)
	s.False(r.IsWin())
	s.Empty(ResultMessage(r))
}

func (s *ServiceSuite) TestMixed() {
	s.Equal(Result{Bulls: 2, Cows: 2}, s.score("1243", "1234"))
}

func (s *ServiceSuite) TestNoMatch() {
	s.Equal(Result{}, s.score("5678", "1234"))
}

func (s *ServiceSuite) TestRepeatedDigitsNotDoubleCounted() {
	s.Equal(Result{Bulls: 0, Cows: 2}, s.score("2112", "1234"))
	// Position 0 is a bull, so only one of the remaining 1s and 2s can be a cow
	s.Equal(Result{Bulls: 1, Cows: 1}, s.score("1122", "1234"))
	s.Equal(Result{Bulls: 1, Cows: 0}, s.score("1111", "1234"))
	s.Equal(Result{Bulls: 1, Cows: 1}, s.score("1212", "1134"))
	s.Equal(Result{Bulls: 2, Cows: 0}, s.score("1100", "1122"))
}

func (s *ServiceSuite) TestBullConsumesBeforeCow() {
	// The second '1' of the guess must not claim the already-bulled secret position
	s.Equal(Result{Bulls: 1, Cows: 0}, s.score("1155", "1234"))
	s.Equal(Result{Bulls: 1, Cows: 1}, s.score("1515", "1231"))
}

func (s *ServiceSuite) TestInvalidInputs() {
	cases := []struct {
		name   string
		guess  string
		secret string
	}{
		{"short guess", "123", "1234"},
		{"long guess", "12345", "1234"},
		{"letters in guess", "12a4", "1234"},
		{"empty guess", "", "1234"},
		{"short secret", "1234", "12"},
		{"non-ascii digit", "١٢٣٤", "1234"},
		{"spaces", "12 4", "1234"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.service.Score(tc.guess, tc.secret)
			s.ErrorIs(err, model.ErrInvalidInput)
		})
	}
}

func (s *ServiceSuite) TestValidateCode() {
	s.NoError(s.service.ValidateCode("0000"))
	s.NoError(s.service.ValidateCode("9876"))
	s.ErrorIs(s.service.ValidateCode("98765"), model.ErrInvalidInput)
	s.ErrorIs(s.service.ValidateCode("x876"), model.ErrInvalidInput)
}

// Exhaustive check over a sample of the 10^4 x 10^4 space
func (s *ServiceSuite) TestPropertiesHoldForAllSecrets() {
	guesses := []string{"0000", "1234", "1122", "9090", "5555", "4321", "0123", "9876"}
	for n := 0; n < 10000; n++ {
		secret := fmt.Sprintf("%04d", n)
		for _, guess := range guesses {
			r := s.score(guess, secret)
			s.LessOrEqual(r.Bulls+r.Cows, 4)
			s.GreaterOrEqual(r.Bulls, 0)
			s.GreaterOrEqual(r.Cows, 0)
			s.Equal(guess == secret, r.IsWin(), "guess %s secret %s", guess, secret)
		}
		r := s.score(secret, secret)
		s.True(r.IsWin())
	}
}

func (s *ServiceSuite) TestScoreIsSymmetricInTotal() {
	// bulls+cows counts common digits as a multiset, so it is symmetric
	pairs := [][2]string{{"1122", "1234"}, {"1155", "1234"}, {"9090", "0909"}, {"1243", "1234"}}
	for _, p := range pairs {
		a := s.score(p[0], p[1])
		b := s.score(p[1], p[0])
		s.Equal(a.Bulls, b.Bulls)
		s.Equal(a.Bulls+a.Cows, b.Bulls+b.Cows)
	}
}
