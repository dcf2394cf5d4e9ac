package scoring

import (
	"fmt"

	"github.com/mcoot/bullscows/internal/model"
)

// WinMessage is reported alongside a winning guess
const WinMessage = "Congratulations! You guessed the number."

// Result is the bulls/cows outcome of a single guess
type Result struct {
	Bulls int
	Cows  int
}

// IsWin reports whether every digit was in the right place
func (r Result) IsWin() bool {
	return r.Bulls == model.SecretLength
}

// Service scores guesses against a room's secret
type Service struct{}

// New creates a new scoring Service
func New() *Service {
	return &Service{}
}

// ValidateCode checks that code is exactly four ASCII digits
func (s *Service) ValidateCode(code string) error {
	if len(code) != model.SecretLength {
		return fmt.Errorf("%w: %q must be %d digits", model.ErrInvalidInput, code, model.SecretLength)
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return fmt.Errorf("%w: %q must contain only digits", model.ErrInvalidInput, code)
		}
	}
	return nil
}

// Score computes bulls and cows for guess against secret.
//
// Bulls are matched first and consume both positions. Each remaining guess
// digit then consumes the leftmost unconsumed equal secret digit as a cow, so
// repeated digits are never counted twice.
func (s *Service) Score(guess, secret string) (Result, error) {
	if err := s.ValidateCode(guess); err != nil {
		return Result{}, fmt.Errorf("guess: %w", err)
	}
	if err := s.ValidateCode(secret); err != nil {
		return Result{}, fmt.Errorf("secret: %w", err)
	}

	var result Result
	var guessUsed, secretUsed [model.SecretLength]bool

	for i := 0; i < model.SecretLength; i++ {
		if guess[i] == secret[i] {
			result.Bulls++
			guessUsed[i] = true
			secretUsed[i] = true
		}
	}

	for i := 0; i < model.SecretLength; i++ {
		if guessUsed[i] {
			continue
		}
		for j := 0; j < model.SecretLength; j++ {
			if !secretUsed[j] && guess[i] == secret[j] {
				result.Cows++
				secretUsed[j] = true
				break
			}
		}
	}

	return result, nil
}

// ResultMessage is the human readable summary sent with a guessResult
func ResultMessage(r Result) string {
	if r.IsWin() {
		return WinMessage
	}
	return ""
}
