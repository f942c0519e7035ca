package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/binary"

	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

// StubScoreOracle is a development/test oracle that returns a deterministic
// score derived from the document number, allowing repeatable scenarios.
// It implements port.ScoreOracle.
type StubScoreOracle struct{}

// NewStubScoreOracle creates a new stub oracle.
func NewStubScoreOracle() *StubScoreOracle {
	return &StubScoreOracle{}
}

// GetScore returns a score in [300, 850] derived from a hash of the document.
func (o *StubScoreOracle) GetScore(_ context.Context, document valueobject.DocumentNumber) (int, error) {
	h := sha256.Sum256([]byte(document.Value()))
	num := binary.BigEndian.Uint32(h[:4])
	return valueobject.MinCreditScore + int(num%551), nil
}
