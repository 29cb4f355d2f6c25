// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/avilla-f/flasharb/internal/apperror"
	"github.com/avilla-f/flasharb/internal/asset"
)

// Session holds the evaluation state for one detection run: the ranked
// candidates plus a bounded attempt budget. Each attempt consumes the next
// ranked opportunity, so a rejected candidate is never retried.
//
// Session is not safe for concurrent use. Each detection run owns its own.
type Session struct {
	Borrow     *asset.Asset
	Target     *asset.Asset
	Amount     decimal.Decimal
	Generation uint64
	CreatedAt  time.Time

	opportunities []Opportunity
	poolCount     int
	maxAttempts   int
	attempts      int
}

// NewSession creates a Session over ranked opportunities. poolCount is the
// number of pools discovery found, kept to distinguish "no pools at all"
// from "pools but no rate divergence" when the candidate list is empty.
func NewSession(
	borrow, target *asset.Asset,
	amount decimal.Decimal,
	opportunities []Opportunity,
	poolCount int,
	generation uint64,
	maxAttempts int,
) *Session {
	return &Session{
		Borrow:        borrow,
		Target:        target,
		Amount:        amount,
		Generation:    generation,
		CreatedAt:     time.Now().UTC(),
		opportunities: opportunities,
		poolCount:     poolCount,
		maxAttempts:   maxAttempts,
	}
}

// Opportunities returns the ranked candidate list, best first.
func (s *Session) Opportunities() []Opportunity {
	return s.opportunities
}

// PoolCount returns the number of pools discovery found for the pair.
func (s *Session) PoolCount() int {
	return s.poolCount
}

// Attempts returns how many attempts have been consumed so far.
func (s *Session) Attempts() int {
	return s.attempts
}

// Remaining returns how many more attempts the session can make.
func (s *Session) Remaining() int {
	left := s.maxAttempts - s.attempts
	if candidates := len(s.opportunities) - s.attempts; candidates < left {
		left = candidates
	}
	if left < 0 {
		return 0
	}
	return left
}

// Exhausted reports whether no further attempt is possible.
func (s *Session) Exhausted() bool {
	return s.Remaining() == 0
}

// NextAttempt consumes one attempt and returns the next ranked opportunity.
// It fails without touching the network when either the candidate list or
// the attempt budget runs out.
func (s *Session) NextAttempt() (Opportunity, error) {
	if len(s.opportunities) == 0 {
		code := apperror.CodeNoProfitableRoute
		if s.poolCount == 0 {
			code = apperror.CodeNoLiquidityRoute
		}
		return Opportunity{}, apperror.New(code,
			apperror.WithContext(s.pairContext()),
		)
	}
	if s.attempts >= s.maxAttempts {
		return Opportunity{}, apperror.New(apperror.CodeAttemptBudgetDrained,
			apperror.WithContext(s.pairContext()),
		)
	}
	if s.attempts >= len(s.opportunities) {
		return Opportunity{}, apperror.New(apperror.CodeNoProfitableRoute,
			apperror.WithContext(s.pairContext()),
		)
	}

	opp := s.opportunities[s.attempts]
	s.attempts++
	return opp, nil
}

func (s *Session) pairContext() string {
	if s.Borrow == nil || s.Target == nil {
		return "session"
	}
	return s.Borrow.Symbol() + "/" + s.Target.Symbol()
}
