// Package app contains application services and port definitions for the
// arbitrage context.
package app

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/avilla-f/flasharb/business/arbitrage/domain"
	marketDomain "github.com/avilla-f/flasharb/business/market/domain"
	"github.com/avilla-f/flasharb/internal/apperror"
	"github.com/avilla-f/flasharb/internal/asset"
)

// Evaluation is the outcome of gating a single opportunity: the verdict,
// the USD figures behind it, and the market snapshot they were read from.
type Evaluation struct {
	Opportunity domain.Opportunity
	Verdict     domain.Verdict
	Pair        string
	Attempt     int
	ProfitUSD   decimal.Decimal
	GasCostUSD  decimal.Decimal
	Snapshot    marketDomain.Snapshot
}

// ExecutionRequest is what a downstream executor contract needs to act on
// an actionable evaluation. Amounts are in the borrow asset's native
// integer units.
type ExecutionRequest struct {
	SellPool  common.Address
	BuyPool   common.Address
	AmountRaw *big.Int
	Verdict   domain.Verdict
}

// ExecutionRequest builds the executor payload for this evaluation. It
// fails on rejected verdicts and on amounts that do not fit the borrow
// asset's decimal scale.
func (e *Evaluation) ExecutionRequest(borrow *asset.Asset) (ExecutionRequest, error) {
	if !e.Verdict.Actionable() {
		return ExecutionRequest{}, apperror.Validation(
			apperror.CodeInvalidInput,
			"execution request from rejected evaluation",
		)
	}

	amount, err := asset.ParseDecimal(borrow, e.Opportunity.Amount)
	if err != nil {
		return ExecutionRequest{}, err
	}

	return ExecutionRequest{
		SellPool:  e.Opportunity.SellPool.Address,
		BuyPool:   e.Opportunity.BuyPool.Address,
		AmountRaw: amount.Raw(),
		Verdict:   e.Verdict,
	}, nil
}

// Gate classifies opportunities into verdicts. The profit tolerance is
// expressed in USD so operators tune one number across all borrow assets.
type Gate struct {
	acceptableLossUSD decimal.Decimal
	gasUnits          uint64

	// USD value of one unit of the borrow asset. Held at par until a
	// per-asset rate feed lands; stable pairs are the primary target.
	referenceUSDRate decimal.Decimal
}

// NewGate creates a Gate. gasUnits is the gas budget of one full flash-loan
// round trip, used for cost reporting.
func NewGate(acceptableLossUSD decimal.Decimal, gasUnits uint64) *Gate {
	return &Gate{
		acceptableLossUSD: acceptableLossUSD,
		gasUnits:          gasUnits,
		referenceUSDRate:  decimal.New(1, 0),
	}
}

// Evaluate classifies one opportunity against the loss tolerance. Gas cost
// is computed for reporting but does not move the verdict: the flash-loan
// fee and swap fees are already inside the ranked profit, while gas is paid
// whether or not the transaction lands.
func (g *Gate) Evaluate(opp domain.Opportunity, snap marketDomain.Snapshot, attempt int) Evaluation {
	profitUSD := opp.Profit.Mul(g.referenceUSDRate)

	verdict := domain.VerdictRejected
	switch {
	case profitUSD.IsPositive():
		verdict = domain.VerdictExecutable
	case profitUSD.Abs().LessThanOrEqual(g.acceptableLossUSD):
		verdict = domain.VerdictAcceptableLoss
	}

	return Evaluation{
		Opportunity: opp,
		Verdict:     verdict,
		Attempt:     attempt,
		ProfitUSD:   profitUSD,
		GasCostUSD:  snap.GasCostUSD(g.gasUnits),
		Snapshot:    snap,
	}
}
