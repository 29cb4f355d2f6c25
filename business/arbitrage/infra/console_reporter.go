// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/avilla-f/flasharb/business/arbitrage/app"
	discoveryDomain "github.com/avilla-f/flasharb/business/discovery/domain"
	marketDomain "github.com/avilla-f/flasharb/business/market/domain"
)

// ConsoleReporter implements app.Reporter for plain CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a new ConsoleReporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out: os.Stdout,
	}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Flash-Loan Arbitrage Scanner Started")
	fmt.Fprintln(r.out, "=====================================")
	return nil
}

// ReportEvaluation outputs a gated evaluation to the console.
func (r *ConsoleReporter) ReportEvaluation(ev *app.Evaluation) {
	opp := ev.Opportunity

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "OPPORTUNITY EVALUATED: %s\n", ev.Verdict)
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "Pair:           %s\n", ev.Pair)
	fmt.Fprintf(r.out, "Attempt:        %d\n", ev.Attempt)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "ROUTE")
	fmt.Fprintf(r.out, "  Sell:           %s tier %d @ %s (%s)\n",
		opp.SellPool.Venue, opp.SellPool.FeeTier, opp.SellPool.Rate.StringFixed(8), opp.SellPool.Address.Hex())
	fmt.Fprintf(r.out, "  Buy back:       %s tier %d @ %s (%s)\n",
		opp.BuyPool.Venue, opp.BuyPool.FeeTier, opp.BuyPool.Rate.StringFixed(8), opp.BuyPool.Address.Hex())
	fmt.Fprintf(r.out, "  Borrow amount:  %s\n", opp.Amount.String())
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "RESULT")
	fmt.Fprintf(r.out, "  Profit:         $%s\n", ev.ProfitUSD.StringFixed(4))
	fmt.Fprintf(r.out, "  Gas (est.):     $%s\n", ev.GasCostUSD.StringFixed(4))
	fmt.Fprintf(r.out, "  Verdict:        %s\n", ev.Verdict.String())
	fmt.Fprintln(r.out, "================================================================================")
}

// UpdateMarket outputs market snapshot changes when degraded. Routine
// refreshes stay quiet to keep console scans readable.
func (r *ConsoleReporter) UpdateMarket(snap marketDomain.Snapshot) {
	if !snap.Degraded() {
		return
	}
	fmt.Fprintf(r.out, "[%s] market degraded: gas=%s rate=%s\n",
		time.Now().Format("15:04:05"), snap.GasSource, snap.RateSource)
}

// UpdatePools outputs the discovery result for a pair.
func (r *ConsoleReporter) UpdatePools(pair string, pools []discoveryDomain.Pool) {
	fmt.Fprintf(r.out, "[%s] discovered %d pool(s) for %s\n",
		time.Now().Format("15:04:05"), len(pools), pair)
	for _, p := range pools {
		fmt.Fprintf(r.out, "  %-16s tier %-6d rate %s\n", p.Venue, p.FeeTier, p.Rate.StringFixed(8))
	}
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Flash-Loan Arbitrage Scanner Stopped")
	return nil
}
