package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/policy"
	"github.com/rustyeddy/tradesim/risk"
	"github.com/rustyeddy/tradesim/sim"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run guided walkthroughs",
	Long: `Run small self-contained walkthroughs that show how the pieces fit.

Available demos:
  episode - step a policy through one synthetic episode
  risk    - position sizing and trade admission under the risk limits

Examples:
  tradesim demo episode
  tradesim demo risk`,
}

var demoEpisodeCmd = &cobra.Command{
	Use:   "episode",
	Short: "Step a policy through one synthetic episode",
	Long: `Demonstrates the episodic simulation loop:
  1. Generating a synthetic bar series
  2. Warming a policy on the first observation window
  3. Stepping the simulator with the policy's actions
  4. Reading equity, drawdown, and the trade log at the end`,
	RunE: runDemoEpisode,
}

var demoRiskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Run a risk sizing walkthrough",
	Long: `Demonstrates the risk governor:
  - Sizing positions from balance and risk percent
  - Admitting and rejecting trade intents against the limits
  - Protective stop-loss and take-profit levels on an open position`,
	RunE: runDemoRisk,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.AddCommand(demoEpisodeCmd)
	demoCmd.AddCommand(demoRiskCmd)
}

func runDemoEpisode(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Episode Demo ===")
	fmt.Println()

	series := market.RandomWalk(160, 100, 0.001, 0.015, 7)
	cfg := sim.Config{InitialBalance: 10_000, FeeRate: 0.001, WindowSize: 20}

	s, err := sim.New(series, cfg)
	if err != nil {
		return err
	}

	pol, err := policy.ByName("momentum", 7)
	if err != nil {
		return err
	}
	pol.Reset()

	fmt.Printf("Synthetic series: %d bars from %.2f\n", series.Len(), series.Close(0))
	fmt.Printf("Episode: balance $%.2f, fee %.2f%%, window %d bars\n", cfg.InitialBalance, cfg.FeeRate*100, cfg.WindowSize)
	fmt.Printf("Policy: %s\n\n", pol.Name())

	// Warm the policy on the bars behind the first observation.
	var act sim.Action
	for i := 0; i < cfg.WindowSize; i++ {
		act = pol.Update(series.Bar(i))
	}

	var reward float64
	steps := 0
	for !s.Done() {
		_, r, done, info := s.Step(act)
		reward += r
		steps++

		if steps%25 == 0 || done {
			fmt.Printf("step %3d  price %8.2f  exposure %+5.2f  equity $%9.2f\n",
				steps, info.Price, info.Position*info.PositionSize, info.Equity)
		}
		if done {
			break
		}
		act = pol.Update(series.Bar(info.Step - 1))
	}

	fmt.Printf("\nEpisode done after %d steps\n", steps)
	fmt.Printf("  Final equity: $%.2f (%+.2f%% return)\n", s.Equity(), (s.Equity()/cfg.InitialBalance-1)*100)
	fmt.Printf("  Max drawdown: %.2f%%\n", s.MaxDrawdown()*100)
	fmt.Printf("  Cumulative reward: %.2f\n", reward)
	fmt.Printf("  Rebalances: %d\n", len(s.Trades()))

	show := s.Trades()
	if len(show) > 12 {
		show = show[:12]
	}
	for _, tr := range show {
		fmt.Printf("    bar %3d  %+.2f x %.2f at %8.2f  (fee $%.2f)\n",
			tr.Step, tr.Position, tr.Size, tr.Price, tr.Commission)
	}
	if len(s.Trades()) > 12 {
		fmt.Printf("    ... %d more\n", len(s.Trades())-12)
	}

	fmt.Println("\n✓ Run `tradesim backtest` for the journaled version of this loop.")
	return nil
}

func runDemoRisk(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Risk Sizing Demo ===")
	fmt.Println()

	lim := risk.DefaultLimits()
	governor := risk.NewGovernor(lim)

	fmt.Printf("Limits:\n")
	fmt.Printf("  Max position size: $%.0f notional\n", lim.MaxPositionSize)
	fmt.Printf("  Max risk per trade: %.1f%% of balance\n", lim.MaxRiskPerTrade)
	fmt.Printf("  Min balance: $%.0f\n", lim.MinBalance)
	fmt.Printf("  Open position cap: %d\n", lim.MaxOpenPositions)
	fmt.Printf("  Stop loss / take profit: %.0f%% / %.0f%%\n\n", lim.StopLossPct, lim.TakeProfitPct)

	price := 50_000.0
	fmt.Printf("Position sizing at price $%.0f:\n", price)
	for _, balance := range []float64{10_000, 5_000, 2_000} {
		qty := governor.PositionSize(price, balance, 0)
		fmt.Printf("  balance $%7.0f -> %.6f units ($%.2f notional)\n", balance, qty, qty*price)
	}
	fmt.Println()

	qty := governor.PositionSize(price, 10_000, 0)
	ok := governor.CheckTrade(
		risk.TradeIntent{Symbol: "BTCUSDT", Side: risk.Long, Amount: qty, Price: price},
		risk.AccountSnapshot{Balance: 10_000})
	fmt.Printf("Admission for %.6f BTC at $%.0f, balance $10000:\n", qty, price)
	fmt.Printf("  allowed: %v\n\n", ok.Allowed)

	bad := governor.CheckTrade(
		risk.TradeIntent{Symbol: "BTCUSDT", Side: risk.Long, Amount: 0.1, Price: price},
		risk.AccountSnapshot{Balance: 900, OpenPositions: 5})
	fmt.Printf("Admission for 0.1 BTC at $%.0f, balance $900, 5 positions open:\n", price)
	fmt.Printf("  allowed: %v\n", bad.Allowed)
	fmt.Printf("  reason: %s\n\n", bad.Reason())

	pos := governor.UpdatePosition("BTCUSDT", price, price, qty)
	fmt.Printf("Protective levels for the open position:\n")
	fmt.Printf("  stop loss: $%.2f\n", pos.StopLoss)
	fmt.Printf("  take profit: $%.2f\n\n", pos.TakeProfit)

	down := governor.UpdatePosition("BTCUSDT", price, price*0.94, qty)
	fmt.Printf("After a 6%% drop to $%.2f:\n", price*0.94)
	fmt.Printf("  unrealized: $%.2f (%.2f%%)\n", down.UnrealizedPnL, down.UnrealizedPct)
	fmt.Printf("  stop loss hit: %v\n", down.HitStopLoss())

	fmt.Println("\n✓ The governor sizes, admits, and watches positions from one limit set.")
	return nil
}
