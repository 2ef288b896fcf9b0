package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/broker"
	"github.com/rustyeddy/tradesim/config"
	"github.com/rustyeddy/tradesim/exec"
	"github.com/rustyeddy/tradesim/risk"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Execute a single risk-checked trade",
	Long: `Trade runs one execution cycle: resolve a price, size the order,
run the risk checks, and place it on the paper or live venue. The
outcome is printed as JSON.

The paper venue has no market of its own, so give it a price with
--price or configure a fallback price. Live mode reads
BINANCE_API_KEY and BINANCE_API_SECRET from the environment; a .env
file in the working directory is honored.

Examples:
  tradesim trade -i BTCUSDT -s BUY --price 65000
  tradesim trade -i ETHUSDT -s SELL --held 0.5 --entry 3200 --price 3150
  tradesim trade -i BTCUSDT -s BUY --mode live --testnet`,
	RunE: runTrade,
}

var (
	tradeConfigPath string
	tradeSymbol     string
	tradeSide       string
	tradePrice      float64
	tradeMode       string
	tradeBalance    float64
	tradeHeld       float64
	tradeEntry      float64
	tradeTestnet    bool
)

func init() {
	rootCmd.AddCommand(tradeCmd)

	tradeCmd.Flags().StringVarP(&tradeConfigPath, "config", "f", "", "config file (YAML or JSON)")
	tradeCmd.Flags().StringVarP(&tradeSymbol, "symbol", "i", "BTCUSDT", "instrument symbol")
	tradeCmd.Flags().StringVarP(&tradeSide, "side", "s", "", "order side: BUY, SELL or HOLD (required)")
	tradeCmd.Flags().Float64VarP(&tradePrice, "price", "p", 0, "price override (0 quotes the venue)")
	tradeCmd.Flags().StringVarP(&tradeMode, "mode", "m", "", "execution mode: paper or live (default: config)")
	tradeCmd.Flags().Float64VarP(&tradeBalance, "balance", "b", 0, "account balance for risk checks (default: config)")
	tradeCmd.Flags().Float64Var(&tradeHeld, "held", 0, "pre-existing position quantity, for SELL cycles")
	tradeCmd.Flags().Float64Var(&tradeEntry, "entry", 0, "entry price of the pre-existing position")
	tradeCmd.Flags().BoolVar(&tradeTestnet, "testnet", false, "route live orders to the spot testnet")

	tradeCmd.MarkFlagRequired("side")
}

func runTrade(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if tradeConfigPath != "" {
		loaded, err := config.LoadFromFile(tradeConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if tradeMode == "" {
		tradeMode = cfg.Execution.Mode
	}
	if tradeBalance == 0 {
		tradeBalance = cfg.Account.Balance
	}

	logger := newLogger()

	var live broker.Broker
	if exec.Mode(tradeMode) == exec.ModeLive {
		_ = godotenv.Load()
		key := os.Getenv("BINANCE_API_KEY")
		secret := os.Getenv("BINANCE_API_SECRET")
		if key == "" || secret == "" {
			return fmt.Errorf("live mode needs BINANCE_API_KEY and BINANCE_API_SECRET in the environment")
		}
		broker.UseTestnet(tradeTestnet)
		live = broker.NewBinance(key, secret, logger)
	}

	governor := risk.NewGovernor(cfg.Risk)
	acct := risk.AccountSnapshot{Balance: tradeBalance}

	// A held position makes SELL cycles meaningful: the coordinator
	// sizes sells from the governor's book.
	if tradeHeld > 0 && tradeEntry > 0 {
		mark := tradeEntry
		if tradePrice > 0 {
			mark = tradePrice
		}
		governor.UpdatePosition(tradeSymbol, tradeEntry, mark, tradeHeld)
		acct.OpenPositions = 1
	}

	coord, err := exec.NewCoordinator(exec.Config{
		Governor:      governor,
		Paper:         broker.NewPaper(cfg.Simulation.FeeRate),
		Live:          live,
		Mode:          exec.Mode(tradeMode),
		FallbackPrice: cfg.Execution.FallbackPrice,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	res := coord.Execute(context.Background(), exec.Order{
		Symbol: tradeSymbol,
		Side:   exec.Side(strings.ToUpper(strings.TrimSpace(tradeSide))),
		Price:  tradePrice,
	}, acct)

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
