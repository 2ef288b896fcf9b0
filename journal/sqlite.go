package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite journals runs, trades and equity into a single database
// file. Safe for use from one goroutine; the backtest loop is
// single-threaded and live trading writes through one coordinator.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r Run) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, symbol, policy, bars, window_size, fee_rate, initial_balance,
		 final_balance, total_return, total_return_pct, sharpe_ratio, max_drawdown,
		 win_rate, total_trades, profit_factor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Symbol, r.Policy, r.Bars, r.WindowSize, r.FeeRate,
		r.InitialBalance, r.Results.FinalBalance, r.Results.TotalReturn,
		r.Results.TotalReturnPct, r.Results.SharpeRatio, r.Results.MaxDrawdown,
		r.Results.WinRate, r.Results.TotalTrades, r.Results.ProfitFactor,
	)
	return err
}

func (j *SQLite) RecordTrade(t TradeRow) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, step, price, position, size, commission, equity)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.Step, t.Price, t.Position, t.Size, t.Commission, t.Equity,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquityPoint) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (run_id, step, equity) VALUES (?, ?, ?)`,
		e.RunID, e.Step, e.Equity,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
