package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns a single run summary by id.
func (j *SQLite) GetRun(runID string) (Run, error) {
	row := j.db.QueryRow(`
		SELECT run_id, created, symbol, policy, bars, window_size, fee_rate, initial_balance,
		       final_balance, total_return, total_return_pct, sharpe_ratio, max_drawdown,
		       win_rate, total_trades, profit_factor
		FROM runs
		WHERE run_id = ?`, runID)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("run %q not found", runID)
	}
	return r, err
}

// ListRuns returns the most recent runs, newest first. Run ids sort
// by creation time, so ordering by id is ordering by age.
func (j *SQLite) ListRuns(limit int) ([]Run, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, symbol, policy, bars, window_size, fee_rate, initial_balance,
		       final_balance, total_return, total_return_pct, sharpe_ratio, max_drawdown,
		       win_rate, total_trades, profit_factor
		FROM runs
		ORDER BY run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TradesForRun returns a run's trades in execution order.
func (j *SQLite) TradesForRun(runID string) ([]TradeRow, error) {
	rows, err := j.db.Query(`
		SELECT run_id, step, price, position, size, commission, equity
		FROM trades
		WHERE run_id = ?
		ORDER BY step ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRow
	for rows.Next() {
		var tr TradeRow
		if err := rows.Scan(
			&tr.RunID, &tr.Step, &tr.Price, &tr.Position,
			&tr.Size, &tr.Commission, &tr.Equity,
		); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

// EquityCurve returns a run's equity snapshots ordered by step, ready
// to feed straight into analysis.
func (j *SQLite) EquityCurve(runID string) ([]float64, error) {
	rows, err := j.db.Query(`
		SELECT equity FROM equity
		WHERE run_id = ?
		ORDER BY step ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var e float64
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	err := row.Scan(
		&r.RunID, &r.Created, &r.Symbol, &r.Policy, &r.Bars, &r.WindowSize,
		&r.FeeRate, &r.InitialBalance, &r.Results.FinalBalance,
		&r.Results.TotalReturn, &r.Results.TotalReturnPct, &r.Results.SharpeRatio,
		&r.Results.MaxDrawdown, &r.Results.WinRate, &r.Results.TotalTrades,
		&r.Results.ProfitFactor,
	)
	return r, err
}
