package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	policy TEXT NOT NULL,
	bars INTEGER NOT NULL,
	window_size INTEGER NOT NULL,
	fee_rate REAL NOT NULL,
	initial_balance REAL NOT NULL,
	final_balance REAL NOT NULL,
	total_return REAL NOT NULL,
	total_return_pct REAL NOT NULL,
	sharpe_ratio REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	win_rate REAL NOT NULL,
	total_trades INTEGER NOT NULL,
	profit_factor REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL,
	step INTEGER NOT NULL,
	price REAL NOT NULL,
	position REAL NOT NULL,
	size REAL NOT NULL,
	commission REAL NOT NULL,
	equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id, step);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL,
	step INTEGER NOT NULL,
	equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_run ON equity(run_id, step);
`
