// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	episode_id TEXT NOT NULL,
	step INTEGER NOT NULL,
	side TEXT NOT NULL,
	position REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	realized_pnl REAL NOT NULL,
	closed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_episode ON trades(episode_id, step);

CREATE TABLE IF NOT EXISTS equity (
	episode_id TEXT NOT NULL,
	step INTEGER NOT NULL,
	time DATETIME NOT NULL,
	balance REAL NOT NULL,
	position REAL NOT NULL,
	total_pnl REAL NOT NULL,
	price REAL NOT NULL,
	reward REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_episode ON equity(episode_id, step);

CREATE TABLE IF NOT EXISTS episodes (
	episode_id TEXT PRIMARY KEY,
	policy TEXT NOT NULL,
	dataset TEXT NOT NULL,
	steps INTEGER NOT NULL,
	total_reward REAL NOT NULL,
	total_return REAL NOT NULL,
	sharpe REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	win_rate REAL NOT NULL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	initial_balance REAL NOT NULL,
	final_balance REAL NOT NULL,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);
`
