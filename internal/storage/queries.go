package storage

const (
	createUserSQL   = `INSERT INTO users (username, passkey) VALUES (?, ?)`
	getUserSQL      = `SELECT username, passkey FROM users WHERE username = ?`
	countUserSQL    = `SELECT COUNT(*) FROM users WHERE username = ?`
	getBudgetSQL    = `SELECT amount_cents FROM budget WHERE username = ?`
	upsertBudgetSQL = `
		INSERT INTO budget (username, amount_cents) VALUES (?, ?)
		ON CONFLICT(username) DO UPDATE SET amount_cents = excluded.amount_cents`

	createTransactionSQL = `
		INSERT INTO transactions (username, date, category, type, amount_cents)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`
	deleteTransactionSQL = `DELETE FROM transactions WHERE id = ? AND username = ?`
	getTransactionSQL    = `
		SELECT id, username, date, category, type, amount_cents
		FROM transactions WHERE id = ? AND username = ?`
	listTransactionsSQL = `
		SELECT id, username, date, category, type, amount_cents
		FROM transactions WHERE username = ? ORDER BY id`

	createReminderSQL = `
		INSERT INTO bill_reminders (username, bill_name, amount_cents, due_date, frequency)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`
	deleteReminderSQL = `DELETE FROM bill_reminders WHERE id = ? AND username = ?`
	listRemindersSQL  = `
		SELECT id, username, bill_name, amount_cents, due_date, frequency
		FROM bill_reminders WHERE username = ? ORDER BY id`
	listAllRemindersSQL = `
		SELECT id, username, bill_name, amount_cents, due_date, frequency
		FROM bill_reminders ORDER BY id`
)
