package store

import "time"

// QueueOutbox adds a mutation to the outbox.
func (db *DB) QueueOutbox(mutationID, entity, method, path string, body []byte) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO outbox (mutation_id, entity, method, path, body, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 'queued', ?, ?)`,
		mutationID, entity, method, path, body, now, now)
	return err
}

// MarkOutboxSending updates an outbox entry to 'sending' status.
func (db *DB) MarkOutboxSending(mutationID string) error {
	return db.setOutboxStatus(mutationID, OutboxSending, "")
}

// MarkOutboxSent updates an outbox entry to 'sent'.
func (db *DB) MarkOutboxSent(mutationID string) error {
	return db.setOutboxStatus(mutationID, OutboxSent, "")
}

// MarkOutboxFailed updates an outbox entry to 'failed' with an error message.
func (db *DB) MarkOutboxFailed(mutationID, errMsg string) error {
	return db.setOutboxStatus(mutationID, OutboxFailed, errMsg)
}

func (db *DB) setOutboxStatus(mutationID, status, errMsg string) error {
	_, err := db.Exec(`UPDATE outbox SET status = ?, error_message = ?, updated_at = ? WHERE mutation_id = ?`,
		status, errMsg, time.Now().UnixMilli(), mutationID)
	return err
}

// RequeueSending puts entries left in 'sending' by a previous run back in the queue.
func (db *DB) RequeueSending() (int64, error) {
	res, err := db.Exec(`UPDATE outbox SET status = 'queued', updated_at = ? WHERE status = 'sending'`, time.Now().UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PendingOutbox returns queued entries in insertion order.
func (db *DB) PendingOutbox() ([]OutboxEntry, error) {
	return db.queryOutbox(`WHERE status = 'queued' ORDER BY id ASC`)
}

// FailedOutbox returns entries whose last attempt failed, newest first.
func (db *DB) FailedOutbox(limit int) ([]OutboxEntry, error) {
	return db.queryOutbox(`WHERE status = 'failed' ORDER BY id DESC LIMIT ?`, limit)
}

func (db *DB) queryOutbox(where string, args ...any) ([]OutboxEntry, error) {
	rows, err := db.Query(`
		SELECT id, mutation_id, entity, method, path, body, status, error_message, created_at
		FROM outbox `+where, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []OutboxEntry
	for rows.Next() {
		var (
			e         OutboxEntry
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.MutationID, &e.Entity, &e.Method, &e.Path, &e.Body, &e.Status, &e.ErrorMessage, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = time.UnixMilli(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
