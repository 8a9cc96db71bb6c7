package sqlite

import (
	"database/sql"

	"github.com/armory-tools/amr/internal/domain"
)

// Begin records a starting transfer
func (s *Store) Begin(t *domain.Transfer) (int64, error) {
	query := `
		INSERT INTO transfers (
			source_url, filename, temp_path, resumed_from, total_size, status
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		t.SourceURL, t.Filename, t.TempPath, t.ResumedFrom, t.TotalSize,
		domain.TransferStatusInProgress)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	t.ID = id
	t.Status = domain.TransferStatusInProgress
	return id, nil
}

// Progress updates the byte count of a running transfer
func (s *Store) Progress(id int64, bytesDownloaded int64) error {
	query := `
		UPDATE transfers
		SET bytes_downloaded = ?, updated_at = datetime('now')
		WHERE id = ?
	`

	_, err := s.db.Exec(query, bytesDownloaded, id)
	return err
}

// Complete marks a transfer as finished
func (s *Store) Complete(id int64, totalBytes int64) error {
	query := `
		UPDATE transfers
		SET status = ?, bytes_downloaded = ?, updated_at = datetime('now')
		WHERE id = ?
	`

	_, err := s.db.Exec(query, domain.TransferStatusCompleted, totalBytes, id)
	return err
}

// Fail marks a transfer as failed with its error message
func (s *Store) Fail(id int64, errMsg string) error {
	query := `
		UPDATE transfers
		SET status = ?, last_error = ?, updated_at = datetime('now')
		WHERE id = ?
	`

	_, err := s.db.Exec(query, domain.TransferStatusFailed, errMsg, id)
	return err
}

// Recent returns the most recent transfers, newest first.
func (s *Store) Recent(limit int) ([]*domain.Transfer, error) {
	query := `
		SELECT id, source_url, filename, temp_path, resumed_from,
			   bytes_downloaded, total_size, status, last_error,
			   started_at, updated_at
		FROM transfers
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*domain.Transfer
	for rows.Next() {
		t := &domain.Transfer{}
		var lastError sql.NullString

		err := rows.Scan(
			&t.ID, &t.SourceURL, &t.Filename, &t.TempPath, &t.ResumedFrom,
			&t.BytesDownloaded, &t.TotalSize, &t.Status, &lastError,
			&t.StartedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if lastError.Valid {
			t.LastError = lastError.String
		}

		transfers = append(transfers, t)
	}

	return transfers, rows.Err()
}
