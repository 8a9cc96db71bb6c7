package port

import "github.com/armory-tools/amr/internal/domain"

// TransferLog records transfer lifecycle events. It is advisory: the
// downloader treats logging failures as non-fatal.
type TransferLog interface {
	// Begin records a starting transfer and returns its record ID.
	Begin(t *domain.Transfer) (int64, error)

	// Progress updates the byte count of a running transfer.
	Progress(id int64, bytesDownloaded int64) error

	// Complete marks a transfer as finished.
	Complete(id int64, totalBytes int64) error

	// Fail marks a transfer as failed with its error message.
	Fail(id int64, errMsg string) error
}

// NopTransferLog discards all transfer records.
type NopTransferLog struct{}

func (NopTransferLog) Begin(*domain.Transfer) (int64, error) { return 0, nil }
func (NopTransferLog) Progress(int64, int64) error           { return nil }
func (NopTransferLog) Complete(int64, int64) error           { return nil }
func (NopTransferLog) Fail(int64, string) error              { return nil }
