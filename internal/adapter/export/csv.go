package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/api-sage/account-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/internal/logger"
)

var csvHeader = []string{"acc_no", "name", "type", "balance", "phone", "address", "active"}

// Exporter writes a full snapshot of the record store, closed accounts
// included, to a CSV file. It is a read-only consumer of the store but
// still takes the gate so it never observes a half-finished bulk
// rewrite.
type Exporter struct {
	gate  *sync.Mutex
	store repo_interfaces.RecordStore
	path  string
}

func NewExporter(gate *sync.Mutex, store repo_interfaces.RecordStore, path string) *Exporter {
	return &Exporter{
		gate:  gate,
		store: store,
		path:  path,
	}
}

// Export returns the number of rows written, header excluded.
func (e *Exporter) Export(ctx context.Context) (int, error) {
	e.gate.Lock()
	defer e.gate.Unlock()

	accounts, err := e.store.ReadAll(ctx)
	if err != nil {
		logger.Error("export adapter read accounts failed", err, nil)
		return 0, err
	}

	f, err := os.Create(e.path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("write export header: %w", err)
	}

	for _, account := range accounts {
		active := "0"
		if account.Active {
			active = "1"
		}
		row := []string{
			strconv.Itoa(account.Number),
			account.HolderName,
			string(account.Type),
			account.Balance.StringFixed(2),
			account.Phone,
			account.Address,
			active,
		}
		if err := w.Write(row); err != nil {
			return 0, fmt.Errorf("write export row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("flush export file: %w", err)
	}

	logger.Info("export adapter snapshot written", logger.Fields{
		"path": e.path,
		"rows": len(accounts),
	})

	return len(accounts), nil
}
