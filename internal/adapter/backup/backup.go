package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/api-sage/account-ledger/internal/logger"
)

// Copier performs whole-file byte copies of the record store to and
// from a backup location. Copy-then-replace with no atomicity against
// concurrent writers, so both directions hold the gate for their whole
// duration.
type Copier struct {
	gate       *sync.Mutex
	dataPath   string
	backupPath string
}

func NewCopier(gate *sync.Mutex, dataPath, backupPath string) *Copier {
	return &Copier{
		gate:       gate,
		dataPath:   dataPath,
		backupPath: backupPath,
	}
}

// Backup copies the data file over the backup file.
func (c *Copier) Backup(ctx context.Context) error {
	c.gate.Lock()
	defer c.gate.Unlock()

	if err := copyFile(c.dataPath, c.backupPath); err != nil {
		logger.Error("backup adapter backup failed", err, logger.Fields{
			"dataPath":   c.dataPath,
			"backupPath": c.backupPath,
		})
		return err
	}

	logger.Info("backup adapter backup written", logger.Fields{
		"backupPath": c.backupPath,
	})
	return nil
}

// Restore copies the backup file over the data file.
func (c *Copier) Restore(ctx context.Context) error {
	c.gate.Lock()
	defer c.gate.Unlock()

	if err := copyFile(c.backupPath, c.dataPath); err != nil {
		logger.Error("backup adapter restore failed", err, logger.Fields{
			"dataPath":   c.dataPath,
			"backupPath": c.backupPath,
		})
		return err
	}

	logger.Info("backup adapter data restored", logger.Fields{
		"dataPath": c.dataPath,
	})
	return nil
}

func copyFile(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("source file %s does not exist", srcPath)
		}
		return fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy %s to %s: %w", srcPath, dstPath, err)
	}
	if err := dst.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", dstPath, err)
	}

	return nil
}
