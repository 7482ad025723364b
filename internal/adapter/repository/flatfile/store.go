package flatfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/api-sage/account-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/internal/domain"
)

// Store keeps accounts as fixed-width records in a single data file.
// Position p lives at byte offset p*RecordSize. Files are opened per
// call and synced before close, so every write is durable when the
// method returns.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

var _ repo_interfaces.RecordStore = (*Store)(nil)

func (s *Store) Append(ctx context.Context, account domain.Account) (repo_interfaces.Position, error) {
	record, err := encodeRecord(account)
	if err != nil {
		return 0, fmt.Errorf("encode record: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	pos := repo_interfaces.Position(info.Size() / RecordSize)

	if _, err := f.Write(record); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := f.Sync(); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return pos, nil
}

func (s *Store) ReadAt(ctx context.Context, pos repo_interfaces.Position) (domain.Account, error) {
	if pos < 0 {
		return domain.Account{}, domain.ErrNotFound
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer f.Close()

	buf := make([]byte, RecordSize)
	if _, err := f.ReadAt(buf, int64(pos)*RecordSize); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	account, err := decodeRecord(buf)
	if err != nil {
		return domain.Account{}, fmt.Errorf("decode record at position %d: %w", pos, err)
	}

	return account, nil
}

func (s *Store) WriteAt(ctx context.Context, pos repo_interfaces.Position, account domain.Account) error {
	record, err := encodeRecord(account)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer f.Close()

	if _, err := f.WriteAt(record, int64(pos)*RecordSize); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return int(info.Size() / RecordSize), nil
}

func (s *Store) ReadAll(ctx context.Context) ([]domain.Account, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer f.Close()

	var accounts []domain.Account
	buf := make([]byte, RecordSize)
	for pos := 0; ; pos++ {
		_, err := io.ReadFull(f, buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			// trailing partial record; ignore it the way size/RecordSize does
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}

		account, err := decodeRecord(buf)
		if err != nil {
			return nil, fmt.Errorf("decode record at position %d: %w", pos, err)
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

func (s *Store) RewriteAll(ctx context.Context, accounts []domain.Account) error {
	encoded := make([][]byte, 0, len(accounts))
	for i, account := range accounts {
		record, err := encodeRecord(account)
		if err != nil {
			return fmt.Errorf("encode record at position %d: %w", i, err)
		}
		encoded = append(encoded, record)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer f.Close()

	for _, record := range encoded {
		if _, err := f.Write(record); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
	}
	if err := f.Truncate(int64(len(encoded)) * RecordSize); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return nil
}
