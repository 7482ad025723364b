package cli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/account-ledger/internal/adapter/backup"
	"github.com/api-sage/account-ledger/internal/adapter/cli"
	"github.com/api-sage/account-ledger/internal/adapter/export"
	"github.com/api-sage/account-ledger/internal/adapter/repository/flatfile"
	"github.com/api-sage/account-ledger/internal/auth"
	"github.com/api-sage/account-ledger/internal/usecase/services"
)

func newTestCLI(t *testing.T, input string) (*cli.CLI, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	var gate sync.Mutex
	store := flatfile.NewStore(filepath.Join(dir, "accounts.dat"))
	translog := flatfile.NewTransLog(filepath.Join(dir, "transactions.txt"))
	index := services.NewAccountIndex(store)

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	var out bytes.Buffer
	app := cli.New(strings.NewReader(input), &out, cli.Deps{
		Credentials: auth.NewCredentials("admin", hash),
		Accounts:    services.NewAccountService(&gate, store, index, translog),
		Transfers:   services.NewTransferService(&gate, store, index, translog),
		Interest:    services.NewInterestService(&gate, store, translog),
		Exporter:    export.NewExporter(&gate, store, filepath.Join(dir, "accounts_export.csv")),
		Backup:      backup.NewCopier(&gate, filepath.Join(dir, "accounts.dat"), filepath.Join(dir, "accounts.bak")),
	})

	return app, &out
}

func TestRunRejectsBadLogin(t *testing.T) {
	input := strings.Join([]string{
		"admin", "wrong",
		"admin", "wrong",
		"admin", "wrong",
	}, "\n") + "\n"

	app, out := newTestCLI(t, input)
	err := app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, out.String(), "Authentication failed")
}

func TestRunCreateDepositDisplayExit(t *testing.T) {
	input := strings.Join([]string{
		"admin", "s3cret", // login
		"1",                    // create account
		"Asha Verma",           // holder name
		"Savings",              // type
		"100.00",               // initial deposit
		"555-0101",             // phone
		"12 Hill Road",         // address
		"3", "1001", "25.50",   // deposit
		"2", "1001",            // display
		"13",                   // exit
	}, "\n") + "\n"

	app, out := newTestCLI(t, input)
	require.NoError(t, app.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Login successful.")
	assert.Contains(t, text, "Account created successfully. Account No: 1001")
	assert.Contains(t, text, "Deposit successful. New balance: 125.50")
	assert.Contains(t, text, "Name: Asha Verma")
	assert.Contains(t, text, "Balance: 125.50")
	assert.Contains(t, text, "Exiting...")
}

func TestRunTransferAndClose(t *testing.T) {
	input := strings.Join([]string{
		"admin", "s3cret",
		"1", "Source Holder", "Savings", "100.00", "", "",
		"1", "Dest Holder", "Current", "50.00", "", "",
		"8", "1001", "1002", "30.00", // transfer
		"6", "1002", "y", // close destination
		"6", "1002", "y", // second close is rejected
		"13",
	}, "\n") + "\n"

	app, out := newTestCLI(t, input)
	require.NoError(t, app.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Transfer successful. New balances: 1001 -> 70.00, 1002 -> 80.00")
	assert.Contains(t, text, "Account closed successfully.")
	assert.Contains(t, text, "Failed to close account: Account already closed")
}
