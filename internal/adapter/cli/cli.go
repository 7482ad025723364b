package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/account-ledger/internal/adapter/backup"
	"github.com/api-sage/account-ledger/internal/adapter/export"
	"github.com/api-sage/account-ledger/internal/auth"
	"github.com/api-sage/account-ledger/internal/logger"
	"github.com/api-sage/account-ledger/internal/usecase/service_interfaces"
	"github.com/api-sage/account-ledger/internal/usecase/services"
)

const maxLoginAttempts = 3

// Deps are the collaborators the menu drives. The CLI validates and
// parses raw input; all ledger rules live behind the service
// interfaces.
type Deps struct {
	Credentials *auth.Credentials
	Accounts    service_interfaces.AccountService
	Transfers   service_interfaces.TransferService
	Interest    service_interfaces.InterestService
	Exporter    *export.Exporter
	Backup      *backup.Copier
}

type CLI struct {
	in        *bufio.Reader
	out       io.Writer
	deps      Deps
	sessionID string
}

func New(in io.Reader, out io.Writer, deps Deps) *CLI {
	return &CLI{
		in:        bufio.NewReader(in),
		out:       out,
		deps:      deps,
		sessionID: uuid.New().String(),
	}
}

// Run gates the session behind the admin login and then serves the
// menu until the operator exits or input ends.
func (c *CLI) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "Welcome to the Account Ledger")

	if !c.login() {
		fmt.Fprintln(c.out, "Authentication failed. Exiting.")
		return fmt.Errorf("authentication failed")
	}

	logger.Info("cli session started", logger.Fields{
		"sessionId": c.sessionID,
	})

	for {
		c.printMenu()
		choice, ok := c.readInt("Enter choice: ")
		if !ok {
			return nil
		}

		switch choice {
		case 1:
			c.createAccount(ctx)
		case 2:
			c.displayAccount(ctx)
		case 3:
			c.deposit(ctx)
		case 4:
			c.withdraw(ctx)
		case 5:
			c.modifyAccount(ctx)
		case 6:
			c.closeAccount(ctx)
		case 7:
			c.listAccounts(ctx)
		case 8:
			c.transfer(ctx)
		case 9:
			c.applyInterest(ctx)
		case 10:
			c.exportCSV(ctx)
		case 11:
			c.backupData(ctx)
		case 12:
			c.restoreData(ctx)
		case 13:
			fmt.Fprintln(c.out, "Exiting...")
			logger.Info("cli session ended", logger.Fields{
				"sessionId": c.sessionID,
			})
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid choice. Try again.")
		}
	}
}

func (c *CLI) login() bool {
	for attempt := 1; attempt <= maxLoginAttempts; attempt++ {
		fmt.Fprintln(c.out, "\nAdmin login required.")
		user, ok := c.readLine("User: ")
		if !ok {
			return false
		}
		pass, ok := c.readLine("Password: ")
		if !ok {
			return false
		}

		if c.deps.Credentials.Verify(user, pass) {
			fmt.Fprintln(c.out, "Login successful.")
			return true
		}
		fmt.Fprintln(c.out, "Invalid credentials.")
	}
	return false
}

func (c *CLI) printMenu() {
	fmt.Fprintln(c.out, "\n===== Account Ledger =====")
	fmt.Fprintln(c.out, "1. Create Account")
	fmt.Fprintln(c.out, "2. Display Account")
	fmt.Fprintln(c.out, "3. Deposit")
	fmt.Fprintln(c.out, "4. Withdraw")
	fmt.Fprintln(c.out, "5. Modify Account")
	fmt.Fprintln(c.out, "6. Close Account")
	fmt.Fprintln(c.out, "7. List Accounts")
	fmt.Fprintln(c.out, "8. Transfer Funds")
	fmt.Fprintln(c.out, "9. Apply Interest to Savings")
	fmt.Fprintln(c.out, "10. Export Accounts to CSV")
	fmt.Fprintln(c.out, "11. Backup Data")
	fmt.Fprintln(c.out, "12. Restore Data from Backup")
	fmt.Fprintln(c.out, "13. Exit")
}

func (c *CLI) createAccount(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Create New Account ---")
	name, ok := c.readLine("Enter holder name: ")
	if !ok {
		return
	}
	accType, ok := c.readLine("Enter account type (Savings/Current): ")
	if !ok {
		return
	}
	initial, ok := c.readDecimal("Enter initial deposit amount: ")
	if !ok {
		return
	}
	phone, ok := c.readLine("Enter phone number: ")
	if !ok {
		return
	}
	address, ok := c.readLine("Enter address: ")
	if !ok {
		return
	}

	account, err := c.deps.Accounts.CreateAccount(ctx, services.CreateAccountInput{
		HolderName:     name,
		Type:           accType,
		Phone:          phone,
		Address:        address,
		InitialBalance: initial,
	})
	if err != nil {
		fmt.Fprintf(c.out, "Failed to create account: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Account created successfully. Account No: %d\n", account.Number)
}

func (c *CLI) displayAccount(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Display Account ---")
	number, ok := c.readInt("Enter account number: ")
	if !ok {
		return
	}

	account, history, err := c.deps.Accounts.GetAccount(ctx, number)
	if err != nil {
		fmt.Fprintf(c.out, "%v\n", err)
		return
	}

	fmt.Fprintf(c.out, "\nAccount No: %d\nName: %s\nType: %s\nBalance: %s\nPhone: %s\nAddress: %s\n",
		account.Number, account.HolderName, account.Type,
		account.Balance.StringFixed(2), account.Phone, account.Address)

	if len(history) == 0 {
		fmt.Fprintln(c.out, "\nNo transactions found for this account.")
		return
	}
	fmt.Fprintln(c.out, "\nRecent transactions:")
	for _, entry := range history {
		fmt.Fprintf(c.out, "%d, %s, %s, %s, %s\n",
			entry.AccountNumber, entry.Kind,
			entry.Amount.StringFixed(2), entry.ResultingBalance.StringFixed(2),
			entry.Timestamp.Format("2006-01-02 15:04:05"))
	}
}

func (c *CLI) deposit(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Deposit ---")
	number, ok := c.readInt("Enter account number: ")
	if !ok {
		return
	}
	amount, ok := c.readDecimal("Enter deposit amount: ")
	if !ok {
		return
	}

	account, err := c.deps.Accounts.Deposit(ctx, number, amount)
	if err != nil {
		fmt.Fprintf(c.out, "Deposit failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Deposit successful. New balance: %s\n", account.Balance.StringFixed(2))
}

func (c *CLI) withdraw(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Withdraw ---")
	number, ok := c.readInt("Enter account number: ")
	if !ok {
		return
	}
	amount, ok := c.readDecimal("Enter withdrawal amount: ")
	if !ok {
		return
	}

	account, err := c.deps.Accounts.Withdraw(ctx, number, amount)
	if err != nil {
		fmt.Fprintf(c.out, "Withdrawal failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Withdrawal successful. New balance: %s\n", account.Balance.StringFixed(2))
}

func (c *CLI) modifyAccount(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Modify Account ---")
	number, ok := c.readInt("Enter account number: ")
	if !ok {
		return
	}
	phone, ok := c.readLine("Enter new phone (leave empty to keep): ")
	if !ok {
		return
	}
	address, ok := c.readLine("Enter new address (leave empty to keep): ")
	if !ok {
		return
	}
	accType, ok := c.readLine("Enter new type (Savings/Current) or leave empty to keep: ")
	if !ok {
		return
	}

	_, warnings, err := c.deps.Accounts.ModifyAccount(ctx, number, services.ModifyAccountInput{
		Phone:   phone,
		Address: address,
		Type:    accType,
	})
	if err != nil {
		fmt.Fprintf(c.out, "Failed to modify account: %v\n", err)
		return
	}
	for _, warning := range warnings {
		fmt.Fprintf(c.out, "Warning: %s\n", warning)
	}
	fmt.Fprintln(c.out, "Account modified successfully.")
}

func (c *CLI) closeAccount(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Close Account ---")
	number, ok := c.readInt("Enter account number: ")
	if !ok {
		return
	}
	answer, ok := c.readLine(fmt.Sprintf("Are you sure you want to close account %d? (y/n): ", number))
	if !ok {
		return
	}
	confirmed := strings.EqualFold(strings.TrimSpace(answer), "y")
	if !confirmed {
		fmt.Fprintln(c.out, "Operation cancelled.")
		return
	}

	if _, err := c.deps.Accounts.CloseAccount(ctx, number, true); err != nil {
		fmt.Fprintf(c.out, "Failed to close account: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "Account closed successfully.")
}

func (c *CLI) listAccounts(ctx context.Context) {
	fmt.Fprintln(c.out, "\nChoose sort order:")
	fmt.Fprintln(c.out, "1. Account Number\n2. Name\n3. Balance")
	choice, ok := c.readInt("Enter choice: ")
	if !ok {
		return
	}

	order := services.SortByNumber
	switch choice {
	case 2:
		order = services.SortByName
	case 3:
		order = services.SortByBalance
	}

	accounts, err := c.deps.Accounts.ListAccounts(ctx, order)
	if err != nil {
		fmt.Fprintf(c.out, "Failed to list accounts: %v\n", err)
		return
	}
	if len(accounts) == 0 {
		fmt.Fprintln(c.out, "No accounts found.")
		return
	}

	fmt.Fprintln(c.out, "\n--- Accounts ---")
	for _, account := range accounts {
		fmt.Fprintf(c.out, "%d | %s | %s | %s\n",
			account.Number, account.HolderName, account.Type, account.Balance.StringFixed(2))
	}
}

func (c *CLI) transfer(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Transfer Funds ---")
	from, ok := c.readInt("From account number: ")
	if !ok {
		return
	}
	to, ok := c.readInt("To account number: ")
	if !ok {
		return
	}
	amount, ok := c.readDecimal("Enter amount to transfer: ")
	if !ok {
		return
	}

	result, err := c.deps.Transfers.Transfer(ctx, from, to, amount)
	if err != nil {
		fmt.Fprintf(c.out, "Transfer failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Transfer successful. New balances: %d -> %s, %d -> %s\n",
		result.FromAccount.Number, result.FromAccount.Balance.StringFixed(2),
		result.ToAccount.Number, result.ToAccount.Balance.StringFixed(2))
}

func (c *CLI) applyInterest(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Apply Interest to Savings Accounts ---")
	rate, ok := c.readDecimal("Enter annual interest rate (percent): ")
	if !ok {
		return
	}

	result, err := c.deps.Interest.ApplyInterest(ctx, rate)
	if err != nil {
		fmt.Fprintf(c.out, "Failed to apply interest: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Interest applied (monthly) to %d savings accounts. Total credited: %s\n",
		result.AccountsCredited, result.TotalInterest.StringFixed(2))
}

func (c *CLI) exportCSV(ctx context.Context) {
	rows, err := c.deps.Exporter.Export(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "Export failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Exported %d accounts.\n", rows)
}

func (c *CLI) backupData(ctx context.Context) {
	if err := c.deps.Backup.Backup(ctx); err != nil {
		fmt.Fprintf(c.out, "Backup failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "Backup created.")
}

func (c *CLI) restoreData(ctx context.Context) {
	if err := c.deps.Backup.Restore(ctx); err != nil {
		fmt.Fprintf(c.out, "Restore failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "Data restored from backup.")
}

// readLine prompts and returns one trimmed line; ok is false when
// input has ended.
func (c *CLI) readLine(prompt string) (string, bool) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

func (c *CLI) readInt(prompt string) (int, bool) {
	for {
		line, ok := c.readLine(prompt)
		if !ok {
			return 0, false
		}
		value, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			return value, true
		}
		fmt.Fprintln(c.out, "Invalid integer. Try again.")
	}
}

func (c *CLI) readDecimal(prompt string) (decimal.Decimal, bool) {
	for {
		line, ok := c.readLine(prompt)
		if !ok {
			return decimal.Zero, false
		}
		value, err := decimal.NewFromString(strings.TrimSpace(line))
		if err == nil {
			return value, true
		}
		fmt.Fprintln(c.out, "Invalid number. Try again.")
	}
}
