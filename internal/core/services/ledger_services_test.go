package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/metrics"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/core/recurring"
	"github.com/SscSPs/moneyflow/internal/core/services"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/SscSPs/moneyflow/internal/dto"
	"github.com/SscSPs/moneyflow/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const testUser = "user-1"

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// LedgerServicesTestSuite drives the services end to end against the in-memory store.
type LedgerServicesTestSuite struct {
	suite.Suite
	ctx   context.Context
	now   time.Time
	store *memory.Store

	session      portssvc.SessionSvc
	accounts     portssvc.AccountSvcFacade
	categories   portssvc.CategorySvc
	transactions portssvc.TransactionSvcFacade
	transfers    portssvc.TransferSvc
	budgets      portssvc.BudgetSvc
	debts        portssvc.DebtSvc
	recurring    portssvc.RecurringSvc
	goals        portssvc.GoalSvc
	dashboard    portssvc.DashboardSvc
}

func (suite *LedgerServicesTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	suite.store = memory.NewStore()
	clock := func() time.Time { return suite.now }

	engine, err := metrics.NewEngine(16)
	suite.Require().NoError(err)
	registry := snapshot.NewRegistry(suite.store, snapshot.WithClock(clock))
	runner := recurring.NewRunner(suite.store, recurring.WithRunnerClock(clock))
	suite.session = services.NewSessionService(registry, runner)

	opt := services.WithClock(clock)
	suite.accounts = services.NewAccountService(suite.store, suite.session, engine, opt)
	suite.categories = services.NewCategoryService(suite.store, suite.session, opt)
	suite.transactions = services.NewTransactionService(suite.store, suite.session, opt)
	suite.transfers = services.NewTransferService(suite.store, suite.store, suite.session, opt)
	suite.budgets = services.NewBudgetService(suite.store, suite.session, opt)
	suite.debts = services.NewDebtService(suite.store, suite.session, opt)
	suite.recurring = services.NewRecurringService(suite.store, suite.session, opt)
	suite.goals = services.NewGoalService(suite.store, suite.session, opt)
	suite.dashboard = services.NewDashboardService(suite.session, engine, opt)
}

func (suite *LedgerServicesTestSuite) createAccount(name, currency string, opening string) *domain.Account {
	req := dto.CreateAccountRequest{Name: name, CurrencyCode: currency}
	if opening != "" {
		req.OpeningBalance = ptr(dec(opening))
	}
	acc, err := suite.accounts.CreateAccount(suite.ctx, req, testUser)
	suite.Require().NoError(err)
	return acc
}

func (suite *LedgerServicesTestSuite) createCategory(name string, typ domain.CategoryType) *domain.Category {
	cat, err := suite.categories.CreateCategory(suite.ctx, dto.CreateCategoryRequest{Name: name, Type: typ}, testUser)
	suite.Require().NoError(err)
	return cat
}

func (suite *LedgerServicesTestSuite) balanceOf(accountID string) decimal.Decimal {
	row, err := suite.accounts.GetAccount(suite.ctx, accountID, testUser)
	suite.Require().NoError(err)
	return row.Balance
}

// --- Test Cases ---

func (suite *LedgerServicesTestSuite) TestCreateAccount_OpeningBalanceIsBooked() {
	acc := suite.createAccount("Wallet", "uzs", "250000")

	suite.Equal("UZS", acc.CurrencyCode)
	suite.True(dec("250000").Equal(suite.balanceOf(acc.AccountID)))
}

func (suite *LedgerServicesTestSuite) TestCreateTransaction_UpdatesBalanceImmediately() {
	acc := suite.createAccount("Wallet", "UZS", "1000")
	food := suite.createCategory("Food", domain.CategoryExpense)

	txn, err := suite.transactions.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		AccountID:  acc.AccountID,
		Type:       domain.Expense,
		Amount:     dec("300"),
		CategoryID: &food.CategoryID,
	}, testUser)
	suite.Require().NoError(err)
	suite.Equal(suite.now, txn.Date)

	suite.True(dec("700").Equal(suite.balanceOf(acc.AccountID)))
}

func (suite *LedgerServicesTestSuite) TestCreateTransaction_Rejections() {
	acc := suite.createAccount("Wallet", "UZS", "")

	_, err := suite.transactions.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		AccountID: acc.AccountID, Type: domain.Expense, Amount: dec("0"),
	}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.transactions.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		AccountID: "missing", Type: domain.Expense, Amount: dec("5"),
	}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.transactions.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		AccountID: acc.AccountID, Type: domain.TransferIn, Amount: dec("5"),
	}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServicesTestSuite) TestListTransactions_PagesNewestFirst() {
	acc := suite.createAccount("Wallet", "UZS", "")
	for i := 0; i < 5; i++ {
		_, err := suite.transactions.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
			AccountID: acc.AccountID,
			Type:      domain.Income,
			Amount:    decimal.NewFromInt(int64(i + 1)),
			Date:      ptr(suite.now.Add(-time.Duration(i) * time.Hour)),
		}, testUser)
		suite.Require().NoError(err)
	}

	var seen []string
	token := ""
	for page := 0; page < 3; page++ {
		resp, err := suite.transactions.ListTransactions(suite.ctx, dto.ListTransactionsParams{Limit: 2, NextToken: token}, testUser)
		suite.Require().NoError(err)
		for _, v := range resp.Transactions {
			seen = append(seen, v.Amount.String())
		}
		token = resp.NextToken
		if token == "" {
			break
		}
	}

	suite.Equal([]string{"1", "2", "3", "4", "5"}, seen)
	suite.Empty(token)
}

func (suite *LedgerServicesTestSuite) TestListTransactions_BadToken() {
	_, err := suite.transactions.ListTransactions(suite.ctx, dto.ListTransactionsParams{NextToken: "%%%"}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServicesTestSuite) TestTransfer_ConvertsBetweenCurrencies() {
	settings := services.NewSettingsService(suite.store, nil, "", suite.session, services.WithClock(func() time.Time { return suite.now }))
	_, err := settings.UpdateSettings(suite.ctx, dto.UpdateSettingsRequest{
		CurrencyRates: map[string]decimal.Decimal{"USD": dec("12500")},
	}, testUser)
	suite.Require().NoError(err)

	usd := suite.createAccount("Dollars", "USD", "100")
	uzs := suite.createAccount("Sums", "UZS", "")

	resp, err := suite.transfers.Transfer(suite.ctx, dto.TransferRequest{
		FromAccountID: usd.AccountID, ToAccountID: uzs.AccountID, Amount: dec("10"),
	}, testUser)
	suite.Require().NoError(err)
	suite.Equal(*resp.Out.TransferID, *resp.In.TransferID)

	suite.True(dec("90").Equal(suite.balanceOf(usd.AccountID)))
	suite.True(dec("125000").Equal(suite.balanceOf(uzs.AccountID)))
}

func (suite *LedgerServicesTestSuite) TestTransfer_SameAccountRejected() {
	acc := suite.createAccount("Wallet", "UZS", "100")
	_, err := suite.transfers.Transfer(suite.ctx, dto.TransferRequest{
		FromAccountID: acc.AccountID, ToAccountID: acc.AccountID, Amount: dec("10"),
	}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServicesTestSuite) TestDeleteTransaction_RemovesBothTransferLegs() {
	a := suite.createAccount("A", "UZS", "100")
	b := suite.createAccount("B", "UZS", "")
	resp, err := suite.transfers.Transfer(suite.ctx, dto.TransferRequest{
		FromAccountID: a.AccountID, ToAccountID: b.AccountID, Amount: dec("40"),
	}, testUser)
	suite.Require().NoError(err)

	_, err = suite.transactions.UpdateTransaction(suite.ctx, resp.In.TransactionID, dto.UpdateTransactionRequest{Comment: ptr("x")}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.Require().NoError(suite.transactions.DeleteTransaction(suite.ctx, resp.In.TransactionID, testUser))
	suite.True(dec("100").Equal(suite.balanceOf(a.AccountID)))
	suite.True(decimal.Zero.Equal(suite.balanceOf(b.AccountID)))
}

func (suite *LedgerServicesTestSuite) TestUpdateTransaction_KeepsDeletedCategory() {
	acc := suite.createAccount("Wallet", "UZS", "1000")
	food := suite.createCategory("Food", domain.CategoryExpense)
	txn, err := suite.transactions.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		AccountID: acc.AccountID, Type: domain.Expense, Amount: dec("120"), CategoryID: &food.CategoryID,
	}, testUser)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.categories.DeleteCategory(suite.ctx, food.CategoryID, testUser))

	updated, err := suite.transactions.UpdateTransaction(suite.ctx, txn.TransactionID,
		dto.UpdateTransactionRequest{Comment: ptr("lunch")}, testUser)
	suite.Require().NoError(err)
	suite.Equal("lunch", updated.Comment)
	suite.Require().NotNil(updated.CategoryID)
	suite.Equal(food.CategoryID, *updated.CategoryID)

	view, err := suite.transactions.GetTransaction(suite.ctx, txn.TransactionID, testUser)
	suite.Require().NoError(err)
	suite.Equal("uncategorized", view.CategoryName)

	_, err = suite.transactions.UpdateTransaction(suite.ctx, txn.TransactionID,
		dto.UpdateTransactionRequest{CategoryID: ptr("missing-category")}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServicesTestSuite) TestUpsertBudget_ReplacesLimitForCategory() {
	food := suite.createCategory("Food", domain.CategoryExpense)

	first, err := suite.budgets.UpsertBudget(suite.ctx, dto.UpsertBudgetRequest{CategoryID: food.CategoryID, Amount: dec("1000")}, testUser)
	suite.Require().NoError(err)
	second, err := suite.budgets.UpsertBudget(suite.ctx, dto.UpsertBudgetRequest{CategoryID: food.CategoryID, Amount: dec("1500")}, testUser)
	suite.Require().NoError(err)

	suite.Equal(first.BudgetID, second.BudgetID)
	list, err := suite.budgets.ListBudgets(suite.ctx, testUser)
	suite.Require().NoError(err)
	suite.Require().Len(list, 1)
	suite.True(dec("1500").Equal(list[0].Amount))

	_, err = suite.budgets.UpsertBudget(suite.ctx, dto.UpsertBudgetRequest{CategoryID: "missing", Amount: dec("1")}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServicesTestSuite) TestBudgetProgress_TracksMonthSpending() {
	acc := suite.createAccount("Wallet", "UZS", "5000")
	food := suite.createCategory("Food", domain.CategoryExpense)
	_, err := suite.budgets.UpsertBudget(suite.ctx, dto.UpsertBudgetRequest{CategoryID: food.CategoryID, Amount: dec("1000")}, testUser)
	suite.Require().NoError(err)
	_, err = suite.transactions.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		AccountID: acc.AccountID, Type: domain.Expense, Amount: dec("250"), CategoryID: &food.CategoryID,
	}, testUser)
	suite.Require().NoError(err)

	progress, err := suite.dashboard.GetBudgetProgress(suite.ctx, testUser)
	suite.Require().NoError(err)
	suite.Require().Len(progress, 1)
	suite.True(dec("250").Equal(progress[0].Spent))
}

func (suite *LedgerServicesTestSuite) TestDebtPayments_CannotExceedRemaining() {
	acc := suite.createAccount("Wallet", "UZS", "1000")
	debt, err := suite.debts.CreateDebt(suite.ctx, dto.CreateDebtRequest{
		Name: "Loan from Ali", Amount: dec("500"), Type: domain.IOwe, AccountID: &acc.AccountID,
	}, testUser)
	suite.Require().NoError(err)
	suite.True(dec("1500").Equal(suite.balanceOf(acc.AccountID)))

	paid, err := suite.debts.RecordPayment(suite.ctx, debt.DebtID, dto.DebtPaymentRequest{AccountID: acc.AccountID, Amount: dec("200")}, testUser)
	suite.Require().NoError(err)
	suite.True(dec("200").Equal(paid.PaidAmount))
	suite.True(dec("1300").Equal(suite.balanceOf(acc.AccountID)))

	_, err = suite.debts.RecordPayment(suite.ctx, debt.DebtID, dto.DebtPaymentRequest{AccountID: acc.AccountID, Amount: dec("301")}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)

	closed, err := suite.debts.RecordPayment(suite.ctx, debt.DebtID, dto.DebtPaymentRequest{AccountID: acc.AccountID, Amount: dec("300")}, testUser)
	suite.Require().NoError(err)
	suite.True(closed.IsClosed())
}

func (suite *LedgerServicesTestSuite) TestTopUpGoal_MovesMoneyOutOfAccount() {
	acc := suite.createAccount("Wallet", "UZS", "1000")
	goal, err := suite.goals.CreateGoal(suite.ctx, dto.CreateGoalRequest{Name: "Laptop", TargetAmount: dec("800")}, testUser)
	suite.Require().NoError(err)

	topped, err := suite.goals.TopUpGoal(suite.ctx, goal.GoalID, dto.GoalTopUpRequest{AccountID: acc.AccountID, Amount: dec("200")}, testUser)
	suite.Require().NoError(err)
	suite.True(dec("200").Equal(topped.CurrentAmount))
	suite.True(dec("800").Equal(suite.balanceOf(acc.AccountID)))

	progress, err := suite.dashboard.GetGoalProgress(suite.ctx, testUser)
	suite.Require().NoError(err)
	suite.Require().Len(progress, 1)
	suite.True(dec("25").Equal(progress[0].Percent))
}

func (suite *LedgerServicesTestSuite) TestRecurring_BackfillsOnRefresh() {
	acc := suite.createAccount("Wallet", "UZS", "")
	salary := suite.createCategory("Salary", domain.CategoryIncome)

	_, err := suite.recurring.CreateRecurring(suite.ctx, dto.CreateRecurringRequest{
		AccountID: acc.AccountID, CategoryID: &salary.CategoryID, Type: domain.Income,
		Amount: dec("1000"), DayOfMonth: 10,
	}, testUser)
	suite.Require().NoError(err)

	// first occurrence falls in the month after creation
	resp, err := suite.session.RefreshSession(suite.ctx, testUser)
	suite.Require().NoError(err)
	suite.Zero(resp.RecurringAdded)

	suite.now = time.Date(2026, 12, 12, 9, 0, 0, 0, time.UTC)
	resp, err = suite.session.RefreshSession(suite.ctx, testUser)
	suite.Require().NoError(err)
	suite.Equal(2, resp.RecurringAdded)
	suite.True(dec("2000").Equal(suite.balanceOf(acc.AccountID)))

	resp, err = suite.session.RefreshSession(suite.ctx, testUser)
	suite.Require().NoError(err)
	suite.Zero(resp.RecurringAdded)
}

func (suite *LedgerServicesTestSuite) TestDashboard_SummarizesMonth() {
	acc := suite.createAccount("Wallet", "UZS", "")
	_, err := suite.transactions.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		AccountID: acc.AccountID, Type: domain.Income, Amount: dec("3000"),
	}, testUser)
	suite.Require().NoError(err)
	_, err = suite.transactions.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		AccountID: acc.AccountID, Type: domain.Expense, Amount: dec("1000"),
	}, testUser)
	suite.Require().NoError(err)

	resp, err := suite.dashboard.GetDashboard(suite.ctx, testUser)
	suite.Require().NoError(err)
	suite.True(dec("2000").Equal(resp.Balance.Total))
	suite.True(dec("3000").Equal(resp.Month.Income))
	suite.True(dec("1000").Equal(resp.Month.Expense))

	_, err = suite.dashboard.GetPeriodSummary(suite.ctx, domain.Period("decade"), testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServicesTestSuite) TestDeleteAccount_DropsItsTransactions() {
	keep := suite.createAccount("Keep", "UZS", "100")
	drop := suite.createAccount("Drop", "UZS", "50")

	suite.Require().NoError(suite.accounts.DeleteAccount(suite.ctx, drop.AccountID, testUser))

	resp, err := suite.dashboard.GetDashboard(suite.ctx, testUser)
	suite.Require().NoError(err)
	suite.True(dec("100").Equal(resp.Balance.Total))
	_, err = suite.accounts.GetAccount(suite.ctx, drop.AccountID, testUser)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
	suite.True(dec("100").Equal(suite.balanceOf(keep.AccountID)))
}

func TestLedgerServices(t *testing.T) {
	suite.Run(t, new(LedgerServicesTestSuite))
}
