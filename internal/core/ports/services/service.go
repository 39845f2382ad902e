package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Session      SessionSvc
	Dashboard    DashboardSvc
	Account      AccountSvcFacade
	Category     CategorySvc
	Counterparty CounterpartySvc
	Transaction  TransactionSvcFacade
	Transfer     TransferSvc
	Budget       BudgetSvc
	Debt         DebtSvc
	Recurring    RecurringSvc
	Goal         GoalSvc
	Settings     SettingsSvc
}
