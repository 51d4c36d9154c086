package model

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&ExpenseModel{},
		&TripModel{},
		&TripReceiptModel{},
		&BudgetModel{},
		&SupportPaymentModel{},
		&EmailQueueModel{},
	}
}
