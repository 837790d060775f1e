package domain

// Suggested category labels shown by the client. Categories are free text at
// the storage level; these lists are suggestions, not an enforced taxonomy.
var (
	ExpenseCategories = []string{
		"Food & Dining", "Transportation", "Shopping", "Entertainment",
		"Bills", "Health", "Other",
	}

	IncomeCategories = []string{
		"Salary", "Freelance", "Investment", "Gift", "Other",
	}

	SubscriptionCategories = []string{
		"Entertainment", "Music", "Productivity", "Design", "News",
		"Fitness", "Other",
	}
)
