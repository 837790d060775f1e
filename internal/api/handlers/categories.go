package handlers

import (
	"net/http"

	"github.com/okozlov/finflow/internal/api/middleware"
	"github.com/okozlov/finflow/internal/domain"
)

// CategoriesHandler serves the suggested category lists.
type CategoriesHandler struct{}

func NewCategoriesHandler() *CategoriesHandler {
	return &CategoriesHandler{}
}

// List handles GET /api/categories
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string][]string{
		"expense":      domain.ExpenseCategories,
		"income":       domain.IncomeCategories,
		"subscription": domain.SubscriptionCategories,
	})
}
