package dto

import "github.com/SscSPs/moneyflow/internal/core/domain"

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name  string              `json:"name" binding:"required,max=100"`
	Type  domain.CategoryType `json:"type" binding:"required,oneof=income expense transfer"`
	Color string              `json:"color" binding:"max=32"`
	Icon  string              `json:"icon" binding:"max=64"`
}

// UpdateCategoryRequest defines the fields of a category that can change.
type UpdateCategoryRequest struct {
	Name  *string              `json:"name" binding:"omitempty,min=1,max=100"`
	Type  *domain.CategoryType `json:"type" binding:"omitempty,oneof=income expense transfer"`
	Color *string              `json:"color" binding:"omitempty,max=32"`
	Icon  *string              `json:"icon" binding:"omitempty,max=64"`
}

// ListCategoriesResponse wraps the list of categories.
type ListCategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

// CreateCounterpartyRequest defines the data needed to create a counterparty.
type CreateCounterpartyRequest struct {
	Name       string                  `json:"name" binding:"required,max=100"`
	Type       domain.CounterpartyType `json:"type" binding:"required,oneof=person company organization"`
	IsFavorite bool                    `json:"isFavorite"`
	Color      string                  `json:"color" binding:"max=32"`
	Icon       string                  `json:"icon" binding:"max=64"`
}

// UpdateCounterpartyRequest defines the fields of a counterparty that can change.
type UpdateCounterpartyRequest struct {
	Name       *string                  `json:"name" binding:"omitempty,min=1,max=100"`
	Type       *domain.CounterpartyType `json:"type" binding:"omitempty,oneof=person company organization"`
	IsFavorite *bool                    `json:"isFavorite"`
	Color      *string                  `json:"color" binding:"omitempty,max=32"`
	Icon       *string                  `json:"icon" binding:"omitempty,max=64"`
}

// ListCounterpartiesResponse wraps the list of counterparties.
type ListCounterpartiesResponse struct {
	Counterparties []domain.Counterparty `json:"counterparties"`
}
