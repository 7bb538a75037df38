package dto

import "github.com/ketoan-erp/accounting-core/internal/core/domain"

// CreateAccountRequest carries the fields needed to register an account.
type CreateAccountRequest struct {
	Code        string `json:"code" validate:"required,min=3,max=4,numeric"`
	Name        string `json:"name" validate:"required"`
	AccountType string `json:"accountType" validate:"required"`
	ParentCode  string `json:"parentCode" validate:"omitempty,min=3,max=4,numeric"`
	Description string `json:"description"`
}

// AccountResponse is the outward shape of a registry account.
type AccountResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	AccountType string `json:"accountType"`
	ParentCode  string `json:"parentCode,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// ToAccountResponse maps a domain account to its response shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Code:        a.Code,
		Name:        a.Name,
		AccountType: string(a.AccountType),
		ParentCode:  a.ParentCode,
		Description: a.Description,
		IsActive:    a.IsActive,
	}
}
