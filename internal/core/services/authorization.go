package services

import (
	portssvc "github.com/ketoan-erp/accounting-core/internal/core/ports/services"
)

// Role is an internal control role recognised by the role policy.
type Role string

const (
	RoleAccountant Role = "accountant"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
)

// RolePolicy is a role-table AuthorizationPolicy: actors are assigned a
// role, and each capability names the roles it admits. Closing is open to
// accountants, managers and admins; reopening is admin-only.
type RolePolicy struct {
	assignments map[string]Role
}

// NewRolePolicy creates a policy over an actor -> role table.
func NewRolePolicy(assignments map[string]Role) *RolePolicy {
	table := make(map[string]Role, len(assignments))
	for actor, role := range assignments {
		table[actor] = role
	}
	return &RolePolicy{assignments: table}
}

var _ portssvc.AuthorizationPolicy = (*RolePolicy)(nil)

// CanClosePeriod reports whether the actor holds a close-capable role.
func (p *RolePolicy) CanClosePeriod(actor string) bool {
	switch p.assignments[actor] {
	case RoleAccountant, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanReopenPeriod reports whether the actor holds the admin role.
func (p *RolePolicy) CanReopenPeriod(actor string) bool {
	return p.assignments[actor] == RoleAdmin
}
