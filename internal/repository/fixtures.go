package repository

import (
	"time"

	"clearscrub-admin/internal/domain"
)

func mustTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// DefaultTenant agrupa los datos de demostracion cuando la identidad no trae tenant.
const DefaultTenant = "pars_consulting"

// FixtureCompanies son las cuentas de demostracion del dashboard.
func FixtureCompanies() []domain.Company {
	return []domain.Company{
		{
			ID:         "1",
			CompanyID:  "eus_SQ9H728DpXto2jvDid6CUx",
			Name:       "PARS CONSULTING ENGINEERS INC",
			Email:      "info@parsconsulting.com",
			FileStatus: domain.FileStatusCompleted,
			CreatedAt:  mustTime("2024-07-15T10:30:00Z"),
		},
		{
			ID:         "2",
			CompanyID:  "eus_ABC123XYZ789",
			Name:       "TECH INNOVATIONS LLC",
			Email:      "contact@techinnovations.com",
			FileStatus: domain.FileStatusProcessing,
			CreatedAt:  mustTime("2024-06-20T14:15:00Z"),
		},
		{
			ID:         "3",
			CompanyID:  "eus_DEF456UVW012",
			Name:       "GLOBAL SOLUTIONS INC",
			Email:      "admin@globalsolutions.com",
			FileStatus: domain.FileStatusFailed,
			CreatedAt:  mustTime("2024-08-01T09:45:00Z"),
		},
	}
}

func fixtureCompanyDetails() map[string]domain.CompanyDetail {
	companies := FixtureCompanies()
	return map[string]domain.CompanyDetail{
		companies[0].CompanyID: {
			Company:           companies[0],
			ProcessingStatus:  "Processed",
			RecentSpend:       487341.30,
			AvgMonthlyRevenue: 162447.10,
			TotalTransactions: 76,
			AccountCount:      3,
			PaymentMethods: []domain.PaymentMethod{
				{Type: "American Express", LastFour: "4199", Expires: "Jul 2028"},
			},
			Transactions: []domain.MonthlyTransactions{
				{Period: "2025-07", Deposits: 445230.50, Withdrawals: 398156.78, EndingBalance: 487341.30, TrueRevenue: 162447.10},
				{Period: "2025-08", Deposits: 523450.75, Withdrawals: 456789.23, EndingBalance: 553002.82, TrueRevenue: 184334.25},
				{Period: "2025-09", Deposits: 487341.30, Withdrawals: 423156.78, EndingBalance: 617187.34, TrueRevenue: 162447.10},
			},
			Activity: []domain.Activity{
				{Action: "Bank statement processed", Timestamp: mustTime("2024-10-02T16:41:00Z")},
				{Action: "Policy evaluation completed", Timestamp: mustTime("2024-10-02T16:35:00Z")},
				{Action: "CRM sync successful", Timestamp: mustTime("2024-10-02T16:30:00Z")},
			},
		},
	}
}

func fixtureAPIKeys(tenantID string) []domain.APIKey {
	return []domain.APIKey{
		{
			ID:         "1",
			TenantID:   tenantID,
			Name:       "Production API",
			Prefix:     "cs_live_1234...",
			KeyHash:    domain.HashAPIKey("cs_live_1234567890abcdef1234567890abcdef12345678"),
			CreatedAt:  mustTime("2024-09-15T10:30:00Z"),
			LastUsedAt: timePtr(mustTime("2024-10-02T14:22:00Z")),
			Status:     domain.APIKeyActive,
		},
		{
			ID:        "2",
			TenantID:  tenantID,
			Name:      "Development Testing",
			Prefix:    "cs_test_abcd...",
			KeyHash:   domain.HashAPIKey("cs_test_abcdef1234567890abcdef1234567890abcdef12"),
			CreatedAt: mustTime("2024-08-20T16:45:00Z"),
			Status:    domain.APIKeyActive,
		},
		{
			ID:         "3",
			TenantID:   tenantID,
			Name:       "Legacy Integration",
			Prefix:     "cs_live_fedc...",
			KeyHash:    domain.HashAPIKey("cs_live_fedcba0987654321fedcba0987654321fedcba09"),
			CreatedAt:  mustTime("2024-07-10T09:15:00Z"),
			LastUsedAt: timePtr(mustTime("2024-09-28T11:30:00Z")),
			Status:     domain.APIKeyInactive,
		},
	}
}

// DefaultSettings es la configuracion inicial de un tenant sin settings guardados.
func DefaultSettings() domain.Settings {
	return domain.Settings{
		Organization: domain.Organization{
			Name: "PARS Consulting",
			Attributes: []domain.OrganizationAttribute{
				{Key: "Industry", Value: "Financial Services"},
				{Key: "Company Size", Value: "50-100 employees"},
				{Key: "Region", Value: "North America"},
			},
		},
		Quota:                domain.Quota{MonthlyLimit: 1000, Used: 250},
		StateSuppressions:    []string{"California", "New York"},
		IndustrySuppressions: []string{"Healthcare", "Cannabis"},
		Team: []domain.TeamMember{
			{Name: "John Doe", Email: "john@yourcompany.com", Role: "Owner", Status: "Active", LastActive: "2 hours ago"},
			{Name: "Jane Smith", Email: "jane@yourcompany.com", Role: "Admin", Status: "Active", LastActive: "1 day ago"},
		},
		Billing: domain.Billing{
			Plan: "Pay as you go",
			Invoices: []domain.Invoice{
				{Date: "Nov 15, 2024", Description: "Pay as you go - Usage", Amount: "$124.50", Status: "Paid"},
				{Date: "Oct 15, 2024", Description: "Pay as you go - Usage", Amount: "$89.00", Status: "Paid"},
				{Date: "Sep 15, 2024", Description: "Pay as you go - Usage", Amount: "$156.50", Status: "Paid"},
			},
		},
		Webhooks: []domain.Webhook{},
	}
}
