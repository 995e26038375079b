package domain

import "time"

type OrganizationAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Organization struct {
	Name       string                  `json:"name"`
	Attributes []OrganizationAttribute `json:"attributes"`
}

type TeamMember struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	LastActive string `json:"last_active"`
}

type Quota struct {
	MonthlyLimit int `json:"monthly_limit"`
	Used         int `json:"used"`
}

type Invoice struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
}

type Billing struct {
	Plan     string    `json:"plan"`
	Invoices []Invoice `json:"invoices"`
}

type Webhook struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// Settings agrupa la configuracion de cuenta visible en el dashboard.
type Settings struct {
	Organization         Organization `json:"organization"`
	Quota                Quota        `json:"quota"`
	StateSuppressions    []string     `json:"state_suppressions"`
	IndustrySuppressions []string     `json:"industry_suppressions"`
	Team                 []TeamMember `json:"team"`
	Billing              Billing      `json:"billing"`
	Webhooks             []Webhook    `json:"webhooks"`
}
