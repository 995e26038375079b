package domain

import "time"

type FileStatus string

const (
	FileStatusCompleted  FileStatus = "completed"
	FileStatusProcessing FileStatus = "processing"
	FileStatusFailed     FileStatus = "failed"
)

// Company es una cuenta de comercio listada en el dashboard.
type Company struct {
	ID         string     `json:"id"`
	CompanyID  string     `json:"company_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	FileStatus FileStatus `json:"file_status"`
	CreatedAt  time.Time  `json:"created"`
}

type PaymentMethod struct {
	Type     string `json:"type"`
	LastFour string `json:"last_four"`
	Expires  string `json:"expires"`
}

// MonthlyTransactions resume los movimientos de un periodo (YYYY-MM).
type MonthlyTransactions struct {
	Period        string  `json:"period"`
	Deposits      float64 `json:"deposits"`
	Withdrawals   float64 `json:"withdrawals"`
	EndingBalance float64 `json:"ending_balance"`
	TrueRevenue   float64 `json:"true_revenue"`
}

type Activity struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// CompanyDetail agrega el resumen transaccional de una compania.
type CompanyDetail struct {
	Company
	ProcessingStatus  string                `json:"processing_status"`
	RecentSpend       float64               `json:"recent_spend"`
	AvgMonthlyRevenue float64               `json:"avg_monthly_revenue"`
	TotalTransactions int                   `json:"total_transactions"`
	AccountCount      int                   `json:"account_count"`
	PaymentMethods    []PaymentMethod       `json:"payment_methods"`
	Transactions      []MonthlyTransactions `json:"transactions"`
	Activity          []Activity            `json:"activity"`
}
