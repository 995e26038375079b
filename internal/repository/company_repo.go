package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clearscrub-admin/internal/domain"
)

type CompanyRepository interface {
	List(ctx context.Context) ([]domain.Company, error)
	GetDetail(ctx context.Context, companyID string) (domain.CompanyDetail, error)
}

type PgCompanyRepository struct {
	pool *pgxpool.Pool
}

func NewPgCompanyRepository(pool *pgxpool.Pool) *PgCompanyRepository {
	return &PgCompanyRepository{pool: pool}
}

func (r *PgCompanyRepository) List(ctx context.Context) ([]domain.Company, error) {
	const query = `
		SELECT id, company_id, name, email, file_status, created_at
		FROM companies
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.FileStatus, &c.CreatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *PgCompanyRepository) GetDetail(ctx context.Context, companyID string) (domain.CompanyDetail, error) {
	const query = `
		SELECT id, company_id, name, email, file_status, created_at,
		       processing_status, recent_spend, avg_monthly_revenue, total_transactions, account_count
		FROM companies
		WHERE company_id = $1
	`
	var d domain.CompanyDetail
	err := r.pool.QueryRow(ctx, query, companyID).Scan(
		&d.ID,
		&d.CompanyID,
		&d.Name,
		&d.Email,
		&d.FileStatus,
		&d.CreatedAt,
		&d.ProcessingStatus,
		&d.RecentSpend,
		&d.AvgMonthlyRevenue,
		&d.TotalTransactions,
		&d.AccountCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CompanyDetail{}, err
	}
	if err != nil {
		return domain.CompanyDetail{}, err
	}

	if d.PaymentMethods, err = r.paymentMethods(ctx, d.ID); err != nil {
		return domain.CompanyDetail{}, err
	}
	if d.Transactions, err = r.transactions(ctx, d.ID); err != nil {
		return domain.CompanyDetail{}, err
	}
	if d.Activity, err = r.activity(ctx, d.ID); err != nil {
		return domain.CompanyDetail{}, err
	}
	return d, nil
}

func (r *PgCompanyRepository) paymentMethods(ctx context.Context, id string) ([]domain.PaymentMethod, error) {
	const query = `
		SELECT type, last_four, expires
		FROM company_payment_methods
		WHERE company_ref = $1
		ORDER BY type
	`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.PaymentMethod{}
	for rows.Next() {
		var pm domain.PaymentMethod
		if err := rows.Scan(&pm.Type, &pm.LastFour, &pm.Expires); err != nil {
			return nil, err
		}
		out = append(out, pm)
	}
	return out, rows.Err()
}

func (r *PgCompanyRepository) transactions(ctx context.Context, id string) ([]domain.MonthlyTransactions, error) {
	const query = `
		SELECT period, deposits, withdrawals, ending_balance, true_revenue
		FROM company_transactions
		WHERE company_ref = $1
		ORDER BY period ASC
	`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.MonthlyTransactions{}
	for rows.Next() {
		var t domain.MonthlyTransactions
		if err := rows.Scan(&t.Period, &t.Deposits, &t.Withdrawals, &t.EndingBalance, &t.TrueRevenue); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PgCompanyRepository) activity(ctx context.Context, id string) ([]domain.Activity, error) {
	const query = `
		SELECT action, occurred_at
		FROM company_activity
		WHERE company_ref = $1
		ORDER BY occurred_at DESC
	`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Activity{}
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.Action, &a.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
