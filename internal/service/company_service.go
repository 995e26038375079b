package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"clearscrub-admin/internal/domain"
	"clearscrub-admin/internal/repository"
)

var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrInvalidTab      = errors.New("invalid tab")
)

// Tabs del listado de companias y el estado de archivo que filtran.
const (
	TabComplete   = "complete"
	TabProcessing = "processing"
	TabFailed     = "failed"
	TabAll        = "all"
)

var tabStatus = map[string]domain.FileStatus{
	TabComplete:   domain.FileStatusCompleted,
	TabProcessing: domain.FileStatusProcessing,
	TabFailed:     domain.FileStatusFailed,
}

type ListCompaniesInput struct {
	Search string
	Tab    string
}

type CompanyList struct {
	Companies []domain.Company `json:"companies"`
	Counts    map[string]int   `json:"counts"`
	Results   int              `json:"results"`
	Total     int              `json:"total"`
}

// CompanyService resuelve el listado y el detalle de companias. Las companias
// son la cola de procesamiento de todo el despliegue: no se filtran por tenant.
type CompanyService struct {
	logger    *zap.Logger
	companies repository.CompanyRepository
}

func NewCompanyService(logger *zap.Logger, companies repository.CompanyRepository) *CompanyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyService{logger: logger, companies: companies}
}

// List filtra por busqueda (nombre o email, sin distinguir mayusculas) y por tab.
// Los contadores por tab se calculan sobre el resultado de la busqueda.
func (s *CompanyService) List(ctx context.Context, input ListCompaniesInput) (CompanyList, error) {
	tab := strings.ToLower(strings.TrimSpace(input.Tab))
	if tab == "" {
		tab = TabAll
	}
	wantStatus, filterByStatus := tabStatus[tab]
	if !filterByStatus && tab != TabAll {
		return CompanyList{}, ErrInvalidTab
	}

	all, err := s.companies.List(ctx)
	if err != nil {
		return CompanyList{}, err
	}

	term := strings.ToLower(strings.TrimSpace(input.Search))
	counts := map[string]int{TabComplete: 0, TabProcessing: 0, TabFailed: 0}
	matched := make([]domain.Company, 0, len(all))
	for _, c := range all {
		if term != "" &&
			!strings.Contains(strings.ToLower(c.Name), term) &&
			!strings.Contains(strings.ToLower(c.Email), term) {
			continue
		}
		for name, status := range tabStatus {
			if c.FileStatus == status {
				counts[name]++
			}
		}
		if filterByStatus && c.FileStatus != wantStatus {
			continue
		}
		matched = append(matched, c)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return CompanyList{
		Companies: matched,
		Counts:    counts,
		Results:   len(matched),
		Total:     len(all),
	}, nil
}

func (s *CompanyService) Get(ctx context.Context, companyID string) (domain.CompanyDetail, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return domain.CompanyDetail{}, ErrCompanyNotFound
	}
	detail, err := s.companies.GetDetail(ctx, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CompanyDetail{}, ErrCompanyNotFound
		}
		return domain.CompanyDetail{}, err
	}
	return detail, nil
}

const transactionsSheet = "Transactions"

// ExportTransactions escribe un XLSX con los periodos mensuales de la compania.
func (s *CompanyService) ExportTransactions(ctx context.Context, companyID string, w io.Writer) error {
	detail, err := s.Get(ctx, companyID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("close workbook failed", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Period", "Deposits", "Withdrawals", "Ending Balance", "True Revenue"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(transactionsSheet, cell, h); err != nil {
			return err
		}
	}

	for idx, t := range detail.Transactions {
		row := idx + 2
		values := []any{t.Period, t.Deposits, t.Withdrawals, t.EndingBalance, t.TrueRevenue}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(transactionsSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(transactionsSheet, "A", "A", 10); err != nil {
		return err
	}
	if err := f.SetColWidth(transactionsSheet, "B", "E", 16); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
