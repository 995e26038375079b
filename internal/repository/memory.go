package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"clearscrub-admin/internal/domain"
)

// Implementaciones en memoria para correr sin DATABASE_URL. Devuelven
// pgx.ErrNoRows igual que las de Postgres para que los servicios no distingan.

type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[user.ID] = user
	r.byEmail[strings.ToLower(user.Email)] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[strings.ToLower(email)]
	r.mu.RUnlock()
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

type MemoryCompanyRepository struct {
	companies []domain.Company
	details   map[string]domain.CompanyDetail
}

// NewMemoryCompanyRepository arranca con las companias de demostracion.
func NewMemoryCompanyRepository() *MemoryCompanyRepository {
	return &MemoryCompanyRepository{
		companies: FixtureCompanies(),
		details:   fixtureCompanyDetails(),
	}
}

func (r *MemoryCompanyRepository) List(_ context.Context) ([]domain.Company, error) {
	out := make([]domain.Company, len(r.companies))
	copy(out, r.companies)
	return out, nil
}

func (r *MemoryCompanyRepository) GetDetail(_ context.Context, companyID string) (domain.CompanyDetail, error) {
	if detail, ok := r.details[companyID]; ok {
		return detail, nil
	}
	for _, c := range r.companies {
		if c.CompanyID == companyID {
			return domain.CompanyDetail{
				Company:          c,
				ProcessingStatus: strings.ToUpper(string(c.FileStatus[:1])) + string(c.FileStatus[1:]),
				PaymentMethods:   []domain.PaymentMethod{},
				Transactions:     []domain.MonthlyTransactions{},
				Activity:         []domain.Activity{},
			}, nil
		}
	}
	return domain.CompanyDetail{}, pgx.ErrNoRows
}

type MemoryAPIKeyRepository struct {
	mu      sync.Mutex
	seed    bool
	tenants map[string]map[string]domain.APIKey
}

// NewMemoryAPIKeyRepository con seed=true da a cada tenant las llaves de demostracion.
func NewMemoryAPIKeyRepository(seed bool) *MemoryAPIKeyRepository {
	return &MemoryAPIKeyRepository{
		seed:    seed,
		tenants: make(map[string]map[string]domain.APIKey),
	}
}

func (r *MemoryAPIKeyRepository) tenant(tenantID string) map[string]domain.APIKey {
	keys, ok := r.tenants[tenantID]
	if !ok {
		keys = make(map[string]domain.APIKey)
		if r.seed {
			for _, k := range fixtureAPIKeys(tenantID) {
				keys[k.ID] = k
			}
		}
		r.tenants[tenantID] = keys
	}
	return keys
}

func (r *MemoryAPIKeyRepository) List(_ context.Context, tenantID string) ([]domain.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := r.tenant(tenantID)
	out := make([]domain.APIKey, 0, len(keys))
	for _, k := range keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryAPIKeyRepository) Get(_ context.Context, tenantID, id string) (domain.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.tenant(tenantID)[id]
	if !ok {
		return domain.APIKey{}, pgx.ErrNoRows
	}
	return key, nil
}

func (r *MemoryAPIKeyRepository) Create(_ context.Context, key domain.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenant(key.TenantID)[key.ID] = key
	return nil
}

func (r *MemoryAPIKeyRepository) Update(_ context.Context, key domain.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := r.tenant(key.TenantID)
	if _, ok := keys[key.ID]; !ok {
		return pgx.ErrNoRows
	}
	keys[key.ID] = key
	return nil
}

func (r *MemoryAPIKeyRepository) Delete(_ context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := r.tenant(tenantID)
	if _, ok := keys[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(keys, id)
	return nil
}

type MemorySettingsRepository struct {
	mu       sync.Mutex
	settings map[string]domain.Settings
}

func NewMemorySettingsRepository() *MemorySettingsRepository {
	return &MemorySettingsRepository{settings: make(map[string]domain.Settings)}
}

func (r *MemorySettingsRepository) Get(_ context.Context, tenantID string) (domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	settings, ok := r.settings[tenantID]
	if !ok {
		return domain.Settings{}, pgx.ErrNoRows
	}
	return cloneSettings(settings), nil
}

func (r *MemorySettingsRepository) Save(_ context.Context, tenantID string, settings domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[tenantID] = cloneSettings(settings)
	return nil
}

func cloneSettings(s domain.Settings) domain.Settings {
	out := s
	out.Organization.Attributes = append([]domain.OrganizationAttribute(nil), s.Organization.Attributes...)
	out.StateSuppressions = append([]string(nil), s.StateSuppressions...)
	out.IndustrySuppressions = append([]string(nil), s.IndustrySuppressions...)
	out.Team = append([]domain.TeamMember(nil), s.Team...)
	out.Billing.Invoices = append([]domain.Invoice(nil), s.Billing.Invoices...)
	out.Webhooks = append([]domain.Webhook(nil), s.Webhooks...)
	return out
}
