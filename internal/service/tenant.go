package service

import (
	"strings"

	"clearscrub-admin/internal/domain"
	"clearscrub-admin/internal/repository"
)

// TenantOf resuelve el tenant de una identidad; sin company_id cae al tenant de demostracion.
func TenantOf(identity domain.Identity) string {
	if tenant := strings.TrimSpace(identity.CompanyID); tenant != "" {
		return tenant
	}
	return repository.DefaultTenant
}
