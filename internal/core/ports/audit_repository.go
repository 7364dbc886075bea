package ports

import (
	"context"

	"github.com/campussutras/campus-api/internal/core/domain"
)

// AuditRepository stores privileged-action audit records.
type AuditRepository interface {
	Insert(ctx context.Context, entry domain.AuditEntry) error
}
