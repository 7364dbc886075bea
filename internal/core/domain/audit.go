package domain

import "time"

const AuditActionPromoteAdmin = "promote_admin"

// AuditEntry records a privileged operational action.
type AuditEntry struct {
	Action   string
	ActorID  string
	TargetID string
	At       time.Time
}
