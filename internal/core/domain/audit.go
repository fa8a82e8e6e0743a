package domain

import "time"

// AuditKind names a security-relevant action.
type AuditKind string

const (
	AuditSignup         AuditKind = "signup"
	AuditLoginSucceeded AuditKind = "login_succeeded"
	AuditLoginFailed    AuditKind = "login_failed"
	AuditLogout         AuditKind = "logout"
	AuditAdoption       AuditKind = "adoption"
	AuditUserUpdated    AuditKind = "user_updated"
	AuditUserDeleted    AuditKind = "user_deleted"
	AuditAnimalCreated  AuditKind = "animal_created"
	AuditAnimalUpdated  AuditKind = "animal_updated"
)

// AuditEvent is a single entry of the audit trail.
type AuditEvent struct {
	Kind    AuditKind `json:"kind"`
	ActorID int64     `json:"actor_id,omitempty"`
	Actor   string    `json:"actor"`
	Subject string    `json:"subject,omitempty"`
	At      time.Time `json:"at"`
}
