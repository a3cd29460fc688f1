package domain

import "strings"

// Status is the membership state derived from presence in the latest validated roster.
type Status string

const (
	StatusActive   Status = "ACTIVE"   // present in the most recent roster
	StatusInactive Status = "INACTIVE" // known historically, absent from the latest roster
)

// IsActive reports whether the status is ACTIVE.
func (s Status) IsActive() bool {
	return s == StatusActive
}

// ParseStatus canonicalizes a stored status value. The snapshot contract is
// case-insensitive on read, canonical uppercase on write.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusActive:
		return StatusActive, true
	case StatusInactive:
		return StatusInactive, true
	}
	return "", false
}

// ClinicInput is one validated roster row for the current build.
// Name is the identity key; it must already be normalized (NormalizeName).
// ClinicInput values are rebuilt every run and never persisted directly.
type ClinicInput struct {
	Name     string
	Address  string
	Phone    string
	Director string
	Homepage string
}

// ClinicRecord is one row of the persistent id_map snapshot.
//
// ClinicID is immutable once minted (format SJ<YY>-<NNNN>): printed QR codes
// encode it, so it is never reassigned or recycled, even across INACTIVE gaps.
// FirstSeenAt is set at mint time and never changes; LastSeenAt is refreshed
// on every build in which the record is ACTIVE. Timestamps are stored as text
// because the snapshot contract is all-text columns.
type ClinicRecord struct {
	ClinicID    string
	ClinicName  string
	Status      Status
	FirstSeenAt string
	LastSeenAt  string
	Address     string
	Phone       string
	Director    string
	Homepage    string
}

// ChangeType classifies one clinic_id's transition between two snapshots.
type ChangeType string

const (
	ChangeNew         ChangeType = "NEW"
	ChangeDeactivated ChangeType = "DEACTIVATED"
	ChangeReactivated ChangeType = "REACTIVATED"
	ChangeUnchanged   ChangeType = "UNCHANGED"
)

// ChangeRecord is the operator-facing diff entry for one clinic_id.
// Recomputed from scratch every build, never persisted.
type ChangeRecord struct {
	ClinicID   string
	ClinicName string
	ChangeType ChangeType
}
