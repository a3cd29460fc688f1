package repository

import "sejong-dental-qr/internal/domain"

// Core id_map columns. Fixed by policy: external operator scripts key on the
// column order, so changing it is a breaking change.
var CoreColumns = []string{
	"clinic_id",
	"clinic_name",
	"status",
	"first_seen_at",
	"last_seen_at",
}

// Extra metadata columns. Missing on read is tolerated (treated as empty).
var ExtraColumns = []string{
	"address",
	"phone",
	"director",
	"homepage",
}

// IDMapRepository persists the name→clinic_id mapping snapshot.
// One build performs exactly one Load and, on success, one Save; there is no
// concurrent access within this system's scope.
type IDMapRepository interface {
	// Load reads the previous snapshot in stored row order.
	// A missing snapshot is not an error: it returns an empty slice.
	Load() ([]domain.ClinicRecord, error)

	// Save atomically replaces the snapshot with the next records.
	Save(records []domain.ClinicRecord) error
}
