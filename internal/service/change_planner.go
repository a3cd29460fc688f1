package service

import "sejong-dental-qr/internal/domain"

// BuildChanges diffs two snapshots and classifies every clinic_id present in
// next. The outbox uses the result to select which clinics get fresh material
// (NEW/REACTIVATED); the rest feeds the operator change report.
//
// Output preserves next's row order so reports are reproducible. IDs present
// only in previous are not emitted; the reconcile step never drops rows, so
// that case cannot occur.
func BuildChanges(previous, next []domain.ClinicRecord) []domain.ChangeRecord {
	prevByID := make(map[string]domain.ClinicRecord, len(previous))
	for _, record := range previous {
		if record.ClinicID == "" {
			continue
		}
		prevByID[record.ClinicID] = record
	}

	changes := make([]domain.ChangeRecord, 0, len(next))
	for _, record := range next {
		if record.ClinicID == "" {
			continue
		}
		changeType := domain.ChangeUnchanged
		prev, ok := prevByID[record.ClinicID]
		switch {
		case !ok:
			changeType = domain.ChangeNew
		case prev.Status == domain.StatusActive && record.Status == domain.StatusInactive:
			changeType = domain.ChangeDeactivated
		case prev.Status == domain.StatusInactive && record.Status == domain.StatusActive:
			changeType = domain.ChangeReactivated
		}
		changes = append(changes, domain.ChangeRecord{
			ClinicID:   record.ClinicID,
			ClinicName: record.ClinicName,
			ChangeType: changeType,
		})
	}
	return changes
}
