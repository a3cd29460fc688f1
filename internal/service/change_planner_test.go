package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sejong-dental-qr/internal/domain"
)

func TestBuildChangesClassification(t *testing.T) {
	tests := []struct {
		name     string
		prev     *domain.Status
		next     domain.Status
		expected domain.ChangeType
	}{
		{"absent to active is new", nil, domain.StatusActive, domain.ChangeNew},
		{"active to inactive is deactivated", statusPtr(domain.StatusActive), domain.StatusInactive, domain.ChangeDeactivated},
		{"inactive to active is reactivated", statusPtr(domain.StatusInactive), domain.StatusActive, domain.ChangeReactivated},
		{"active to active is unchanged", statusPtr(domain.StatusActive), domain.StatusActive, domain.ChangeUnchanged},
		{"inactive to inactive is unchanged", statusPtr(domain.StatusInactive), domain.StatusInactive, domain.ChangeUnchanged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var previous []domain.ClinicRecord
			if tt.prev != nil {
				previous = append(previous, domain.ClinicRecord{ClinicID: "SJ25-0001", ClinicName: "A", Status: *tt.prev})
			}
			next := []domain.ClinicRecord{{ClinicID: "SJ25-0001", ClinicName: "A", Status: tt.next}}

			changes := BuildChanges(previous, next)
			require.Len(t, changes, 1)
			require.Equal(t, tt.expected, changes[0].ChangeType)
			require.Equal(t, "SJ25-0001", changes[0].ClinicID)
			require.Equal(t, "A", changes[0].ClinicName)
		})
	}
}

func TestBuildChangesPreservesNextOrder(t *testing.T) {
	previous := []domain.ClinicRecord{
		{ClinicID: "SJ25-0002", ClinicName: "B", Status: domain.StatusActive},
	}
	next := []domain.ClinicRecord{
		{ClinicID: "SJ25-0003", ClinicName: "C", Status: domain.StatusActive},
		{ClinicID: "SJ25-0002", ClinicName: "B", Status: domain.StatusInactive},
		{ClinicID: "SJ25-0001", ClinicName: "A", Status: domain.StatusActive},
	}

	changes := BuildChanges(previous, next)
	require.Len(t, changes, 3)
	require.Equal(t, "SJ25-0003", changes[0].ClinicID)
	require.Equal(t, domain.ChangeNew, changes[0].ChangeType)
	require.Equal(t, "SJ25-0002", changes[1].ClinicID)
	require.Equal(t, domain.ChangeDeactivated, changes[1].ChangeType)
	require.Equal(t, "SJ25-0001", changes[2].ClinicID)
	require.Equal(t, domain.ChangeNew, changes[2].ChangeType)
}

func TestBuildChangesSkipsEmptyIDs(t *testing.T) {
	next := []domain.ClinicRecord{
		{ClinicID: "", ClinicName: "X", Status: domain.StatusActive},
		{ClinicID: "SJ25-0001", ClinicName: "A", Status: domain.StatusActive},
	}
	changes := BuildChanges(nil, next)
	require.Len(t, changes, 1)
	require.Equal(t, "SJ25-0001", changes[0].ClinicID)
}

func statusPtr(s domain.Status) *domain.Status { return &s }
