package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sejong-dental-qr/internal/domain"
)

func newTestReconciler(now time.Time) *ReconcileService {
	s := NewReconcileService(zap.NewNop())
	s.now = func() time.Time { return now }
	return s
}

func TestReconcileFirstBuildMintsIDs(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := newTestReconciler(now)

	result, err := s.Reconcile([]domain.ClinicInput{{Name: "A"}}, 2025, nil)
	require.NoError(t, err)
	require.Len(t, result.Next, 1)
	require.Equal(t, "SJ25-0001", result.Next[0].ClinicID)
	require.Equal(t, domain.StatusActive, result.Next[0].Status)
	require.Equal(t, now.Format(time.RFC3339), result.Next[0].FirstSeenAt)
	require.Equal(t, now.Format(time.RFC3339), result.Next[0].LastSeenAt)
	require.Equal(t, []string{"SJ25-0001"}, result.NewIDs)
}

func TestReconcileDeactivatesMissingClinic(t *testing.T) {
	s := newTestReconciler(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	previous := []domain.ClinicRecord{{
		ClinicID:    "SJ25-0001",
		ClinicName:  "A",
		Status:      domain.StatusActive,
		FirstSeenAt: "2025-03-01T10:00:00Z",
		LastSeenAt:  "2025-03-01T10:00:00Z",
	}}

	result, err := s.Reconcile(nil, 2025, previous)
	require.NoError(t, err)
	require.Len(t, result.Next, 1)
	require.Equal(t, domain.StatusInactive, result.Next[0].Status)
	// last_seen_at is frozen while INACTIVE
	require.Equal(t, "2025-03-01T10:00:00Z", result.Next[0].LastSeenAt)
	require.Empty(t, result.NewIDs)
}

func TestReconcileReactivatesKeepsID(t *testing.T) {
	now := time.Date(2027, 1, 5, 0, 0, 0, 0, time.UTC)
	s := newTestReconciler(now)
	previous := []domain.ClinicRecord{{
		ClinicID:    "SJ25-0001",
		ClinicName:  "A",
		Status:      domain.StatusInactive,
		FirstSeenAt: "2025-03-01T10:00:00Z",
		LastSeenAt:  "2025-03-01T10:00:00Z",
	}}

	result, err := s.Reconcile([]domain.ClinicInput{{Name: "A"}}, 2027, previous)
	require.NoError(t, err)
	require.Len(t, result.Next, 1)
	// the original mint-year ID survives multi-year INACTIVE gaps
	require.Equal(t, "SJ25-0001", result.Next[0].ClinicID)
	require.Equal(t, domain.StatusActive, result.Next[0].Status)
	require.Equal(t, "2025-03-01T10:00:00Z", result.Next[0].FirstSeenAt)
	require.Equal(t, now.Format(time.RFC3339), result.Next[0].LastSeenAt)
	require.Empty(t, result.NewIDs)
}

func TestReconcileMintsAboveExistingSuffixInLexicographicOrder(t *testing.T) {
	s := newTestReconciler(time.Now())
	previous := []domain.ClinicRecord{
		{ClinicID: "SJ25-0007", ClinicName: "기존치과", Status: domain.StatusActive, FirstSeenAt: "x", LastSeenAt: "x"},
		{ClinicID: "SJ24-0100", ClinicName: "작년치과", Status: domain.StatusInactive, FirstSeenAt: "x", LastSeenAt: "x"},
	}
	inputs := []domain.ClinicInput{
		{Name: "기존치과"},
		{Name: "나중치과"},
		{Name: "가나치과"},
	}

	result, err := s.Reconcile(inputs, 2025, previous)
	require.NoError(t, err)
	// lexicographic order over new names: 가나치과 before 나중치과
	require.Equal(t, []string{"SJ25-0008", "SJ25-0009"}, result.NewIDs)

	byName := map[string]domain.ClinicRecord{}
	for _, record := range result.Next {
		byName[record.ClinicName] = record
	}
	require.Equal(t, "SJ25-0008", byName["가나치과"].ClinicID)
	require.Equal(t, "SJ25-0009", byName["나중치과"].ClinicID)
	// suffixes from other year prefixes are ignored
	require.Equal(t, "SJ24-0100", byName["작년치과"].ClinicID)
}

func TestReconcileIdentityPermanenceAcrossRepeatedRuns(t *testing.T) {
	s := newTestReconciler(time.Now())
	var previous []domain.ClinicRecord

	presence := [][]domain.ClinicInput{
		{{Name: "A"}, {Name: "B"}},
		{{Name: "B"}},
		{},
		{{Name: "A"}},
		{{Name: "A"}, {Name: "B"}},
	}
	ids := map[string]string{}
	for _, inputs := range presence {
		result, err := s.Reconcile(inputs, 2025, previous)
		require.NoError(t, err)
		for _, record := range result.Next {
			if known, ok := ids[record.ClinicName]; ok {
				require.Equal(t, known, record.ClinicID, "clinic_id changed for %s", record.ClinicName)
			} else {
				ids[record.ClinicName] = record.ClinicID
			}
		}
		previous = result.Next
	}
	require.Len(t, previous, 2)
}

func TestReconcileStickyMetadata(t *testing.T) {
	s := newTestReconciler(time.Now())
	previous := []domain.ClinicRecord{{
		ClinicID:   "SJ25-0001",
		ClinicName: "A",
		Status:     domain.StatusActive,
		FirstSeenAt: "x", LastSeenAt: "x",
		Phone:    "044-123-4567",
		Homepage: "https://old.example.com",
	}}
	inputs := []domain.ClinicInput{{
		Name:    "A",
		Phone:   "",
		Address: "세종시 어딘가 1",
	}}

	result, err := s.Reconcile(inputs, 2025, previous)
	require.NoError(t, err)
	record := result.Next[0]
	// empty incoming value never erases a stored one
	require.Equal(t, "044-123-4567", record.Phone)
	require.Equal(t, "https://old.example.com", record.Homepage)
	// non-empty incoming value overwrites
	require.Equal(t, "세종시 어딘가 1", record.Address)
}

func TestReconcileStatusDeterminismAndUniqueness(t *testing.T) {
	s := newTestReconciler(time.Now())
	previous := []domain.ClinicRecord{
		{ClinicID: "SJ25-0001", ClinicName: "A", Status: domain.StatusActive, FirstSeenAt: "x", LastSeenAt: "x"},
		{ClinicID: "SJ25-0002", ClinicName: "B", Status: domain.StatusInactive, FirstSeenAt: "x", LastSeenAt: "x"},
	}
	inputs := []domain.ClinicInput{{Name: "B"}, {Name: "C"}}

	result, err := s.Reconcile(inputs, 2025, previous)
	require.NoError(t, err)

	inputNames := map[string]bool{"B": true, "C": true}
	seenNames := map[string]bool{}
	seenIDs := map[string]bool{}
	for _, record := range result.Next {
		require.False(t, seenNames[record.ClinicName], "duplicate name %s", record.ClinicName)
		require.False(t, seenIDs[record.ClinicID], "duplicate id %s", record.ClinicID)
		seenNames[record.ClinicName] = true
		seenIDs[record.ClinicID] = true
		require.Equal(t, inputNames[record.ClinicName], record.Status.IsActive())
	}
}

func TestReconcileRejectsDuplicateInputNames(t *testing.T) {
	s := newTestReconciler(time.Now())
	inputs := []domain.ClinicInput{{Name: "A"}, {Name: "A"}}

	_, err := s.Reconcile(inputs, 2025, nil)
	require.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestReconcileRejectsCorruptPrevious(t *testing.T) {
	s := newTestReconciler(time.Now())

	t.Run("duplicate names", func(t *testing.T) {
		previous := []domain.ClinicRecord{
			{ClinicID: "SJ25-0001", ClinicName: "A", Status: domain.StatusActive, FirstSeenAt: "x", LastSeenAt: "x"},
			{ClinicID: "SJ25-0002", ClinicName: "A", Status: domain.StatusActive, FirstSeenAt: "x", LastSeenAt: "x"},
		}
		_, err := s.Reconcile(nil, 2025, previous)
		require.ErrorIs(t, err, domain.ErrCorruptSnapshot)
	})

	t.Run("empty clinic_id", func(t *testing.T) {
		previous := []domain.ClinicRecord{
			{ClinicID: "", ClinicName: "A", Status: domain.StatusActive, FirstSeenAt: "x", LastSeenAt: "x"},
		}
		_, err := s.Reconcile(nil, 2025, previous)
		require.ErrorIs(t, err, domain.ErrCorruptSnapshot)
	})
}

func TestReconcileYearPrefixWrapsModulo100(t *testing.T) {
	s := newTestReconciler(time.Now())
	result, err := s.Reconcile([]domain.ClinicInput{{Name: "A"}}, 2103, nil)
	require.NoError(t, err)
	require.Equal(t, "SJ03-0001", result.Next[0].ClinicID)
}
