package service

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"sejong-dental-qr/internal/domain"
)

// ReconcileResult is the outcome of merging one build's roster against the
// previous snapshot.
type ReconcileResult struct {
	Next   []domain.ClinicRecord
	NewIDs []string
}

// ReconcileService owns the durable name→clinic_id mapping rules: it decides
// ACTIVE/INACTIVE per build and mints IDs for newly observed clinics.
//
// Identity is the exact normalized clinic name. A renamed clinic is therefore
// indistinguishable from "old clinic deactivated + new clinic created"; this
// is an accepted limitation.
type ReconcileService struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewReconcileService creates the service. now defaults to time.Now.
func NewReconcileService(logger *zap.Logger) *ReconcileService {
	return &ReconcileService{logger: logger, now: time.Now}
}

// Reconcile merges the validated inputs of this build against the previous
// snapshot and returns the next snapshot plus the clinic_ids minted.
//
// Guarantees:
//   - clinic_id and first_seen_at of existing records are never touched.
//   - status is ACTIVE iff the record's name appears in inputs.
//   - non-empty input metadata overwrites stored values; empty input never
//     erases a stored value (operator-mistake protection).
//   - new names are processed in lexicographic order and receive SJ<YY>-<NNNN>
//     IDs whose suffix is strictly above every existing suffix for the prefix,
//     so re-runs with identical input assign identical IDs.
//
// Duplicate names in inputs or previous abort the build before any write.
func (s *ReconcileService) Reconcile(inputs []domain.ClinicInput, year int, previous []domain.ClinicRecord) (*ReconcileResult, error) {
	if err := validateInputNames(inputs); err != nil {
		return nil, err
	}
	if err := validatePrevious(previous); err != nil {
		return nil, err
	}

	inputByName := make(map[string]domain.ClinicInput, len(inputs))
	for _, input := range inputs {
		inputByName[input.Name] = input
	}

	prefix := fmt.Sprintf("SJ%02d-", year%100)
	maxNumber := maxExistingNumber(previous, prefix)
	now := s.now().Format(time.RFC3339)

	next := make([]domain.ClinicRecord, 0, len(previous)+len(inputs))
	for _, prev := range previous {
		record := prev
		if input, ok := inputByName[prev.ClinicName]; ok {
			record.Status = domain.StatusActive
			record.LastSeenAt = now
			record.Address = mergeField(input.Address, prev.Address)
			record.Phone = mergeField(input.Phone, prev.Phone)
			record.Director = mergeField(input.Director, prev.Director)
			record.Homepage = mergeField(input.Homepage, prev.Homepage)
		} else {
			record.Status = domain.StatusInactive
		}
		next = append(next, record)
	}

	knownNames := make(map[string]struct{}, len(previous))
	for _, prev := range previous {
		knownNames[prev.ClinicName] = struct{}{}
	}
	var newNames []string
	for _, input := range inputs {
		if _, ok := knownNames[input.Name]; !ok {
			newNames = append(newNames, input.Name)
		}
	}
	sort.Strings(newNames)

	newIDs := make([]string, 0, len(newNames))
	for _, name := range newNames {
		input := inputByName[name]
		maxNumber++
		clinicID := fmt.Sprintf("%s%04d", prefix, maxNumber)
		newIDs = append(newIDs, clinicID)
		next = append(next, domain.ClinicRecord{
			ClinicID:    clinicID,
			ClinicName:  name,
			Status:      domain.StatusActive,
			FirstSeenAt: now,
			LastSeenAt:  now,
			Address:     input.Address,
			Phone:       input.Phone,
			Director:    input.Director,
			Homepage:    input.Homepage,
		})
		s.logger.Info("Minted clinic_id",
			zap.String("clinic_id", clinicID),
			zap.String("clinic_name", name),
		)
	}

	return &ReconcileResult{Next: next, NewIDs: newIDs}, nil
}

func validateInputNames(inputs []domain.ClinicInput) error {
	seen := make(map[string]struct{}, len(inputs))
	var duplicates []string
	for _, input := range inputs {
		if _, ok := seen[input.Name]; ok {
			duplicates = append(duplicates, input.Name)
		}
		seen[input.Name] = struct{}{}
	}
	if len(duplicates) > 0 {
		sort.Strings(duplicates)
		return fmt.Errorf("%w: in roster input: %s", domain.ErrDuplicateName, strings.Join(duplicates, ", "))
	}
	return nil
}

func validatePrevious(previous []domain.ClinicRecord) error {
	seen := make(map[string]struct{}, len(previous))
	var duplicates []string
	for _, record := range previous {
		if record.ClinicID == "" || record.ClinicName == "" {
			return fmt.Errorf("%w: record with empty clinic_id or clinic_name", domain.ErrCorruptSnapshot)
		}
		if _, ok := seen[record.ClinicName]; ok {
			duplicates = append(duplicates, record.ClinicName)
		}
		seen[record.ClinicName] = struct{}{}
	}
	if len(duplicates) > 0 {
		sort.Strings(duplicates)
		return fmt.Errorf("%w: duplicate clinic names: %s", domain.ErrCorruptSnapshot, strings.Join(duplicates, ", "))
	}
	return nil
}

// maxExistingNumber scans previous clinic_ids matching the literal prefix and
// returns the highest numeric suffix, 0 when none match. IDs minted under
// other year prefixes are intentionally ignored: the mint-year prefix is kept
// forever, even across multi-year INACTIVE gaps.
func maxExistingNumber(previous []domain.ClinicRecord, prefix string) int {
	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `(\d+)$`)
	max := 0
	for _, record := range previous {
		m := pattern.FindStringSubmatch(strings.TrimSpace(record.ClinicID))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}

// mergeField keeps the stored value when the incoming one is empty.
func mergeField(incoming, stored string) string {
	if incoming != "" {
		return incoming
	}
	return stored
}
