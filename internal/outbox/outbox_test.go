package outbox

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sejong-dental-qr/internal/domain"
	"sejong-dental-qr/internal/report"
)

func seedDelivery(t *testing.T, deliveryRoot, dirName string) {
	t.Helper()
	dir := filepath.Join(deliveryRoot, dirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range []string{"qr.png", "qr_named.png", "info.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
}

func TestOutboxBundlesNewAndReactivated(t *testing.T) {
	base := t.TempDir()
	deliveryRoot := filepath.Join(base, "delivery")
	outboxRoot := filepath.Join(base, "outbox")
	seedDelivery(t, deliveryRoot, "SJ25-0001_seoul-dental")
	seedDelivery(t, deliveryRoot, "SJ25-0003_busan-dental")

	mapping := []report.MappingRecord{
		{ClinicID: "SJ25-0001", ClinicName: "Seoul Dental", Status: domain.StatusActive, URL: "https://example.com/c/SJ25-0001/"},
		{ClinicID: "SJ25-0002", ClinicName: "Old Dental", Status: domain.StatusActive},
		{ClinicID: "SJ25-0003", ClinicName: "Busan Dental", Status: domain.StatusActive},
	}
	changes := []domain.ChangeRecord{
		{ClinicID: "SJ25-0001", ClinicName: "Seoul Dental", ChangeType: domain.ChangeNew},
		{ClinicID: "SJ25-0002", ClinicName: "Old Dental", ChangeType: domain.ChangeUnchanged},
		{ClinicID: "SJ25-0003", ClinicName: "Busan Dental", ChangeType: domain.ChangeReactivated},
	}

	b := NewBuilder(zap.NewNop())
	result, err := b.Create(outboxRoot, deliveryRoot, mapping, changes)
	require.NoError(t, err)
	require.Equal(t, 2, result.Targets)
	require.Equal(t, 2, result.ZipsCreated)
	require.ElementsMatch(t, []string{"SJ25-0001_seoul-dental.zip", "SJ25-0003_busan-dental.zip"}, result.ZipNames)

	reader, err := zip.OpenReader(filepath.Join(outboxRoot, "zips", "SJ25-0001_seoul-dental.zip"))
	require.NoError(t, err)
	defer reader.Close()
	var names []string
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	require.ElementsMatch(t, []string{"qr.png", "qr_named.png", "info.txt"}, names)

	sendlist, err := os.ReadFile(result.SendlistPath)
	require.NoError(t, err)
	content := string(sendlist)
	require.Contains(t, content, "clinic_id,clinic_name,change_type,url,zip_path")
	require.Contains(t, content, "SJ25-0001,Seoul Dental,NEW,https://example.com/c/SJ25-0001/")
	require.NotContains(t, content, "SJ25-0002")
}

func TestOutboxSkipsTargetsWithMissingFiles(t *testing.T) {
	base := t.TempDir()
	deliveryRoot := filepath.Join(base, "delivery")
	outboxRoot := filepath.Join(base, "outbox")
	// qr_named.png missing
	dir := filepath.Join(deliveryRoot, "SJ25-0001_seoul-dental")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "qr.png"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.txt"), []byte("x"), 0o644))

	mapping := []report.MappingRecord{
		{ClinicID: "SJ25-0001", ClinicName: "Seoul Dental", Status: domain.StatusActive},
	}
	changes := []domain.ChangeRecord{
		{ClinicID: "SJ25-0001", ClinicName: "Seoul Dental", ChangeType: domain.ChangeNew},
	}

	b := NewBuilder(zap.NewNop())
	result, err := b.Create(outboxRoot, deliveryRoot, mapping, changes)
	require.NoError(t, err)
	require.Equal(t, 1, result.Targets)
	require.Zero(t, result.ZipsCreated)
	require.FileExists(t, result.SendlistPath)
}

func TestOutboxSkipsInactiveAndUnknownTargets(t *testing.T) {
	base := t.TempDir()
	outboxRoot := filepath.Join(base, "outbox")

	mapping := []report.MappingRecord{
		{ClinicID: "SJ25-0001", ClinicName: "A", Status: domain.StatusInactive},
	}
	changes := []domain.ChangeRecord{
		{ClinicID: "SJ25-0001", ClinicName: "A", ChangeType: domain.ChangeReactivated},
		{ClinicID: "SJ25-9999", ClinicName: "Ghost", ChangeType: domain.ChangeNew},
	}

	b := NewBuilder(zap.NewNop())
	result, err := b.Create(outboxRoot, filepath.Join(base, "delivery"), mapping, changes)
	require.NoError(t, err)
	require.Equal(t, 2, result.Targets)
	require.Zero(t, result.ZipsCreated)
}

func TestOutboxRootIsRecreatedFromScratch(t *testing.T) {
	base := t.TempDir()
	outboxRoot := filepath.Join(base, "outbox")
	stale := filepath.Join(outboxRoot, "zips", "stale.zip")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	b := NewBuilder(zap.NewNop())
	_, err := b.Create(outboxRoot, filepath.Join(base, "delivery"), nil, nil)
	require.NoError(t, err)
	require.NoFileExists(t, stale)
}
