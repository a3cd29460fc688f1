package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sejong-dental-qr/internal/config"
	"sejong-dental-qr/internal/delivery"
	"sejong-dental-qr/internal/domain"
	"sejong-dental-qr/internal/ingest"
	"sejong-dental-qr/internal/outbox"
	"sejong-dental-qr/internal/qrgen"
	"sejong-dental-qr/internal/render"
	"sejong-dental-qr/internal/report"
	"sejong-dental-qr/internal/repository"
)

// BuildOptions are per-run flags.
type BuildOptions struct {
	// SkipQR renders pages and reports only; QR images, delivery packages
	// and the outbox are skipped.
	SkipQR bool
}

// BuildService runs one full build: ingest → reconcile → plan → render →
// QR → reports → delivery → outbox. Validation failures abort before the
// id_map is written, so a failed build leaves the persistent state untouched.
type BuildService struct {
	cfg        *config.Config
	idMap      repository.IDMapRepository
	reader     *ingest.ExcelReader
	fetcher    *ingest.RosterFetcher
	reconciler *ReconcileService
	renderer   *render.Renderer
	qr         *qrgen.Generator
	packager   *delivery.Packager
	outbox     *outbox.Builder
	logger     *zap.Logger
}

// NewBuildService wires the pipeline for the given configuration.
func NewBuildService(cfg *config.Config, logger *zap.Logger) (*BuildService, error) {
	renderer, err := render.New(cfg)
	if err != nil {
		return nil, err
	}
	return &BuildService{
		cfg:        cfg,
		idMap:      repository.NewCSVIDMapRepository(cfg.IDMapPath),
		reader:     ingest.NewExcelReader(logger),
		fetcher:    ingest.NewRosterFetcher(logger),
		reconciler: NewReconcileService(logger),
		renderer:   renderer,
		qr:         qrgen.NewGenerator(logger),
		packager:   delivery.NewPackager(cfg.MessageActive, logger),
		outbox:     outbox.NewBuilder(logger),
		logger:     logger,
	}, nil
}

// Run executes one build.
func (s *BuildService) Run(opts BuildOptions) error {
	logger := s.logger.With(zap.String("build_id", uuid.NewString()))
	cfg := s.cfg

	if cfg.ClinicsSource == "url" {
		changed, err := s.fetcher.Fetch(cfg.ClinicsXlsxURL, cfg.InputExcelPath, cfg.ClinicsHashPath)
		if err != nil {
			return err
		}
		if !changed {
			logger.Info("Remote roster unchanged since last fetch")
		}
	}

	inputs, err := s.reader.Read(cfg.InputExcelPath, cfg.SheetIndex, ingest.Columns{
		Name:     cfg.NameColumn,
		Address:  cfg.AddressColumn,
		Phone:    cfg.PhoneColumn,
		Director: cfg.DirectorColumn,
		Homepage: cfg.HomepageColumn,
	})
	if err != nil {
		return err
	}

	previous, err := s.idMap.Load()
	if err != nil {
		return err
	}
	result, err := s.reconciler.Reconcile(inputs, cfg.Year, previous)
	if err != nil {
		return err
	}
	if err := s.idMap.Save(result.Next); err != nil {
		return err
	}
	changes := BuildChanges(previous, result.Next)

	rootHTML, err := s.renderer.RootIndex()
	if err != nil {
		return err
	}
	if err := writeText(filepath.Join(cfg.SiteRoot, "index.html"), rootHTML); err != nil {
		return err
	}
	notFoundHTML, err := s.renderer.NotFound()
	if err != nil {
		return err
	}
	if err := writeText(filepath.Join(cfg.SiteRoot, "404.html"), notFoundHTML); err != nil {
		return err
	}

	urlPrefix := buildURLPrefix(cfg.BaseURL, cfg.PathPrefix)
	qrRoot := filepath.Join(cfg.OutputRoot, "qr")
	buildTimestamp := time.Now().Format(time.RFC3339)

	var mappingRecords []report.MappingRecord
	activeCount, inactiveCount := 0, 0
	for _, record := range result.Next {
		pagePath := filepath.Join(cfg.SiteRoot, cfg.PathPrefix, record.ClinicID, "index.html")
		pageHTML, err := s.renderer.ClinicPage(record, buildTimestamp)
		if err != nil {
			return err
		}
		if err := writeText(pagePath, pageHTML); err != nil {
			return err
		}

		url := ""
		if urlPrefix != "" {
			url = urlPrefix + record.ClinicID + "/"
		}

		qrPath, qrNamedPath := "", ""
		if record.Status.IsActive() {
			activeCount++
			if !opts.SkipQR {
				qrPath = filepath.Join(qrRoot, record.ClinicID+".png")
				if err := s.qr.WritePNG(url, qrPath, cfg.QRErrorCorrection, cfg.QRBoxSize, cfg.QRBorder); err != nil {
					return err
				}
				if cfg.GenerateQRNamed {
					qrNamedPath = filepath.Join(qrRoot, record.ClinicID+"_named.png")
					if err := s.qr.WriteNamedPNG(qrPath, record.ClinicName, qrNamedPath, cfg.CaptionFontPath, cfg.CaptionFontSize); err != nil {
						return err
					}
				}
			}
		} else {
			inactiveCount++
		}

		mappingRecords = append(mappingRecords, report.MappingRecord{
			ClinicName:  record.ClinicName,
			ClinicID:    record.ClinicID,
			Status:      record.Status,
			Address:     record.Address,
			Phone:       record.Phone,
			Director:    record.Director,
			Homepage:    record.Homepage,
			URL:         url,
			PagePath:    pagePath,
			QRPath:      qrPath,
			QRNamedPath: qrNamedPath,
		})
	}

	if err := report.WriteMappingCSV(mappingRecords, filepath.Join(cfg.OutputRoot, "mapping.csv")); err != nil {
		return err
	}
	if err := report.WriteMappingWorkbook(mappingRecords, filepath.Join(cfg.OutputRoot, "mapping.xlsx")); err != nil {
		return err
	}
	if err := report.WriteChangesCSV(changes, filepath.Join(cfg.OutputRoot, "changes.csv"), nil); err != nil {
		return err
	}

	deliveryRoot := filepath.Join(cfg.OutputRoot, "delivery")
	if cfg.GenerateDelivery {
		if opts.SkipQR {
			logger.Warn("Delivery skipped because --skip-qr was set")
		} else if _, err := s.packager.Create(deliveryRoot, mappingRecords, buildTimestamp); err != nil {
			return err
		}
	}

	var outboxResult *outbox.Result
	if cfg.GenerateOutbox {
		if opts.SkipQR {
			logger.Warn("Outbox skipped because --skip-qr was set")
		} else {
			outboxResult, err = s.outbox.Create(cfg.OutboxRoot, deliveryRoot, mappingRecords, changes)
			if err != nil {
				return err
			}
			indexHTML, err := s.renderer.OutboxIndex(buildTimestamp, outboxResult.ZipNames)
			if err != nil {
				return err
			}
			if err := writeText(filepath.Join(cfg.OutboxRoot, "index.html"), indexHTML); err != nil {
				return err
			}
		}
	}

	logSummary(logger, len(inputs), activeCount, inactiveCount, result.NewIDs, changes, outboxResult)
	return nil
}

func logSummary(logger *zap.Logger, total, active, inactive int, newIDs []string, changes []domain.ChangeRecord, outboxResult *outbox.Result) {
	counts := map[domain.ChangeType]int{}
	for _, change := range changes {
		counts[change.ChangeType]++
	}
	logger.Info("Build summary",
		zap.Int("total", total),
		zap.Int("active", active),
		zap.Int("inactive", inactive),
		zap.Int("minted", len(newIDs)),
	)
	logger.Info("Changes",
		zap.Int("new", counts[domain.ChangeNew]),
		zap.Int("deactivated", counts[domain.ChangeDeactivated]),
		zap.Int("reactivated", counts[domain.ChangeReactivated]),
		zap.Int("unchanged", counts[domain.ChangeUnchanged]),
	)
	if outboxResult != nil {
		logger.Info("Outbox",
			zap.Int("targets", outboxResult.Targets),
			zap.Int("zips", outboxResult.ZipsCreated),
		)
	}
}

func buildURLPrefix(baseURL, pathPrefix string) string {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.Trim(pathPrefix, "/") + "/"
}

func writeText(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
