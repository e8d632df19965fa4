package backend

import (
	"context"
	"fmt"

	"saletrack/internal/amqp"
	applog "saletrack/internal/log"
	"saletrack/internal/services"
	"saletrack/internal/sheets"
	"saletrack/internal/sheets/excel"
	gsheet "saletrack/internal/sheets/google"
	sheetsmem "saletrack/internal/sheets/memory"
	"saletrack/internal/storage"
	"saletrack/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend opens the store, the optional publisher and the report writers.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store services.Store
		err   error
	)
	switch config.Type {
	case SQLiteBackend:
		store, err = f.createSQLiteStore(config)
	case MemoryBackend:
		store = f.createMemoryStore(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	publisher := f.createPublisher(config)

	sales := services.NewSaleService(store, publisher)
	reports := services.NewReportService(store, config.ReportCurrency, config.ReportTitle, publisher)
	if err := f.registerWriters(ctx, reports, config); err != nil {
		_ = sales.Close()
		return nil, err
	}

	f.logger.Info("Initialized backend",
		"backend", config.Type,
		"amqp_enabled", publisher != nil,
		"report_targets", reports.Targets())

	return &BackendResult{
		Sales:   sales,
		Reports: reports,
		Cleanup: sales.Close,
	}, nil
}

func (f *DefaultFactory) createSQLiteStore(config Config) (services.Store, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.WithComponent(applog.ComponentStorage).Info("Initialized SQLite store", "db_path", config.SQLiteDBPath)
	return repo, nil
}

func (f *DefaultFactory) createMemoryStore(config Config) services.Store {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}
	store := memory.NewFromFiles(dataDir)
	f.logger.Info("Initialized memory store", "data_directory", dataDir)
	return store
}

// createPublisher returns nil when AMQP is disabled or unreachable; sales still work without it.
func (f *DefaultFactory) createPublisher(config Config) services.EventPublisher {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.WithComponent(applog.ComponentAMQP).Warn("Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
		return nil
	}
	f.logger.WithComponent(applog.ComponentAMQP).Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}

// registerWriters registers the configured default target first so it becomes the default.
func (f *DefaultFactory) registerWriters(ctx context.Context, reports *services.ReportService, config Config) error {
	writers := map[sheets.Target]sheets.ReportWriter{
		sheets.TargetXLSX:   excel.New(config.ReportDir),
		sheets.TargetMemory: sheetsmem.New(),
	}

	if config.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:      config.GoogleSpreadsheetID,
			ServiceAccountJSON: config.GoogleServiceAccountJSON,
			ServiceAccountFile: config.GoogleServiceAccountFile,
		})
		if err != nil {
			if config.ReportTarget == sheets.TargetSheets {
				return fmt.Errorf("failed to initialize Google Sheets client: %w", err)
			}
			f.logger.WithComponent(applog.ComponentSheets).Warn("Google Sheets unavailable, reports limited to xlsx", applog.FieldError, err)
		} else {
			writers[sheets.TargetSheets] = client
		}
	}

	order := []sheets.Target{sheets.TargetXLSX, sheets.TargetSheets, sheets.TargetMemory}
	if config.ReportTarget != "" {
		order = append([]sheets.Target{config.ReportTarget}, order...)
	}
	for _, t := range order {
		if w, ok := writers[t]; ok {
			reports.Register(t, w)
			delete(writers, t)
		}
	}
	return nil
}
