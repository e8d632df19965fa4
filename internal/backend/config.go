package backend

import (
	"fmt"

	"saletrack/internal/config"
	"saletrack/internal/sheets"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	cfg := Config{
		Type: backendType,

		SQLiteDBPath:  appConfig.SQLiteDBPath,
		DataDirectory: "data",

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		ReportTitle:    appConfig.BusinessName,
		ReportCurrency: appConfig.ReportCurrency,
		ReportDir:      appConfig.ReportDir,
		ReportTarget:   sheets.Target(appConfig.ReportTarget),
	}

	if appConfig.SheetsEnabled() {
		cfg.GoogleSpreadsheetID = appConfig.GoogleSpreadsheetID
		cfg.GoogleServiceAccountJSON = appConfig.GoogleServiceAccountJSON
		cfg.GoogleServiceAccountFile = appConfig.GoogleServiceAccountFile
		if cfg.GoogleServiceAccountJSON == "" && cfg.GoogleServiceAccountFile == "" {
			cfg.GoogleServiceAccountFile = appConfig.GoogleApplicationCredFile
		}
	}

	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case MemoryBackend:
		// DataDirectory defaults to "data" when empty
	}

	if c.ReportTarget != "" && !c.ReportTarget.IsValid() {
		return fmt.Errorf("invalid report target: %s", c.ReportTarget)
	}
	if c.ReportTarget == sheets.TargetSheets && c.GoogleSpreadsheetID == "" {
		return fmt.Errorf("Google Spreadsheet ID is required for the sheets report target")
	}
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		return fmt.Errorf("AMQP exchange and queue are required when AMQP URL is set")
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{SQLiteBackend, MemoryBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	strings := make([]string, len(types))
	for i, t := range types {
		strings[i] = t.String()
	}
	return strings
}
