package history

import "codeberg.org/kvernes/heatpumpmon/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrorCode("history_invalid_config")
	ErrInvalidDBPath = errors.ErrorCode("history_invalid_db_path")

	// Storage Errors
	ErrStorageInit      = errors.ErrorCode("history_storage_init_failed")
	ErrStorageClose     = errors.ErrorCode("history_storage_close_failed")
	ErrSchemaInitFailed = errors.ErrorCode("history_schema_init_failed")

	// Operation Errors
	ErrLookupFailed = errors.ErrorCode("history_lookup_failed")
	ErrRecordFailed = errors.ErrorCode("history_record_failed")
)
