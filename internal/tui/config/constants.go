package config

// Layout constants
const (
	// Table dimensions
	DefaultColumnNameWidth     = 45
	DefaultColumnSizeWidth     = 10
	DefaultColumnModifiedWidth = 19
	DefaultTableHeight         = 20
	MinColumnNameWidth         = 16

	// Rows reserved above and below the table: header, crumbs, status, help
	ReservedRows = 8

	// Dialog dimensions
	DialogDefaultWidth = 50
	DialogLargeWidth   = 70
	MenuWidth          = 24

	// Preview modal
	PreviewMarginCols = 8
	PreviewMarginRows = 6
)
