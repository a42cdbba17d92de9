package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the pipeline's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldFile       = "file_path"
	FieldAccount    = "account"
	FieldPeriod     = "period"
	FieldYear       = "year"
	FieldStage      = "stage"
	FieldCategory   = "category"
	FieldReason     = "reason"
	FieldRow        = "row"
	FieldCount      = "count"
	FieldDropped    = "dropped"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
