package logging

// Standardized field names for structured logging. Using the same keys
// everywhere keeps log output easy to filter and analyze.
const (
	FieldFile          = "file_path"
	FieldTransactionID = "transaction_id"
	FieldMerchant      = "merchant"
	FieldCategory      = "category"
	FieldRule          = "rule"
	FieldStage         = "stage"
	FieldConfidence    = "confidence"
	FieldFrequency     = "frequency"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldCount         = "count"
	FieldInputFile     = "input_file"
	FieldOutputFile    = "output_file"
)
