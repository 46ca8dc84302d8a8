package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldStatus      = "status"
	fieldUpdatedAt   = "updated_at"
	fieldPDFFilename = "pdf_filename"
	fieldStorageKey  = "storage_key"
	fieldStorageURL  = "storage_url"
	fieldLocalPath   = "local_path"
)
