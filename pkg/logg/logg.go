package logg

// Field keys shared by every component logger.
const (
	Layer     = "layer"
	Operation = "operation"
	URL       = "url"
	Context   = "context"
	ScanID    = "scan_id"
	Path      = "path"
	Format    = "format"
	Driver    = "driver"
	Message   = "message"
)
