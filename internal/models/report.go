package models

// ReportFormat selects the report output encoding.
type ReportFormat string

const (
	ReportFormatJSON ReportFormat = "json"
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatPDF  ReportFormat = "pdf"
)

// Valid reports membership in the enumerated format set.
func (f ReportFormat) Valid() bool {
	switch f {
	case ReportFormatJSON, ReportFormatCSV, ReportFormatPDF:
		return true
	}
	return false
}

// ReportFile is a rendered export ready to stream to the client.
type ReportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// TaskReport is the JSON report payload: the matching rows plus tallies.
type TaskReport struct {
	Total      int           `json:"total"`
	ByStatus   []StatusCount `json:"by_status"`
	ByPriority []StatusCount `json:"by_priority"`
	Rows       []Task        `json:"rows"`
}

// LeaveReport is the JSON report payload: the matching rows plus tallies.
type LeaveReport struct {
	Total    int           `json:"total"`
	ByStatus []StatusCount `json:"by_status"`
	ByType   []StatusCount `json:"by_type"`
	Rows     []Leave       `json:"rows"`
}
