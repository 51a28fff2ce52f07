package entity

// ErrorResponse represents an API error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type SessionDTO struct {
	ID            string       `json:"id"`
	Filename      string       `json:"filename"`
	Language      string       `json:"language"`
	Source        string       `json:"source"`
	CachedActions []ActionKind `json:"cached_actions"`
	CreatedAt     string       `json:"created_at"`
	UpdatedAt     string       `json:"updated_at"`
	Warnings      []string     `json:"warnings,omitempty"`
}

type ActionResultDTO struct {
	SessionID string       `json:"session_id"`
	Action    ActionKind   `json:"action"`
	Title     string       `json:"title"`
	Format    OutputFormat `json:"format"`
	Language  string       `json:"language,omitempty"`
	Result    string       `json:"result"`
	HTML      string       `json:"html,omitempty"`
	Cached    bool         `json:"cached"`
}

type ConfigDTO struct {
	Endpoint   string   `json:"endpoint"`
	Deployment string   `json:"deployment"`
	APIVersion string   `json:"api_version"`
	Language   string   `json:"language"`
	Extension  string   `json:"extension"`
	Mocks      bool     `json:"mocks"`
	Warnings   []string `json:"warnings"`
}

type DeleteSessionResponse struct {
	Status string `json:"status"`
}

// ExportFormat selects the document type of an exported result
type ExportFormat string

const (
	ExportMarkdown ExportFormat = "markdown"
	ExportSource   ExportFormat = "source"
	ExportPDF      ExportFormat = "pdf"
	ExportDOCX     ExportFormat = "docx"
)

func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportMarkdown, ExportSource, ExportPDF, ExportDOCX:
		return true
	default:
		return false
	}
}
