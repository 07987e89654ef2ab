package types

// PostReportPayload is the request body for POST /api/v1/reports.
// Numeric values travel as decimal strings to avoid precision loss.
type PostReportPayload struct {
	ServerID  string   `json:"serverId"`
	UserCode  string   `json:"userCode"`
	Timestamp string   `json:"timestamp"`
	Sensors   []string `json:"sensors"`
	Location  []string `json:"location"`
}

// ReportSubmissionResponse describes a submission record.
type ReportSubmissionResponse struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	TxHash      string `json:"txHash,omitempty"`
	BlockNumber string `json:"blockNumber,omitempty"`
	GasUsed     uint64 `json:"gasUsed,omitempty"`
	Stage       string `json:"stage,omitempty"`
	Detail      string `json:"detail,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}
