package domain

// Payment is one row of a processed CSV batch as reported by the backend.
type Payment struct {
	ID            int64   `json:"id"             validate:"required"`
	PaymentDate   string  `json:"payment_date"`
	Reference     string  `json:"reference"`
	CustomerEmail string  `json:"customer_email,omitempty"`
	Currency      string  `json:"currency"`
	Amount        float64 `json:"amount"`
	AmountUSD     float64 `json:"amount_usd"`
	Processed     bool    `json:"processed"`
}

// Batch is an uploaded CSV file and its processing status.
type Batch struct {
	ID               int64  `json:"id"                validate:"required"`
	OriginalFilename string `json:"original_filename"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}

// Batch statuses reported by the development backend.
const (
	BatchStatusPending   = "pending"
	BatchStatusProcessed = "processed"
	BatchStatusFailed    = "failed"
)

// BatchLog is a processing log line attached to a batch.
type BatchLog struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// BatchDetail is a batch with its payments and logs.
type BatchDetail struct {
	Batch
	Payments []Payment  `json:"payments" validate:"dive"`
	Logs     []BatchLog `json:"logs"`
}

// PaymentStatus narrows a payment list by processing state.
type PaymentStatus string

const (
	PaymentStatusAll       PaymentStatus = "all"
	PaymentStatusProcessed PaymentStatus = "processed"
	PaymentStatusPending   PaymentStatus = "pending"
)
