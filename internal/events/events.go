package events

import (
	"encoding/json"
	"time"

	"github.com/ariefcatur/go-kasir/internal/domain"
)

const (
	EventTransactionCompleted = "TransactionCompleted"
	EventProductsImported     = "ProductsImported"
)

const (
	TopicTransactionCompleted = "kasir.transaction.completed"
	TopicProductsImported     = "kasir.products.imported"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"` // e.g., "kasir-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya kode transaksi
	Payload       json.RawMessage `json:"payload"`
}

type TransactionCompletedPayload struct {
	Receipt   domain.Receipt `json:"receipt"`
	CashierID int64          `json:"cashier_id"`
	Cashier   string         `json:"cashier"`
}

type ProductsImportedPayload struct {
	Inserted []string `json:"inserted"` // kode barang
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
}

// Partition key = kode transaksi, supaya event satu transaksi tetap urut.
func PartitionKey(id string) []byte { return []byte(id) }
