package redisx

import "time"

const (
	// Sesi login: session:{session_id} -> JSON session (token + user)
	KeySession = "session:%s"

	// Snapshot katalog per token: catalog:{hash token} -> JSON produk & kategori
	KeyCatalog = "catalog:%s"

	// Kunci bayar supaya klik ganda tidak bikin dua transaksi: lock:payment:{session_id}
	KeyPaymentLock = "lock:payment:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLSession     = 12 * time.Hour
	TTLCatalog     = 2 * time.Minute
	TTLPaymentLock = 30 * time.Second
	TTLDedup       = 48 * time.Hour
)
