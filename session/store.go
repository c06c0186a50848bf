package session

import "net/http"

// Store moves sealed session records between the gateway and the client.
// Implementations must be tamper-evident: a record that fails
// authentication on read is reported as absent, not as an error the
// client can distinguish.
type Store interface {
	// Write persists the record on the response (e.g., as a sealed cookie).
	Write(w http.ResponseWriter, record *Record) error

	// Read recovers the record from the request. A missing, expired or
	// tampered record yields (nil, nil).
	Read(r *http.Request) (*Record, error)

	// Clear removes the record from the client.
	Clear(w http.ResponseWriter)
}
