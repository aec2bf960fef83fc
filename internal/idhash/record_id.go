package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"

	"trade-sim-lab/internal/domain"
)

// ComputeRecordID computes a deterministic record_id using SHA256.
// Formula: base58(SHA256(session_id|ticker|strategy|created_at_ms))
// Base58 keeps the ID compact and free of URL-hostile characters.
func ComputeRecordID(sessionID, ticker string, strategy domain.Strategy, createdAtMs int64) string {
	data := fmt.Sprintf("%s|%s|%s|%d",
		sessionID,
		ticker,
		string(strategy),
		createdAtMs,
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
