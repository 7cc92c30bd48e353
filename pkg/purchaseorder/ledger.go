package purchaseorder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MetadataKey is the customer metadata key holding the encoded ledger.
const MetadataKey = "purchase_order_number"

// ErrMalformedLedger is returned when the stored ledger is not a JSON object.
var ErrMalformedLedger = errors.New("malformed purchase order ledger")

// Ledger maps invoice ids to the purchase order number quoted for them.
type Ledger map[string]string

// Parse decodes a stored ledger. An absent ledger is empty.
// Non-string values are kept as their raw JSON text; null becomes "".
func Parse(raw string) (Ledger, error) {
	ledger := Ledger{}
	if strings.TrimSpace(raw) == "" {
		return ledger, nil
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return Ledger{}, fmt.Errorf("%w: %v", ErrMalformedLedger, err)
	}
	if values == nil {
		// the literal null
		return Ledger{}, fmt.Errorf("%w: not an object", ErrMalformedLedger)
	}

	for invoiceID, v := range values {
		var s string
		switch {
		case bytes.Equal(v, []byte("null")):
			ledger[invoiceID] = ""
		case json.Unmarshal(v, &s) == nil:
			ledger[invoiceID] = s
		default:
			ledger[invoiceID] = string(v)
		}
	}
	return ledger, nil
}

// Set records poNumber against invoiceID, replacing any previous entry.
func (l Ledger) Set(invoiceID, poNumber string) {
	l[invoiceID] = poNumber
}

// Encode returns the ledger as a JSON object with keys in sorted order.
func (l Ledger) Encode() string {
	if l == nil {
		return "{}"
	}
	// encoding/json sorts map keys
	b, err := json.Marshal(map[string]string(l))
	if err != nil {
		return "{}"
	}
	return string(b)
}
