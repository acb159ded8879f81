package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod is how a bill was settled.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentTransfer PaymentMethod = "TRANSFER"
	// PaymentUnknown marks a hand-edited value that matches neither method.
	// Such bills count toward revenue but toward neither method total.
	PaymentUnknown PaymentMethod = "UNKNOWN"
)

// Persisted spreadsheet values.
const (
	paymentCashLabel     = "เงินสด"
	paymentTransferLabel = "โอน"
)

var paymentAliases = map[string]PaymentMethod{
	"cash":               PaymentCash,
	"transfer":           PaymentTransfer,
	paymentCashLabel:     PaymentCash,
	paymentTransferLabel: PaymentTransfer,
	"เงินโอน":            PaymentTransfer,
	"unknown":            PaymentUnknown,
}

// ParsePaymentMethod accepts the English enum values and the stored Thai labels.
// A blank value is treated as cash, which is how older rows were written.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return PaymentCash, true
	}
	m, ok := paymentAliases[strings.ToLower(v)]
	return m, ok
}

// Label returns the value written to the sales sheet.
func (m PaymentMethod) Label() string {
	if m == PaymentTransfer {
		return paymentTransferLabel
	}
	return paymentCashLabel
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, ok := ParsePaymentMethod(raw)
	if !ok {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, raw)
	}
	*m = parsed
	return nil
}

// Valid reports whether m is one of the two settlement methods.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentTransfer
}
