// Package payment normalizes free-form payment-method input coming from the
// UI into the canonical enum stored on closed comandas.
package payment

import (
	"strings"

	"github.com/warklp/saasBarber-sub001/internal/model"
)

// canonical is the closed set of stored payment methods.
var canonical = map[string]bool{
	model.PaymentCash:       true,
	model.PaymentCreditCard: true,
	model.PaymentDebitCard:  true,
	model.PaymentPix:        true,
}

// keywords maps substring matches (lower-cased input) to canonical methods.
// Order matters: debit is tested before credit so "cartão de débito" never
// falls into the credit branch via the bare "cart" fragment.
var keywords = []struct {
	fragment string
	method   string
}{
	{"pix", model.PaymentPix},
	{"débito", model.PaymentDebitCard},
	{"debito", model.PaymentDebitCard},
	{"debit", model.PaymentDebitCard},
	{"crédito", model.PaymentCreditCard},
	{"credito", model.PaymentCreditCard},
	{"credit", model.PaymentCreditCard},
	{"dinheiro", model.PaymentCash},
	{"cash", model.PaymentCash},
}

// Resolve maps arbitrary input to a canonical payment method. Canonical
// values pass through untouched; anything else is lower-cased and tested for
// keyword containment. Unrecognized input silently falls back to cash — this
// mirrors the historical behavior the frontend depends on, even though it can
// mask bad client data.
func Resolve(input string) string {
	if canonical[input] {
		return input
	}
	lower := strings.ToLower(strings.TrimSpace(input))
	for _, kw := range keywords {
		if strings.Contains(lower, kw.fragment) {
			return kw.method
		}
	}
	return model.PaymentCash
}
