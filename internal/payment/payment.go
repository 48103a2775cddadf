// Package payment builds signed redirect forms for the local payment
// gateways. The service never talks to a gateway directly: it renders a
// form the client posts, then verifies the signed callback.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
)

const signatureField = "pp_secure_hash"

var (
	ErrUnknownGateway   = errors.New("unknown payment gateway")
	ErrInvalidAmount    = errors.New("payment amount must be positive")
	ErrMissingSignature = errors.New("callback carries no signature")
	ErrBadSignature     = errors.New("callback signature mismatch")
)

var gatewayURLs = map[string]string{
	"jazzcash":  "https://sandbox.jazzcash.com.pk/CustomerPortal/transactionmanagement/merchantform",
	"easypaisa": "https://easypay.easypaisa.com.pk/easypay/Index.jsf",
	"bank":      "https://gateway.bankalfalah.com/HS/HS/HS",
}

type Config struct {
	MerchantId string
	Secret     string
	ReturnURL  string
}

type Adapter struct {
	cfg Config
}

func NewAdapter(cfg Config) *Adapter {
	return &Adapter{cfg: cfg}
}

// RedirectForm is everything the frontend needs to POST the user to the
// gateway. Fields includes the signature.
type RedirectForm struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}

func (a *Adapter) BuildRedirectForm(gateway, orderId string, amount float64, currency string) (*RedirectForm, error) {
	url, ok := gatewayURLs[gateway]
	if !ok {
		return nil, ErrUnknownGateway
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	fields := map[string]string{
		"pp_merchant_id": a.cfg.MerchantId,
		"pp_order_id":    orderId,
		"pp_amount":      fmt.Sprintf("%.2f", amount),
		"pp_currency":    currency,
		"pp_return_url":  a.cfg.ReturnURL,
	}
	fields[signatureField] = a.sign(fields)

	return &RedirectForm{URL: url, Fields: fields}, nil
}

// VerifyCallback checks the gateway's signature over the returned fields.
// Comparison is constant-time.
func (a *Adapter) VerifyCallback(fields map[string]string) error {
	got, ok := fields[signatureField]
	if !ok || got == "" {
		return ErrMissingSignature
	}

	unsigned := make(map[string]string, len(fields))
	for k, v := range fields {
		if k == signatureField {
			continue
		}
		unsigned[k] = v
	}

	want := a.sign(unsigned)
	if !hmac.Equal([]byte(got), []byte(want)) {
		return ErrBadSignature
	}

	return nil
}

// sign computes HMAC-SHA256 over the fields serialized as key=value pairs
// joined with '&' in ascending key order.
func (a *Adapter) sign(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}

	mac := hmac.New(sha256.New, []byte(a.cfg.Secret))
	mac.Write([]byte(strings.Join(pairs, "&")))

	return hex.EncodeToString(mac.Sum(nil))
}
