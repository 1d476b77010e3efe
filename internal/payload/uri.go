package payload

import (
	"net/url"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/AlexZinkM/scan-wallet/internal/common"
	"github.com/AlexZinkM/scan-wallet/internal/model"
)

// PaymentURI is a parsed BIP21 payment request
type PaymentURI struct {
	Address btcutil.Address
	Amount  *uint64 // satoshi, nil when not requested
	Label   string
	Message string
	Extra   map[string]string // optional parameters this wallet does not interpret
}

// Addressee converts the URI into a transaction addressee
func (u *PaymentURI) Addressee() model.Addressee {
	return model.Addressee{
		Address: u.Address.EncodeAddress(),
		Satoshi: u.Amount,
		Label:   u.Label,
		Message: u.Message,
	}
}

// ParseURI parses a bitcoin: payment URI for params' network.
// Address problems are reported as InvalidAddress, a WIF key for another
// network as InvalidPrivateKey, everything else as InvalidURI.
func ParseURI(uri string, params *chaincfg.Params) (*PaymentURI, error) {
	if !HasURIPrefix(uri) {
		return nil, model.NewBuildError(model.KindInvalidURI, "payment URI must start with %s", URIPrefix)
	}

	rest := uri[len(URIPrefix):]
	addrPart, query, _ := strings.Cut(rest, "?")
	addrPart = strings.TrimPrefix(addrPart, "//")
	if addrPart == "" {
		return nil, model.NewBuildError(model.KindInvalidAddress, "payment URI has no address")
	}

	// The address part is never quoted back: a scanned key that failed to
	// decode for this network ends up here and must not reach logs or responses.
	addr, err := btcutil.DecodeAddress(addrPart, params)
	if err != nil {
		if _, wifErr := btcutil.DecodeWIF(addrPart); wifErr == nil {
			return nil, model.NewBuildError(model.KindInvalidPrivateKey, "private key is not for %s", params.Name)
		}
		return nil, model.NewBuildError(model.KindInvalidAddress, "invalid address for %s", params.Name)
	}
	if !addr.IsForNet(params) {
		return nil, model.NewBuildError(model.KindInvalidAddress, "address is not for %s", params.Name)
	}

	values, err := parseQuery(query)
	if err != nil {
		return nil, model.NewBuildError(model.KindInvalidURI, "malformed query: %v", err)
	}

	parsed := &PaymentURI{Address: addr}
	for key, vals := range values {
		if len(vals) > 1 {
			return nil, model.NewBuildError(model.KindInvalidURI, "parameter %q given more than once", key)
		}
		val := vals[0]

		switch key {
		case "amount":
			sat, err := common.BTCToSatoshi(val)
			if err != nil {
				return nil, model.NewBuildError(model.KindInvalidURI, "invalid amount %q: %v", val, err)
			}
			if sat == 0 {
				return nil, model.NewBuildError(model.KindInvalidURI, "amount must be positive")
			}
			parsed.Amount = &sat
		case "label":
			parsed.Label = val
		case "message":
			parsed.Message = val
		default:
			// req- parameters must be understood or the URI rejected
			if strings.HasPrefix(key, "req-") {
				return nil, model.NewBuildError(model.KindInvalidURI, "unsupported required parameter %q", key)
			}
			if parsed.Extra == nil {
				parsed.Extra = make(map[string]string)
			}
			parsed.Extra[key] = val
		}
	}

	return parsed, nil
}

// parseQuery splits a BIP21 query. Values are percent-decoded only:
// unlike form encoding, '+' is a literal plus.
func parseQuery(query string) (url.Values, error) {
	values := make(url.Values)
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(pair, "=")
		key, err := url.PathUnescape(rawKey)
		if err != nil {
			return nil, err
		}
		val, err := url.PathUnescape(rawVal)
		if err != nil {
			return nil, err
		}
		values[key] = append(values[key], val)
	}
	return values, nil
}

// FormatURI encodes a payment URI for address with optional amount, label and message.
func FormatURI(address string, amount *uint64, label, message string) string {
	params := make(map[string]string)
	if amount != nil {
		params["amount"] = strings.TrimRight(strings.TrimRight(common.SatoshiToBTC(*amount), "0"), ".")
	}
	if label != "" {
		params["label"] = label
	}
	if message != "" {
		params["message"] = message
	}
	if len(params) == 0 {
		return URIPrefix + address
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		// BIP21 wants %20 for spaces, QueryEscape produces '+'
		parts = append(parts, k+"="+strings.ReplaceAll(url.QueryEscape(params[k]), "+", "%20"))
	}
	return URIPrefix + address + "?" + strings.Join(parts, "&")
}
