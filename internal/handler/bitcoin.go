package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/AlexZinkM/scan-wallet/bitcoin"
	"github.com/AlexZinkM/scan-wallet/internal/hdwallet"
	"github.com/AlexZinkM/scan-wallet/internal/model"
)

// PasswordFunc returns a copy of the wallet password; the caller zeroes it after use
type PasswordFunc func() ([]byte, error)

// BitcoinHandler serves the wallet and scan endpoints
type BitcoinHandler struct {
	wallet   *bitcoin.Wallet
	password PasswordFunc
	log      logrus.FieldLogger
}

// NewBitcoinHandler creates a new BitcoinHandler
func NewBitcoinHandler(wallet *bitcoin.Wallet, password PasswordFunc, log logrus.FieldLogger) (*BitcoinHandler, error) {
	if wallet == nil {
		return nil, errors.New("wallet not set")
	}
	if password == nil {
		return nil, errors.New("password source not set")
	}
	return &BitcoinHandler{wallet: wallet, password: password, log: log}, nil
}

// Generate handles POST /bitcoin/generate
// @Summary      Generate new wallet
// @Description  Generates a new BIP84 HD wallet and saves it to the .cwt file
// @Tags         bitcoin
// @Produce      json
// @Success      200  {object}  model.GenerateResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /bitcoin/generate [post]
func (h *BitcoinHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. should be POST", http.StatusMethodNotAllowed)
		return
	}

	// Get password as []byte, use it, then zero it immediately
	passwordBytes, err := h.password()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer clear(passwordBytes) // Always clear password from memory

	address, err := h.wallet.Generate(passwordBytes)
	if err != nil {
		if bitcoin.IsFileExistsError(err) {
			writeError(w, http.StatusConflict, err)
			return
		}
		h.log.WithError(err).Error("failed to generate wallet")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, model.GenerateResponse{
		Success: true,
		Message: "Wallet generated successfully",
		Address: address,
	})
}

// Receive handles GET /bitcoin/receive
// @Summary      Get receive address
// @Description  Gets the receive address of a subaccount with its BIP21 URI and QR code
// @Tags         bitcoin
// @Produce      json
// @Param        subaccount  query     int  false  "Subaccount (default 0)"
// @Success      200         {object}  model.ReceiveResponse
// @Failure      400         {object}  model.ErrorResponse
// @Router       /bitcoin/receive [get]
func (h *BitcoinHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	subaccount, err := parseSubaccount(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.wallet.Receive(r.Context(), subaccount)
	if err != nil {
		writeError(w, walletErrorStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetBalance handles GET /bitcoin/balance
// @Summary      Get subaccount balance
// @Description  Gets confirmed and unconfirmed balance of a subaccount with the fiat value
// @Tags         bitcoin
// @Produce      json
// @Param        subaccount  query     int  false  "Subaccount (default 0)"
// @Success      200         {object}  model.BitcoinBalanceResponse
// @Router       /bitcoin/balance [get]
func (h *BitcoinHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	subaccount, err := parseSubaccount(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	balance, err := h.wallet.GetBalance(r.Context(), subaccount)
	if err != nil {
		writeError(w, walletErrorStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, balance)
}

// GetFees handles GET /bitcoin/fees
// @Summary      Get fee tiers
// @Description  Gets current fee rates in sat/vbyte, lowest tier first
// @Tags         bitcoin
// @Produce      json
// @Success      200  {object}  model.FeesResponse
// @Router       /bitcoin/fees [get]
func (h *BitcoinHandler) GetFees(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	fees, err := h.wallet.GetFees(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, fees)
}

// UTXOs handles GET /bitcoin/utxos
// @Summary      Get unspent outputs
// @Description  Gets unspent outputs of a subaccount with filtering capability
// @Tags         bitcoin
// @Produce      json
// @Param        subaccount  query     int     false  "Subaccount (default 0)"
// @Param        txId        query     string  false  "Transaction ID"
// @Param        minSatoshi  query     int     false  "Minimum value in satoshi"
// @Param        maxSatoshi  query     int     false  "Maximum value in satoshi"
// @Param        confirmed   query     bool    false  "Only confirmed (true) or unconfirmed (false) outputs"
// @Param        change      query     bool    false  "Only change (true) or receive (false) outputs"
// @Success      200         {object}  model.UTXOResponse
// @Router       /bitcoin/utxos [get]
func (h *BitcoinHandler) UTXOs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	var req model.UTXORequest
	var err error

	query := r.URL.Query()
	if req.Subaccount, err = parseSubaccount(r); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Parse txId
	if txID := query.Get("txId"); txID != "" {
		req.TxID = &txID
	}

	// Parse amounts
	if req.MinSatoshi, err = parseOptionalUint(query.Get("minSatoshi")); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid minSatoshi"))
		return
	}
	if req.MaxSatoshi, err = parseOptionalUint(query.Get("maxSatoshi")); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid maxSatoshi"))
		return
	}

	// Parse flags
	if req.Confirmed, err = parseOptionalBool(query.Get("confirmed")); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid confirmed flag"))
		return
	}
	if req.Change, err = parseOptionalBool(query.Get("change")); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid change flag"))
		return
	}

	// Validate
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.wallet.GetUTXOs(r.Context(), &req)
	if err != nil {
		writeError(w, walletErrorStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Classify handles POST /bitcoin/classify
// @Summary      Classify scanned text
// @Description  Tags text as a private key or a payment URI, bare addresses get the bitcoin: prefix
// @Tags         bitcoin
// @Accept       json
// @Produce      json
// @Param        request  body      model.ClassifyRequest  true  "Scanned text"
// @Success      200      {object}  model.ScannedPayload
// @Router       /bitcoin/classify [post]
func (h *BitcoinHandler) Classify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, h.wallet.Classify(req.Text))
}

// Scan handles POST /bitcoin/scan
// @Summary      Build a transaction from scanned text
// @Description  Classifies the text, then sweeps a private key into the subaccount or builds a payment from a URI
// @Tags         bitcoin
// @Accept       json
// @Produce      json
// @Param        request  body      model.ScanRequest  true  "Scanned text"
// @Success      200      {object}  model.TransactionResult
// @Failure      422      {object}  model.TransactionResult
// @Router       /bitcoin/scan [post]
func (h *BitcoinHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	scanner, err := h.wallet.Scanner()
	if err != nil {
		writeError(w, walletErrorStatus(err), err)
		return
	}

	writeResult(w, scanner.OnInserted(r.Context(), req.Text, req.Subaccount))
}

// Sweep handles POST /bitcoin/sweep
// @Summary      Sweep a private key
// @Description  Builds a signed transaction moving all funds of a private key into the subaccount's receive address
// @Tags         bitcoin
// @Accept       json
// @Produce      json
// @Param        request  body      model.SweepKeyRequest  true  "Private key (WIF or mini key)"
// @Success      200      {object}  model.TransactionResult
// @Failure      422      {object}  model.TransactionResult
// @Router       /bitcoin/sweep [post]
func (h *BitcoinHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.SweepKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.FeeTier != nil && *req.FeeTier < 0 {
		writeError(w, http.StatusBadRequest, errors.New("feeTier cannot be negative"))
		return
	}

	scanner, err := h.wallet.Scanner()
	if err != nil {
		writeError(w, walletErrorStatus(err), err)
		return
	}

	tier := scanner.FeeTier()
	if req.FeeTier != nil {
		tier = *req.FeeTier
	}

	writeResult(w, scanner.Sweep(r.Context(), req.PrivateKey, req.Subaccount, tier))
}

// PayURI handles POST /bitcoin/uri
// @Summary      Build a payment from a BIP21 URI
// @Description  Builds an unsigned PSBT funded by the subaccount, or returns the addressee when the URI has no amount
// @Tags         bitcoin
// @Accept       json
// @Produce      json
// @Param        request  body      model.URIRequest  true  "Payment URI"
// @Success      200      {object}  model.TransactionResult
// @Failure      422      {object}  model.TransactionResult
// @Router       /bitcoin/uri [post]
func (h *BitcoinHandler) PayURI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.URIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	scanner, err := h.wallet.Scanner()
	if err != nil {
		writeError(w, walletErrorStatus(err), err)
		return
	}

	writeResult(w, scanner.Pay(r.Context(), req.URI, req.Subaccount))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

// writeResult answers a failed build with 422 and the result body
func writeResult(w http.ResponseWriter, result model.TransactionResult) {
	if result.OK() {
		writeJSON(w, http.StatusOK, result)
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, result)
}

func walletErrorStatus(err error) int {
	switch {
	case errors.Is(err, bitcoin.ErrNoWallet):
		return http.StatusNotFound
	case errors.Is(err, hdwallet.ErrUnknownSubaccount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseSubaccount(r *http.Request) (uint32, error) {
	raw := r.URL.Query().Get("subaccount")
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.New("invalid subaccount")
	}
	return uint32(v), nil
}

func parseOptionalUint(raw string) (*uint64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseOptionalBool(raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
