package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/AlexZinkM/scan-wallet/docs"
	"github.com/AlexZinkM/scan-wallet/internal/handler"
	"github.com/AlexZinkM/scan-wallet/internal/metrics"
)

// SetupRouter sets up router with handlers
func SetupRouter(bitcoinHandler *handler.BitcoinHandler) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Prometheus
	mux.Handle("/metrics", metrics.Handler())

	// Bitcoin endpoints
	routes := map[string]http.HandlerFunc{
		"/bitcoin/generate": bitcoinHandler.Generate,
		"/bitcoin/receive":  bitcoinHandler.Receive,
		"/bitcoin/balance":  bitcoinHandler.GetBalance,
		"/bitcoin/fees":     bitcoinHandler.GetFees,
		"/bitcoin/utxos":    bitcoinHandler.UTXOs,
		"/bitcoin/classify": bitcoinHandler.Classify,
		"/bitcoin/scan":     bitcoinHandler.Scan,
		"/bitcoin/sweep":    bitcoinHandler.Sweep,
		"/bitcoin/uri":      bitcoinHandler.PayURI,
	}
	for path, h := range routes {
		mux.HandleFunc(path, metrics.HTTPMiddleware(path, h))
	}

	return mux
}
