// @title        Scan Wallet API
// @version      1.0
// @description  Local Bitcoin wallet: sweeps scanned private keys and builds payments from BIP21 URIs.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AlexZinkM/scan-wallet/bitcoin"
	"github.com/AlexZinkM/scan-wallet/internal/api"
	"github.com/AlexZinkM/scan-wallet/internal/client"
	"github.com/AlexZinkM/scan-wallet/internal/common"
	"github.com/AlexZinkM/scan-wallet/internal/config"
	"github.com/AlexZinkM/scan-wallet/internal/handler"
	"github.com/AlexZinkM/scan-wallet/internal/logger"
	"github.com/AlexZinkM/scan-wallet/internal/metrics"
	"github.com/AlexZinkM/scan-wallet/internal/model"
	"github.com/AlexZinkM/scan-wallet/internal/utxo"
)

func main() {
	if err := config.Init(); err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatalf("failed to create logger: %v", err)
	}

	metrics.Register(log)

	params, err := common.NetworkParams(config.GetNetwork())
	if err != nil {
		log.Fatalf("invalid network: %v", err)
	}

	blockchair, err := client.NewBlockchairClient(cfg.BlockchairURL, params)
	if err != nil {
		log.Fatalf("failed to create blockchair client: %v", err)
	}

	if err := config.PromptForPassword(); err != nil {
		log.Fatalf("failed to read password: %v", err)
	}

	wallet, err := bitcoin.NewWallet(bitcoin.Options{
		FilePath:     config.GetFilePath(),
		Params:       params,
		Subaccounts:  cfg.Subaccounts,
		GapLimit:     cfg.GapLimit,
		FeeTier:      cfg.FeeTier,
		FiatCurrency: cfg.FiatCurrency,
		WatchOnly:    cfg.WatchOnly,
		ScanCooldown: config.GetScanCooldown(),
		Concurrency:  utxo.DefaultConcurrency,
		Chain:        blockchair,
		Fees:         client.NewMempoolClient(cfg.MempoolURL),
		Rates:        client.NewCoinGeckoClient(cfg.CoinGeckoURL),
		OnRetry:      func(err *model.BuildError) {
			log.WithField("kind", err.Kind).Info("scanner ready for the next scan")
		},
	}, log)
	if err != nil {
		log.Fatalf("failed to create wallet: %v", err)
	}

	bitcoinHandler, err := handler.NewBitcoinHandler(wallet, config.GetPasswordBytes, log)
	if err != nil {
		log.Fatalf("failed to create handler: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           api.SetupRouter(bitcoinHandler),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":    config.GetPort(),
			"network": params.Name,
		}).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("server shutdown failed: %v", err)
		srv.Close()
	}

	log.Info("server gracefully stopped")
}
