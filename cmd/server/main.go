package main

import (
	"flag"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	baselock "github.com/baselock/baselock-go"
	"github.com/baselock/baselock-go/config"
	"github.com/baselock/baselock-go/evm"
	"github.com/baselock/baselock-go/internal/api"
	"github.com/baselock/baselock-go/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config error", "error", err)
		os.Exit(1)
	}

	st := initStore(cfg, logger)
	defer st.Close()

	contract := common.HexToAddress(cfg.Chain.ContractAddress)
	client, err := evm.Dial(cfg.Chain.RPCURL, contract,
		evm.WithFromBlock(cfg.Chain.FromBlock),
		evm.WithTimeout(cfg.Chain.RequestTimeout),
	)
	if err != nil {
		logger.Error("rpc connection failed", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	rate, _ := new(big.Rat).SetString(cfg.Chain.NativeRate) // validated by config.Load
	gate, err := baselock.NewGate(&baselock.GateConfig{
		Store:         st,
		Source:        client,
		Authenticator: evm.Authenticator{},
		Decoder:       evm.Decoder{},
		Policy: &baselock.AmountPolicy{
			StableToken:    common.HexToAddress(cfg.Chain.StableToken),
			StableDecimals: cfg.Chain.StableDecimals,
			NativeRate:     rate,
		},
		ContractAddress: contract,
		Logger:          logger,
	})
	if err != nil {
		logger.Error("gate setup failed", "error", err)
		os.Exit(1)
	}

	handler, err := api.NewHandler(gate, st, evm.Authenticator{}, cfg, logger)
	if err != nil {
		logger.Error("handler setup failed", "error", err)
		os.Exit(1)
	}

	router := api.SetupRouter(handler, logger)

	logger.Info("server starting",
		"addr", cfg.Addr(),
		"store", cfg.Store.Type,
		"contract", contract.Hex(),
	)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func initStore(cfg *config.Config, logger *slog.Logger) store.Store {
	switch cfg.Store.Type {
	case "redis":
		st, err := store.NewRedisStore(&redis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		if err != nil {
			logger.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		return st
	default:
		return store.NewMemoryStore()
	}
}
