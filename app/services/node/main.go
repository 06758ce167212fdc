package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/coinledger/blockchain/app/services/node/handlers"
	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/blockchain/database/storage/disk"
	"github.com/coinledger/blockchain/foundation/blockchain/peer"
	"github.com/coinledger/blockchain/foundation/blockchain/state"
	"github.com/coinledger/blockchain/foundation/blockchain/worker"
	"github.com/coinledger/blockchain/foundation/events"
	"github.com/coinledger/blockchain/foundation/logger"
	"github.com/coinledger/blockchain/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
			PrivateHost     string        `conf:"default:0.0.0.0:9080"`
		}
		State struct {
			MinerName    string        `conf:"default:miner1"`
			NodeID       string        `conf:"default:9080"`
			DBPath       string        `conf:"default:zledger/"`
			KnownPeers   []string      `conf:"default:0.0.0.0:9080;0.0.0.0:9180"`
			RelayTimeout time.Duration `conf:"default:5s"`
		}
		NameService struct {
			Folder string `conf:"default:zledger/accounts/"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "proof of work ledger node",
		},
	}

	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Name Service Support

	// The nameservice package provides name resolution for account addresses.
	// The names come from the file names in the accounts folder.
	ns, err := nameservice.New(cfg.NameService.Folder)
	if err != nil {
		return fmt.Errorf("unable to load account name service: %w", err)
	}

	for accountID, name := range ns.Copy() {
		log.Infow("startup", "status", "nameservice", "name", name, "account", accountID)
	}

	// =========================================================================
	// Ledger Support

	// Load the private key file for the configured miner so the account can
	// get credited with mining rewards. A node without a key still serves
	// queries and accepts peer blocks, it just can't mine.
	var beneficiaryID database.AccountID
	path := fmt.Sprintf("%s%s.ecdsa", cfg.NameService.Folder, cfg.State.MinerName)
	privateKey, err := crypto.LoadECDSA(path)
	switch {
	case err != nil:
		log.Infow("startup", "status", "no mining identity, mining disabled", "path", path, "ERROR", err)
	default:
		beneficiaryID = database.PublicKeyToAccountID(privateKey.PublicKey)
		log.Infow("startup", "status", "mining identity loaded", "account", beneficiaryID)
	}

	// A peer set is a collection of known nodes in the network so
	// transactions and blocks can be shared.
	peerSet := peer.NewPeerSet()
	for _, host := range cfg.State.KnownPeers {
		peerSet.Add(peer.New(host))
	}

	// The ledger packages accept a function of this signature to allow the
	// application to log. These raw messages are also sent to any websocket
	// client that is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// The snapshot of the ledger is persisted to disk on every mutation.
	strg, err := disk.New(cfg.State.DBPath, cfg.State.NodeID)
	if err != nil {
		return fmt.Errorf("unable to open ledger storage: %w", err)
	}

	// The state value represents the ledger node and provides an API for
	// application support.
	st, err := state.New(state.Config{
		BeneficiaryID: beneficiaryID,
		Host:          cfg.Web.PrivateHost,
		Storage:       strg,
		KnownPeers:    peerSet,
		EvHandler:     ev,
		RelayTimeout:  cfg.State.RelayTimeout,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	// The worker package implements the mining and conflict resolution
	// workflows. The worker will register itself with the state.
	worker.Run(st, ev)

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug router started", "host", cfg.Web.DebugHost)

	// Not concerned with shutting this down with load shedding.
	debugMux := handlers.DebugMux(build, log)
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the
	// OS. Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		NS:       ns,
		Evts:     evts,
	})

	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Start Private Service

	log.Infow("startup", "status", "initializing V1 private API support")

	privateMux := handlers.PrivateMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		NS:       ns,
	})

	private := http.Server{
		Addr:         cfg.Web.PrivateHost,
		Handler:      privateMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "private api router started", "host", private.Addr)
		serverErrors <- private.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancelPri := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPri()

		log.Infow("shutdown", "status", "shutdown private API started")
		if err := private.Shutdown(ctx); err != nil {
			private.Close()
			return fmt.Errorf("could not stop private service gracefully: %w", err)
		}

		ctx, cancelPub := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPub()

		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}
