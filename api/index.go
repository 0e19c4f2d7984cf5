package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/tserv/shift-control/pkg/app"
	"github.com/tserv/shift-control/pkg/config"
	"github.com/tserv/shift-control/pkg/logger"
)

var (
	once    sync.Once
	router  http.Handler
	initErr error
)

func setup() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	zlog, err := logger.New(cfg.LogLevel, "")
	if err != nil {
		initErr = err
		return
	}
	a, err := app.New(context.Background(), cfg, zlog)
	if err != nil {
		initErr = err
		return
	}
	router = a.Router
}

// Handler is the entry point for the Vercel Go runtime
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "service misconfigured: " + initErr.Error()})
		return
	}
	router.ServeHTTP(w, r)
}
