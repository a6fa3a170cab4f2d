package controller

import (
	"encoding/json"
	"net/http"

	"github.com/finpay/payments/src/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("write json response failed", err, nil)
	}
}
