package controllers

import (
	"net/http"
	"strconv"

	"github.com/provenly/custody-backend/api/responses"
	"github.com/provenly/custody-backend/internal/events"
	pkgerrors "github.com/provenly/custody-backend/pkg/errors"
	"github.com/provenly/custody-backend/pkg/logger"
)

const defaultEventPageSize = 100

// ListEvents streams the audit trail. The log carries no secret data, so
// this endpoint is public by design.
func ListEvents(log *events.Log, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var afterSeq uint64
		if raw := r.URL.Query().Get("after"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid after cursor"))
				return
			}
			afterSeq = parsed
		}

		limit := defaultEventPageSize
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid limit"))
				return
			}
			limit = parsed
		}

		entries := log.List(afterSeq, limit)
		responses.WriteSuccess(w, map[string]any{
			"events": entries,
			"total":  log.Len(),
		})
	}
}
