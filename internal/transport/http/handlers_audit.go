package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"alumnet/internal/audit"
	dErrors "alumnet/pkg/domain-errors"
	"alumnet/pkg/platform/httputil"
)

type auditEntryResponse struct {
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// handleListAuditLog serves the audit trail to operators. Optional ?limit=N
// returns only the most recent N entries.
func (h *Handler) handleListAuditLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		entries []audit.Entry
		err     error
	)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, convErr := strconv.Atoi(raw)
		if convErr != nil || limit <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer"))
			return
		}
		entries, err = h.auditStore.ListRecent(ctx, limit)
	} else {
		entries, err = h.auditStore.ListAll(ctx)
	}
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit trail"))
		return
	}

	out := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryResponse{
			ActorID:   e.ActorID,
			Action:    string(e.Action),
			Details:   e.Details,
			Timestamp: e.Timestamp,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
