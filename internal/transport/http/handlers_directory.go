package httptransport

import (
	"net/http"

	"alumnet/pkg/platform/httputil"
)

type identityResponse struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	KeyMaterial string `json:"key_material"`
}

// handleListUsers returns the identity directory. Key material appears here
// so senders can address mailboxes; verification material never does.
func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	identities, err := h.directory.ListIdentities(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]identityResponse, 0, len(identities))
	for _, ident := range identities {
		out = append(out, identityResponse{
			UserID:      ident.ID.String(),
			Name:        ident.Name,
			Role:        ident.Role.String(),
			KeyMaterial: ident.KeyMaterial,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
