package httptransport

import (
	"net/http"
	"time"

	"alumnet/internal/referral"
	"alumnet/internal/relyingparty"
	"alumnet/pkg/platform/httputil"
	"alumnet/pkg/requestcontext"
)

type postReferralRequest struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Description string `json:"description"`
}

type referralResponse struct {
	ReferralID  string    `json:"referral_id"`
	PosterID    string    `json:"poster_id"`
	Company     string    `json:"company"`
	Role        string    `json:"role"`
	Description string    `json:"description"`
	PostedAt    time.Time `json:"posted_at"`
	IntegrityOK bool      `json:"integrity_ok"`
}

func (h *Handler) handlePostReferral(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.rp.Authorize(ctx, requestcontext.SessionID(ctx), relyingparty.ResourceReferrals, relyingparty.VerbCreate)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, err := httputil.Decode[postReferralRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ref, err := h.referrals.Post(ctx, session.UserID, referral.PostInput{
		Company:     req.Company,
		Role:        req.Role,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, referralResponse{
		ReferralID:  ref.ID.String(),
		PosterID:    ref.PosterID.String(),
		Company:     ref.Company,
		Role:        ref.Role,
		Description: ref.Description,
		PostedAt:    ref.PostedAt,
		IntegrityOK: true,
	})
}

func (h *Handler) handleListReferrals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, err := h.rp.Authorize(ctx, requestcontext.SessionID(ctx), relyingparty.ResourceReferrals, relyingparty.VerbView)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	listings, err := h.referrals.List(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]referralResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, referralResponse{
			ReferralID:  l.ID.String(),
			PosterID:    l.PosterID.String(),
			Company:     l.Company,
			Role:        l.Role,
			Description: l.Description,
			PostedAt:    l.PostedAt,
			IntegrityOK: l.IntegrityOK,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
