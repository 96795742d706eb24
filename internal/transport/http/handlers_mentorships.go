package httptransport

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"alumnet/internal/mentorship"
	"alumnet/internal/relyingparty"
	id "alumnet/pkg/domain"
	"alumnet/pkg/platform/httputil"
	"alumnet/pkg/requestcontext"
)

type requestMentorshipRequest struct {
	MentorID string `json:"mentor_id"`
	Topic    string `json:"topic"`
}

type mentorshipResponse struct {
	MentorshipID string     `json:"mentorship_id"`
	StudentID    string     `json:"student_id"`
	MentorID     string     `json:"mentor_id"`
	Topic        string     `json:"topic"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
}

func toMentorshipResponse(m *mentorship.Mentorship) mentorshipResponse {
	resp := mentorshipResponse{
		MentorshipID: m.ID.String(),
		StudentID:    m.StudentID.String(),
		MentorID:     m.MentorID.String(),
		Topic:        m.Topic,
		Status:       string(m.Status),
		CreatedAt:    m.CreatedAt,
	}
	if !m.DecidedAt.IsZero() {
		decided := m.DecidedAt
		resp.DecidedAt = &decided
	}
	return resp
}

func (h *Handler) handleRequestMentorship(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.rp.Authorize(ctx, requestcontext.SessionID(ctx), relyingparty.ResourceMentorship, relyingparty.VerbCreate)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, err := httputil.Decode[requestMentorshipRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	mentorID, err := id.ParseUserID(req.MentorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	m, err := h.mentorships.Request(ctx, session.UserID, mentorID, req.Topic)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toMentorshipResponse(m))
}

func (h *Handler) handleListMentorships(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.rp.Authorize(ctx, requestcontext.SessionID(ctx), relyingparty.ResourceMentorship, relyingparty.VerbView)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	items, err := h.mentorships.ListForUser(ctx, session.UserID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]mentorshipResponse, 0, len(items))
	for _, m := range items {
		out = append(out, toMentorshipResponse(m))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleApproveMentorship(w http.ResponseWriter, r *http.Request) {
	h.decideMentorship(w, r, h.mentorships.Approve)
}

func (h *Handler) handleRejectMentorship(w http.ResponseWriter, r *http.Request) {
	h.decideMentorship(w, r, h.mentorships.Reject)
}

func (h *Handler) decideMentorship(
	w http.ResponseWriter,
	r *http.Request,
	decide func(ctx context.Context, decider id.UserID, mentorshipID id.MentorshipID) (*mentorship.Mentorship, error),
) {
	ctx := r.Context()
	session, err := h.rp.Authorize(ctx, requestcontext.SessionID(ctx), relyingparty.ResourceMentorship, relyingparty.VerbApprove)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	mentorshipID, err := id.ParseMentorshipID(chi.URLParam(r, "mentorshipID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	m, err := decide(ctx, session.UserID, mentorshipID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toMentorshipResponse(m))
}
