package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alvaro-reta/solari-market/internal/apperror"
	"github.com/alvaro-reta/solari-market/internal/service"
)

// OfferHandler exposes offer creation, the offer inbox, and the
// accept/reject decision endpoint.
type OfferHandler struct {
	offers *service.OfferService
	logger *slog.Logger
}

func NewOfferHandler(offers *service.OfferService, logger *slog.Logger) *OfferHandler {
	return &OfferHandler{offers: offers, logger: logger}
}

type createOfferRequest struct {
	ItemID  string `json:"itemId"`
	Amount  int    `json:"amount"`
	Message string `json:"message"`
}

type respondOfferRequest struct {
	Status string `json:"status"`
}

// HandleCreate places an offer on an item.
//
// HTTP: POST /api/offers
// REQUEST BODY: {"itemId","amount","message"}
func (h *OfferHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid offer JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	offer, err := h.offers.Create(r.Context(), user, req.ItemID, req.Amount, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"offer": offer})
}

// HandleMyOffers returns the caller's offer inbox.
//
// HTTP: GET /api/offers/my-offers?type=sent|received
// Without a type, both directions are returned.
func (h *OfferHandler) HandleMyOffers(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	views, err := h.offers.MyOffers(r.Context(), user.ID, r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"offers": views,
		"count":  len(views),
	})
}

// HandleRespond accepts or rejects a pending offer. Accepting settles the
// trade: item marked sold, stock decremented, solari moved from buyer to
// seller.
//
// HTTP: PUT /api/offers/{id}
// REQUEST BODY: {"status": "accepted"} or {"status": "rejected"}
//
// A partial settlement is logged at Error level before the response goes
// out; that log line plus the offer ID is what an operator needs to repair
// the sheet by hand.
func (h *OfferHandler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req respondOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid offer response JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	offer, err := h.offers.Respond(r.Context(), user, r.PathValue("id"), req.Status)
	if err != nil {
		if errors.Is(err, apperror.ErrPartialSettlement) {
			h.logger.Error("settlement left inconsistent state",
				slog.String("offerID", r.PathValue("id")),
				slog.String("error", err.Error()),
			)
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"offer": offer})
}
