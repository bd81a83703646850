package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"placebook-server/middleware"
	"placebook-server/models"
	"placebook-server/services"
	"placebook-server/utils/errors"
)

type PlaceHandler struct {
	placeService *services.PlaceService
}

func NewPlaceHandler(placeService *services.PlaceService) *PlaceHandler {
	return &PlaceHandler{placeService: placeService}
}

func (h *PlaceHandler) GetPlaceByID(w http.ResponseWriter, r *http.Request) {
	placeID := mux.Vars(r)["pid"]

	place, err := h.placeService.GetByID(r.Context(), placeID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*models.Place{"place": place})
}

func (h *PlaceHandler) GetPlacesByUserID(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["uid"]

	places, err := h.placeService.ListByCreator(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]models.Place{"places": places})
}

func (h *PlaceHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	var input services.CreatePlaceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	place, err := h.placeService.Create(r.Context(), input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*models.Place{"place": place})
}

func (h *PlaceHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	placeID := mux.Vars(r)["pid"]

	var input services.UpdatePlaceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	place, err := h.placeService.Update(r.Context(), placeID, input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*models.Place{"place": place})
}

func (h *PlaceHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	placeID := mux.Vars(r)["pid"]

	if err := h.placeService.Delete(r.Context(), placeID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Place deleted successfully"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
