package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"smartbin-backend/internal/aggregator"
	"smartbin-backend/internal/models"
	"smartbin-backend/internal/store"
	"smartbin-backend/pkg/utils"
)

// GetBins returns the full merged bin map, triggering the aggregation side
// effects (alerts, weather check, broadcast).
func GetBins(svc *aggregator.Service, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bins, err := svc.ListBins(r.Context())
		if err != nil {
			log.Errorf("❌ Error fetching bins: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch bins")
			return
		}
		utils.Success(w, bins)
	}
}

func GetBin(svc *aggregator.Service, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		bin, err := svc.GetBin(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Bin not found")
			return
		}
		if err != nil {
			log.Errorf("Error fetching bin %s: %v", id, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch bin")
			return
		}
		utils.Success(w, bin)
	}
}

func GetBinHistory(svc *aggregator.Service, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		history, err := svc.BinHistory(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "History not found")
			return
		}
		if err != nil {
			log.Errorf("Error fetching history for %s: %v", id, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch history")
			return
		}
		utils.Success(w, history)
	}
}

// CreateBin registers a new bin configuration record.
func CreateBin(st store.Store, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateBinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.ID == "" {
			utils.Error(w, http.StatusBadRequest, "Bin ID is required")
			return
		}

		now := time.Now()
		bin := models.Bin{
			Name:       req.Name,
			Location:   req.Location,
			Capacity:   req.Capacity,
			OperatorID: req.OperatorID,
			Status:     req.Status,
			History:    []models.HistoryEntry{},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if bin.Name == "" {
			bin.Name = req.ID
		}
		if bin.Capacity == 0 {
			bin.Capacity = 50
		}
		if bin.Status == "" {
			bin.Status = "Active"
		}

		if err := st.PutBin(r.Context(), req.ID, bin); err != nil {
			log.Errorf("Error creating bin %s: %v", req.ID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to create bin")
			return
		}
		utils.Success(w, map[string]interface{}{
			"message": "Bin created successfully",
			"bin":     bin,
		})
	}
}

// UpdateBin merges non-empty request fields over the stored record.
func UpdateBin(st store.Store, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req models.UpdateBinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		bin, err := st.Bin(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Bin not found")
			return
		}
		if err != nil {
			log.Errorf("Error loading bin %s: %v", id, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to update bin")
			return
		}

		if req.Name != "" {
			bin.Name = req.Name
		}
		if req.Location != "" {
			bin.Location = req.Location
		}
		if req.Capacity != 0 {
			bin.Capacity = req.Capacity
		}
		if req.OperatorID != "" {
			bin.OperatorID = req.OperatorID
		}
		if req.Status != "" {
			bin.Status = req.Status
		}
		bin.UpdatedAt = time.Now()

		if err := st.PutBin(r.Context(), id, bin); err != nil {
			log.Errorf("Error updating bin %s: %v", id, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to update bin")
			return
		}
		utils.Success(w, map[string]interface{}{
			"message": "Bin updated successfully",
			"bin":     bin,
		})
	}
}

func DeleteBin(st store.Store, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := st.DeleteBin(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Bin not found")
			return
		}
		if err != nil {
			log.Errorf("Error deleting bin %s: %v", id, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to delete bin")
			return
		}
		utils.Success(w, map[string]string{"message": "Bin deleted successfully"})
	}
}
