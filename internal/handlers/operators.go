package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"smartbin-backend/internal/models"
	"smartbin-backend/internal/store"
	"smartbin-backend/pkg/utils"
)

func GetOperators(st store.Store, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		operators, err := st.Operators(r.Context())
		if err != nil {
			log.Errorf("Error fetching operators: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch operators")
			return
		}
		utils.Success(w, operators)
	}
}

func GetOperator(st store.Store, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		op, err := st.Operator(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Operator not found")
			return
		}
		if err != nil {
			log.Errorf("Error fetching operator %s: %v", id, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch operator")
			return
		}
		utils.Success(w, op)
	}
}

// CreateOperator registers an operator; id, name and email are required.
func CreateOperator(st store.Store, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateOperatorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.ID == "" || req.Name == "" || req.Email == "" {
			utils.Error(w, http.StatusBadRequest, "Missing required fields")
			return
		}

		op := models.Operator{
			Name:         req.Name,
			Email:        req.Email,
			Phone:        req.Phone,
			AssignedBins: req.AssignedBins,
			CreatedAt:    time.Now(),
		}
		if op.AssignedBins == nil {
			op.AssignedBins = []string{}
		}

		if err := st.PutOperator(r.Context(), req.ID, op); err != nil {
			log.Errorf("Error creating operator %s: %v", req.ID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to create operator")
			return
		}
		utils.Success(w, map[string]interface{}{
			"message":  "Operator created successfully",
			"operator": op,
		})
	}
}

// UpdateOperator merges non-empty request fields over the stored record.
func UpdateOperator(st store.Store, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req models.UpdateOperatorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		op, err := st.Operator(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Operator not found")
			return
		}
		if err != nil {
			log.Errorf("Error loading operator %s: %v", id, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to update operator")
			return
		}

		if req.Name != "" {
			op.Name = req.Name
		}
		if req.Email != "" {
			op.Email = req.Email
		}
		if req.Phone != "" {
			op.Phone = req.Phone
		}
		if req.AssignedBins != nil {
			op.AssignedBins = req.AssignedBins
		}
		op.UpdatedAt = time.Now()

		if err := st.PutOperator(r.Context(), id, op); err != nil {
			log.Errorf("Error updating operator %s: %v", id, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to update operator")
			return
		}
		utils.Success(w, map[string]interface{}{
			"message":  "Operator updated successfully",
			"operator": op,
		})
	}
}

func DeleteOperator(st store.Store, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := st.DeleteOperator(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Operator not found")
			return
		}
		if err != nil {
			log.Errorf("Error deleting operator %s: %v", id, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to delete operator")
			return
		}
		utils.Success(w, map[string]string{"message": "Operator deleted successfully"})
	}
}
