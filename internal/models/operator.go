package models

import "time"

// Operator is a person responsible for one or more bins. Bins reference
// operators by id; a dangling operatorId is tolerated and rendered as
// unassigned.
type Operator struct {
	Name         string    `json:"name" firestore:"name"`
	Email        string    `json:"email" firestore:"email"`
	Phone        string    `json:"phone" firestore:"phone"`
	AssignedBins []string  `json:"assignedBins" firestore:"assignedBins"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty" firestore:"updatedAt"`
}

// CreateOperatorRequest is the request body for POST /operators.
type CreateOperatorRequest struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	AssignedBins []string `json:"assignedBins"`
}

// UpdateOperatorRequest is the request body for PUT /operators/{id}. Empty
// fields keep their existing values.
type UpdateOperatorRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	AssignedBins []string `json:"assignedBins"`
}
