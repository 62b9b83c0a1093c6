package models

// Customer represents a CRM contact as stored in the customers table.
type Customer struct {
	CustomerID string `json:"customerID" db:"customer_id"` // Primary Key (UUID)
	Name       string `json:"name" db:"name"`
	DocumentID string `json:"documentID" db:"document_id"` // Nullable
	Phone      string `json:"phone" db:"phone"`            // Nullable
	Email      string `json:"email" db:"email"`            // Nullable
	Address    string `json:"address" db:"address"`        // Nullable
	IsActive   bool   `json:"isActive" db:"is_active"`
	AuditFields
}
