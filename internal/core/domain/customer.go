package domain

// Customer represents a CRM contact a sale can be posted against.
type Customer struct {
	CustomerID string `json:"customerID"` // Primary Key (UUID)
	Name       string `json:"name"`
	DocumentID string `json:"documentID"` // Tax/identity document, nullable
	Phone      string `json:"phone"`      // Nullable
	Email      string `json:"email"`      // Nullable
	Address    string `json:"address"`    // Nullable
	IsActive   bool   `json:"isActive"`
	AuditFields
}
