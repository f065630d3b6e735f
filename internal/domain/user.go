package domain

import "time"

// User represents a registered user in the system. The UID is the subject
// claim issued by the external identity provider; accounts are provisioned
// lazily on first authenticated request.
type User struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Role        string    `json:"role"`
	Verified    bool      `json:"verified"`
	IsFraud     bool      `json:"is_fraud"`
	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}
