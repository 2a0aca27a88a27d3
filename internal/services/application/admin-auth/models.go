// internal/services/application/admin-auth/models.go
package adminauth

// Credentials is the body of the export and listing requests.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
