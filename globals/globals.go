package globals

import (
	"context"
)

// JwtSecret signs both customer and admin tokens. Overwritten from config
// at startup.
var JwtSecret = []byte("change-me-in-production")

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const AdminIDKey ContextKey = "adminId"

var Ctx = context.Background()
