package proto

// Empty is the request or response of calls without payload.
type Empty struct{}

// Credentials are the email and password of SignUp and SignIn.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by SignUp, SignIn and Refresh.
type Session struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenRequest carries a refresh token for SignOut and Refresh.
type TokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// PathRequest addresses a record for Get, Remove and Watch.
type PathRequest struct {
	Path string `json:"path"`
}

// SetRequest carries the value of Set and Push. A null value deletes.
type SetRequest struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// UpdateRequest carries the children written by Update.
type UpdateRequest struct {
	Path   string         `json:"path"`
	Fields map[string]any `json:"fields"`
}

// PushResponse returns the generated child key.
type PushResponse struct {
	Key string `json:"key"`
}

// Snapshot is the value at a path. Value is null when nothing is stored.
type Snapshot struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// Avatar is an uploaded or downloaded profile image.
type Avatar struct {
	Data        []byte `json:"data"`
	ContentType string `json:"content_type,omitempty"`
}
