package auth

type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Token    string `json:"token"    validate:"required"`
}

type SaveResponse struct {
	EnvPath string `json:"env_path"`
}

type CredentialsResponse struct {
	Username    string `json:"username"`
	TokenExists bool   `json:"token_exists"`
}
