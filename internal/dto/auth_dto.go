package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Usuario      struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Nombre   string `json:"nombre"`
		Rol      string `json:"rol"`
	} `json:"usuario"`
}

// ValidarSupervisorRequest carries the elevated credentials a supervisor
// types to authorize a close outside the variance threshold.
type ValidarSupervisorRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ValidarSupervisorResponse struct {
	Valido       bool    `json:"valido"`
	SupervisorID *string `json:"supervisor_id"`
	Rol          *string `json:"rol"`
}
