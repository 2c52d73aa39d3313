package request

type HelpRequest struct {
	Name    string `json:"name"    validate:"required,max=150"`
	Email   string `json:"email"   validate:"required,email,max=255"`
	Message string `json:"message" validate:"required"`
}
