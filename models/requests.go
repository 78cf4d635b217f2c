package models

// RegisterRequest creates a new user account
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// VerifyOTPRequest confirms the emailed verification code
type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// GenerateCaseRequest asks the LLM to draft a new case
type GenerateCaseRequest struct {
	SectionsInvolved []string `json:"sections_involved"`
	SectionNumbers   []int    `json:"section_numbers"`
}

// SubmitArgumentRequest submits one user argument for a role
type SubmitArgumentRequest struct {
	Role     Role   `json:"role"`
	Argument string `json:"argument"`
}

// ClosingStatementRequest submits the user's closing statement
type ClosingStatementRequest struct {
	Role      Role   `json:"role"`
	Statement string `json:"statement"`
}
