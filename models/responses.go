package models

// TokenResponse returns a bearer token after login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ArgumentResponse carries the AI replies produced by one argument
// submission. On a fresh case the defendant path returns both an AI
// opening and an AI counter; every other path fills at most one pair.
type ArgumentResponse struct {
	AIOpeningStatement string `json:"ai_opening_statement,omitempty"`
	AIOpeningRole      Role   `json:"ai_opening_role,omitempty"`
	AICounterArgument  string `json:"ai_counter_argument,omitempty"`
	AICounterRole      Role   `json:"ai_counter_role,omitempty"`
}

// ClosingResponse carries the AI closing and the verdict
type ClosingResponse struct {
	AIClosingStatement string `json:"ai_closing_statement"`
	AIClosingRole      Role   `json:"ai_closing_role"`
	Verdict            string `json:"verdict"`
}

// AnalysisResponse wraps the markdown performance analysis
type AnalysisResponse struct {
	Analysis string `json:"analysis"`
}

// ProfilePictureResponse returns the stored photo location
type ProfilePictureResponse struct {
	ProfilePhotoURL string `json:"profile_photo_url"`
}

// MessageResponse is a generic acknowledgement envelope
type MessageResponse struct {
	Message string `json:"message"`
}
