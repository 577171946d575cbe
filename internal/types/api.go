package types

// GenerateRequest is the request body for POST /generate-resume. At least one
// of JobDescription and JobURL must be set; Title and Company are optional
// hints that take precedence over extracted values.
type GenerateRequest struct {
	JobDescription string `json:"job_description,omitempty" validate:"required_without=JobURL"`
	JobURL         string `json:"job_url,omitempty" validate:"omitempty,url"`
	Title          string `json:"title,omitempty"`
	Company        string `json:"company,omitempty"`
}

// GenerateResponse is the response for POST /generate-resume.
type GenerateResponse struct {
	StatusID string `json:"status_id"`
	Status   string `json:"status"`
}

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
