package server

import (
	"github.com/ironsheep/omr-service/internal/omr"
)

// ProcessRequest is the body of POST /process-omr.
type ProcessRequest struct {
	ImageURL string `json:"imageUrl"`

	// NumberOfQuestions falls back to the configured default when missing
	// or not positive.
	NumberOfQuestions *int `json:"numberOfQuestions,omitempty"`

	// Annotate adds a PNG overlay of the detection to the response.
	Annotate bool `json:"annotate,omitempty"`
}

// ProcessResponse is the success body of POST /process-omr.
type ProcessResponse struct {
	Success bool `json:"success"`

	Answers                []omr.AnswerResult `json:"answers"`
	TotalBubblesDetected   int                `json:"total_bubbles_detected"`
	TotalQuestionsDetected int                `json:"total_questions_detected"`

	// Identity fields are placeholders; the sheet header is not read.
	StudentName string `json:"studentName"`
	StudentCode string `json:"studentCode"`

	// AnnotatedImage is a data URL of the overlay PNG.
	AnnotatedImage string `json:"annotatedImage,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
