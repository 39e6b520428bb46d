package models

// Swagger / API docs: common request and response models referenced by handler annotations

// ErrorResponse is used in @Failure for error responses
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid input"`
	Details string `json:"details,omitempty" example:""`
}

// MessageResponse is generic response for APIs that return only {"message": "..."}
type MessageResponse struct {
	Message string `json:"message" example:"Success"`
}

// IntakeResponse is used in @Success for the protocol upload API
type IntakeResponse struct {
	Message string `json:"message" example:"Protocol accepted"`
	Order   string `json:"order" example:"12345-R"`
	Status  string `json:"status" example:"REALIZED"`
}

// PriceResponse is used in @Success for the price preview API
type PriceResponse struct {
	Order string         `json:"order" example:"12345-R"`
	Price PriceBreakdown `json:"price"`
}

// VerificationLinkResponse is the response for the issue-verification-link API
type VerificationLinkResponse struct {
	Message   string `json:"message" example:"Verification link issued"`
	Link      string `json:"link" example:"https://montago.example.com/protocol/submit?token=..."`
	ExpiresAt string `json:"expires_at" example:"2026-09-07T12:00:00Z"`
}

// PersistDocumentResponse is the response for the persist-document API
type PersistDocumentResponse struct {
	Message  string `json:"message" example:"Document stored"`
	FileName string `json:"file_name" example:"order_12345-R.pdf"`
	Created  bool   `json:"created" example:"true"`
}
