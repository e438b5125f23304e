package handlers

// ProductRequest is the body of create and update requests. Id is ignored.
type ProductRequest struct {
	Id          int     `json:"id,omitempty"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Quantity    int     `json:"quantity"`
}

type ProductResponse struct {
	Id          int     `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Quantity    int     `json:"quantity"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}
