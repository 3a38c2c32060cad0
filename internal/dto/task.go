package dto

// TaskRequest is the JSON body for POST /tasks and PUT /tasks/{id}.
// Title is a pointer so that an empty string is accepted while a missing field is not.
// Any id in the body is ignored.
type TaskRequest struct {
	Title *string `json:"title" binding:"required"`
}

type TaskResponse struct {
	ID    string `json:"id" example:"65f1c2a9e4b0a1b2c3d4e5f6"`
	Title string `json:"title" example:"buy milk"`
}
