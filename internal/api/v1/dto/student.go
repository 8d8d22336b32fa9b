package dto

import "time"

// StudentCreateDTO is used for incoming student creation requests
type StudentCreateDTO struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
	Age  int    `json:"age" validate:"required,gte=1,lte=150"`
	City string `json:"city" validate:"required,min=2,max=100"`
}

// StudentUpdateDTO is used for incoming student update requests
type StudentUpdateDTO struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Age  *int    `json:"age,omitempty" validate:"omitempty,gte=1,lte=150"`
	City *string `json:"city,omitempty" validate:"omitempty,min=2,max=100"`
}

// StudentResponseDTO is returned in API responses for students
type StudentResponseDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
