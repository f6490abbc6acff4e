package dto

import "time"

// CreateWarehouseRequest entrada para crear un almacén.
type CreateWarehouseRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Location string `json:"location"`
}

// WarehouseResponse salida de un almacén.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseListResponse lista de almacenes.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
}
