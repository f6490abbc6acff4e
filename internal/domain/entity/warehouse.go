package entity

import "time"

// CentralWarehouseName nombre del almacén que debe existir antes de registrar movimientos.
const CentralWarehouseName = "central"

// Warehouse representa un almacén o sucursal donde se guarda inventario.
type Warehouse struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
