package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeINBOUND  = "INBOUND"   // recepción: sin ubicación origen
	MovementTypeTRANSFER = "TRANSFER"  // traslado: origen y destino
	MovementTypeWRITEOFF = "WRITE_OFF" // baja: sin ubicación destino
)

// Movement es el hecho inmutable de una mutación del ledger (quién, qué,
// cuándo, desde/hacia). Solo se agrega; nunca se actualiza ni borra.
type Movement struct {
	ID             string
	ProductID      string
	FromLocationID string // "" en INBOUND
	ToLocationID   string // "" en WRITE_OFF
	Quantity       int64
	Type           string
	BatchNumber    string
	Reason         string
	CreatedBy      string // UserID
	CreatedAt      time.Time
}

// MovementTypeCount agrupa el total de movimientos por tipo (consulta agregada).
type MovementTypeCount struct {
	Type  string
	Count int64
}
