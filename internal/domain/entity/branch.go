package entity

import "time"

// Branch representa una sucursal del negocio. El stock, las comisiones y los
// libros contables se llevan por sucursal.
// AllowNegativeStock habilita ventas/ajustes que dejen el stock bajo cero
// (semántica de backorder); por defecto está deshabilitado.
type Branch struct {
	ID                 string
	Name               string
	Address            string
	AllowNegativeStock bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
