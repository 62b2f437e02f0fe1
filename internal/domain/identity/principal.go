// Package identity define la identidad resuelta del llamador. El middleware
// HTTP la construye a partir del JWT y los casos de uso la reciben como
// parámetro explícito: el núcleo nunca consulta estado ambiental de
// seguridad.
package identity

// Principal es el usuario autenticado que origina una operación.
type Principal struct {
	UserID      string
	BranchID    string
	Role        string
	Permissions []string
}

// HasRole indica si el principal tiene alguno de los roles dados.
func (p Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// Can indica si el principal tiene el permiso explícito dado.
func (p Principal) Can(permission string) bool {
	for _, perm := range p.Permissions {
		if perm == permission {
			return true
		}
	}
	return false
}
