package service

import (
	"github.com/google/uuid"

	"github.com/warklp/saasBarber-sub001/internal/apierror"
	"github.com/warklp/saasBarber-sub001/internal/model"
)

// Principal is the authenticated actor, passed explicitly into every core
// operation instead of riding on an ambient request object.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

// canMutateComanda enforces the ownership rule for comanda mutation: clients
// never, barbers only on appointments assigned to them, admin and cashier
// unrestricted.
func (p Principal) canMutateComanda(assignedBarberID uuid.UUID) *apierror.Error {
	switch p.Role {
	case model.RoleAdmin, model.RoleCashier:
		return nil
	case model.RoleBarber:
		if p.UserID == assignedBarberID {
			return nil
		}
		return apierror.Forbidden("only the assigned professional may modify this comanda")
	default:
		return apierror.Forbidden("clients are not allowed to modify comandas")
	}
}

// isStaff reports whether the principal may operate the register (stock
// movements, appointment completion).
func (p Principal) isStaff() bool {
	return p.Role == model.RoleAdmin || p.Role == model.RoleCashier
}
