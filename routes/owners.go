package routes

import (
	"github.com/khelsetu/academy/internal/application"
	"github.com/khelsetu/academy/internal/document"
	"github.com/khelsetu/academy/internal/player"
	"github.com/khelsetu/academy/internal/user"
)

// ownerDirectory resolves document owner references against the aggregates
// that can own documents. Wiring-time composite; the document package only
// sees the OwnerDirectory interface.
type ownerDirectory struct {
	apps    application.ApplicationRepository
	players player.PlayerRepository
	users   user.UserRepository
}

func (d ownerDirectory) OwnerUser(owner document.OwnerRef) (uint, bool, error) {
	switch owner.Type {
	case document.OwnerApplication:
		app, err := d.apps.GetByID(owner.ID)
		if err != nil || app == nil {
			return 0, false, err
		}
		return app.UserID, true, nil
	case document.OwnerPlayer:
		p, err := d.players.GetByID(owner.ID)
		if err != nil || p == nil {
			return 0, false, err
		}
		return p.UserID, true, nil
	case document.OwnerCoach:
		u, err := d.users.GetUserByID(owner.ID)
		if err != nil || u == nil || u.Role != user.RoleCoach {
			return 0, false, err
		}
		return u.ID, true, nil
	}
	return 0, false, nil
}
