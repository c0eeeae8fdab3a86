// Package policy содержит таблицу доступа: какая роль может выполнить какое действие.
// Роль всегда берется из серверной сессии, клиентским утверждениям о роли не доверяем.
package policy

import "github.com/shenikar/emergency_aid_connect/internal/models"

// Action - действие, требующее проверки доступа
type Action string

const (
	ActionReportCreate       Action = "report:create"
	ActionReportReadOwn      Action = "report:read-own"
	ActionReportReadAll      Action = "report:read-all"
	ActionReportUpdateStatus Action = "report:update-status"
	ActionUserManage         Action = "user:manage"
	ActionStatsView          Action = "stats:view"
	ActionMediaUpload        Action = "media:upload"
)

var (
	anyone        = []models.Role{models.RoleAnonymous, models.RoleUser, models.RoleFirstResponder, models.RoleAdmin}
	authenticated = []models.Role{models.RoleUser, models.RoleFirstResponder, models.RoleAdmin}
	responders    = []models.Role{models.RoleFirstResponder, models.RoleAdmin}
	admins        = []models.Role{models.RoleAdmin}
)

// matrix перечисляет роли, которым разрешено действие
var matrix = map[Action][]models.Role{
	ActionReportCreate:       anyone,
	ActionReportReadOwn:      authenticated,
	ActionReportReadAll:      responders,
	ActionReportUpdateStatus: responders,
	ActionUserManage:         admins,
	ActionStatsView:          admins,
	ActionMediaUpload:        anyone,
}

// IsAllowed сообщает, разрешено ли действие роли. Неизвестное действие запрещено.
func IsAllowed(role models.Role, action Action) bool {
	for _, r := range matrix[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Actions возвращает все известные действия
func Actions() []Action {
	return []Action{
		ActionReportCreate,
		ActionReportReadOwn,
		ActionReportReadAll,
		ActionReportUpdateStatus,
		ActionUserManage,
		ActionStatsView,
		ActionMediaUpload,
	}
}
