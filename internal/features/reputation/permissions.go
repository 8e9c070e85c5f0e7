// Package reputation — permissions.go решает, разрешена ли команда
// /rep give конкретному пользователю. Чистая функция, без I/O.
package reputation

import (
	"fmt"

	"leobot.dev/discord-bot/internal/config"
)

// ViolationCode — код причины отказа. Каждому коду соответствует
// своё сообщение пользователю.
type ViolationCode string

const (
	ViolationNone         ViolationCode = ""
	ViolationSelfGrant    ViolationCode = "self_grant"
	ViolationBatchLimit   ViolationCode = "batch_limit"
	ViolationBulkRole     ViolationCode = "bulk_role"
	ViolationNegativeRole ViolationCode = "negative_role"
)

// PermissionDecision — результат проверки прав. Никогда не сохраняется.
type PermissionDecision struct {
	Allowed   bool
	Violation ViolationCode
}

// Authorize проверяет права на выдачу delta очков.
// Правила применяются в фиксированном порядке, первый отказ — финальный:
//  1. роль "без ограничений" разрешает всё;
//  2. нельзя давать очки самому себе;
//  3. нельзя выходить за лимит очков на одну команду;
//  4. больше одного очка — только с ролью массовой выдачи;
//  5. отрицательные очки — только с ролью отрицательной выдачи.
func Authorize(actorRoles []string, delta int, targetIsSelf bool, cfg *config.Config) PermissionDecision {
	if hasRole(actorRoles, cfg.RoleGiveUnlimited) {
		return PermissionDecision{Allowed: true}
	}

	if targetIsSelf {
		return PermissionDecision{Violation: ViolationSelfGrant}
	}

	if delta > cfg.GiveManyLimit || delta < -cfg.GiveManyLimit {
		return PermissionDecision{Violation: ViolationBatchLimit}
	}

	if delta > 1 && !hasRole(actorRoles, cfg.RoleGiveMany) {
		return PermissionDecision{Violation: ViolationBulkRole}
	}

	if delta < 0 && !hasRole(actorRoles, cfg.RoleGiveNegative) {
		return PermissionDecision{Violation: ViolationNegativeRole}
	}

	return PermissionDecision{Allowed: true}
}

// ViolationMessage возвращает текст отказа для пользователя.
// Формулировки — в терминах домена, без внутренних кодов.
func ViolationMessage(code ViolationCode, cfg *config.Config) string {
	points := cfg.PointsName
	switch code {
	case ViolationSelfGrant:
		return fmt.Sprintf("You may not give yourself %s.", points)
	case ViolationBatchLimit:
		return fmt.Sprintf("You may not give more than %d %s.", cfg.GiveManyLimit, points)
	case ViolationBulkRole:
		return fmt.Sprintf("You may not give multiple %s at once.", points)
	case ViolationNegativeRole:
		return fmt.Sprintf("You may not give negative %s.", points)
	default:
		return ""
	}
}

// hasRole проверяет наличие роли в наборе. Пустой ID роли в конфиге
// означает «роль не настроена» и никогда не совпадает.
func hasRole(roles []string, roleID string) bool {
	if roleID == "" {
		return false
	}
	for _, r := range roles {
		if r == roleID {
			return true
		}
	}
	return false
}
