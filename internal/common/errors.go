// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки репутации
var (
	// ErrNoRecipient — запрос на выдачу очков без получателя
	ErrNoRecipient = errors.New("не указан получатель очков")
	// ErrDuplicateGrant — повторная реакция на то же сообщение от того же пользователя.
	// Это ожидаемый no-op, а не сбой: обработчики молча игнорируют.
	ErrDuplicateGrant = errors.New("очко за эту реакцию уже начислено")
	// ErrUserNotFound — пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
)
