// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: форматирование чисел со знаком, списки через запятую,
// обрезка длинного текста.
package common

import (
	"fmt"
	"strings"
)

// FormatSigned форматирует число со знаком.
//
// Примеры:
//
//	FormatSigned(5)  → "+5"
//	FormatSigned(-3) → "-3"
//	FormatSigned(0)  → "+0"
func FormatSigned(n int) string {
	if n >= 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

// JoinList соединяет элементы в естественный список:
// "a", "a and b", "a, b, and c".
//
// Для двух элементов запятая не ставится, для трёх и более —
// используется серийная запятая перед "and".
func JoinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

// TruncateText обрезает строку до max символов, добавляя многоточие.
// Используется при логировании сообщений и в embed-ах.
func TruncateText(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
