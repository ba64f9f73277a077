// Package format содержит небольшие чистые функции для шаблонов.
package format

import (
	"strings"
	"time"
)

// DateLayout - формат даты, который ожидает <input type="date">.
const DateLayout = "2006-01-02"

// Date возвращает дату в виде YYYY-MM-DD по локальному календарю t.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// Today возвращает текущую дату в виде YYYY-MM-DD.
func Today() string {
	return Date(time.Now())
}

// ClassNames объединяет непустые имена CSS-классов через пробел.
func ClassNames(names ...string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}
