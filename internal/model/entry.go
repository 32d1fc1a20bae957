package model

import "time"

// ShortLink представляет запись короткой ссылки в реестре.
// JSON-теги совпадают с форматом файла url_mappings.json.
type ShortLink struct {
	ID      string    `json:"-"`
	URL     string    `json:"url"`
	Scope   string    `json:"scope,omitempty"`
	Created time.Time `json:"created"`
	Expires time.Time `json:"expires"`
	Clicks  int       `json:"clicks"`
	Active  bool      `json:"active"`
}

// Resolvable сообщает, можно ли перейти по ссылке в момент now.
func (l *ShortLink) Resolvable(now time.Time) bool {
	return l.Active && !now.After(l.Expires)
}
