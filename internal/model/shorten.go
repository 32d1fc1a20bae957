package model

// ShortenRequest представляет структуру запроса на выпуск короткой ссылки.
type ShortenRequest struct {
	LongURL string `json:"longUrl" validate:"required,url"`
	Scope   string `json:"scope,omitempty" validate:"omitempty,max=128"`
}

// ShortenResponse представляет структуру ответа с короткой ссылкой.
type ShortenResponse struct {
	ID       string `json:"id"`
	ShortURL string `json:"shortUrl"`
}

// PurgeResponse возвращается после очистки области.
type PurgeResponse struct {
	Scope   string `json:"scope"`
	Links   int    `json:"links"`
	Letters int    `json:"letters"`
}
