package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// compressedTypes сжимаемые ответы: страницы писем и JSON операторского API.
var compressedTypes = []string{"text/html", "application/json"}

// DecompressRequest распаковывает тело запроса с Content-Encoding: gzip.
// Повреждённое тело отклоняется с 400 до вызова обработчика.
func DecompressRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}
		reader, err := gzip.NewReader(r.Body)
		if err != nil {
			http.Error(w, "Unable to decompress request", http.StatusBadRequest)
			return
		}
		defer reader.Close()
		r.Body = reader
		r.Header.Del("Content-Encoding")
		r.ContentLength = -1
		next.ServeHTTP(w, r)
	})
}

// Compression распаковывает gzip-запросы и сжимает HTML и JSON ответы уровнем level.
func Compression(level int) func(http.Handler) http.Handler {
	compress := chimw.Compress(level, compressedTypes...)
	return func(next http.Handler) http.Handler {
		return DecompressRequest(compress(next))
	}
}
