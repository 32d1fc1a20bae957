package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/service"
	"github.com/Totarae/ArrearsLetters/internal/storage"
	"github.com/Totarae/ArrearsLetters/internal/util"
)

// ExampleHandler_ShortenAPI демонстрирует работу метода ShortenAPI.
func ExampleHandler_ShortenAPI() {
	logger := zap.NewNop()
	links := service.NewLinkService(storage.NewMemoryLinkStore(), util.NewIDGenerator(""), logger, "http://localhost", 0)
	letters := service.NewLetterService(storage.NewMemoryLetterStore(), logger, 0, 0)
	h := NewHandler(links, letters, nil, logger)

	body := `{"longUrl":"https://letters.example/letter/0123456789abcdef"}`
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ShortenAPI(rec, req)
	resp := rec.Result()
	defer resp.Body.Close()

	var result map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&result)

	fmt.Println(resp.StatusCode)
	fmt.Println(strings.HasPrefix(result["shortUrl"], "http://localhost/"))

	// Output:
	// 201
	// true
}
