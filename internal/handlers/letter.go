package handlers

import (
	"bytes"
	"embed"
	"encoding/base64"
	"errors"
	"html/template"
	"image/png"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/model"
	"github.com/Totarae/ArrearsLetters/internal/payment"
	"github.com/Totarae/ArrearsLetters/internal/service"
	"github.com/Totarae/ArrearsLetters/internal/util"
)

//go:embed templates/*.html
var pageFS embed.FS

var pages = template.Must(template.New("").
	Funcs(template.FuncMap{"money": util.FormatMoney}).
	ParseFS(pageFS, "templates/*.html"))

type letterPage struct {
	model.LetterContent
	QRImage   template.URL
	ViewsLeft int
}

type statusPage struct {
	Title   string
	Message string
}

// ViewLetter отдаёт HTML-версию письма и учитывает просмотр.
func (h *Handler) ViewLetter(res http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")

	rec, err := h.Letters.Get(req.Context(), id)
	switch {
	case errors.Is(err, service.ErrLetterNotFound):
		h.status(res, http.StatusNotFound, "Letter not found", "This link is not valid. Please check the address in your SMS.")
		return
	case errors.Is(err, service.ErrLetterExpired):
		h.status(res, http.StatusGone, "Link expired", "This letter is no longer available online.")
		return
	case errors.Is(err, service.ErrLetterAccessExhausted):
		h.status(res, http.StatusForbidden, "Access limit reached", "This letter has been viewed the maximum number of times.")
		return
	case err != nil:
		h.Logger.Error("Ошибка чтения письма", zap.String("id", id), zap.Error(err))
		http.Error(res, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	page := letterPage{LetterContent: rec.LetterContent, ViewsLeft: max(rec.MaxAccess-rec.AccessCount, 0)}
	if rec.QRCodeData != "" {
		uri, err := qrDataURI(rec.QRCodeData)
		if err != nil {
			h.Logger.Warn("Не удалось построить QR", zap.String("id", id), zap.Error(err))
		} else {
			page.QRImage = uri
		}
	}

	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "letter.html", page); err != nil {
		h.Logger.Error("Ошибка шаблона письма", zap.String("id", id), zap.Error(err))
		http.Error(res, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.Header().Set("Cache-Control", "no-store")
	res.WriteHeader(http.StatusOK)
	_, _ = res.Write(buf.Bytes())
}

func (h *Handler) status(res http.ResponseWriter, code int, title, message string) {
	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.WriteHeader(code)
	if err := pages.ExecuteTemplate(res, "status.html", statusPage{Title: title, Message: message}); err != nil {
		h.Logger.Error("Ошибка шаблона страницы", zap.Error(err))
	}
}

// qrDataURI кодирует платёжную строку в PNG для встраивания в страницу.
func qrDataURI(payload string) (template.URL, error) {
	img, err := payment.EncodeQR(payload)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}
