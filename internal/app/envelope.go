package app

import (
	"net/http"

	"cinema_catalog/internal/domain"
)

// Envelope is the body of every catalog response.
type Envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func OK(data any) Envelope { return Envelope{Code: http.StatusOK, Msg: "ok", Data: data} }

func Error(code int, detail string) Envelope { return Envelope{Code: code, Msg: detail} }

// Page is the data of a paginated listing.
type Page struct {
	Page     int64        `json:"page"`
	PageSize int64        `json:"pagesize"`
	Total    int64        `json:"total"`
	Result   []domain.Row `json:"result"`
}
