package main

import (
	"net/http"

	"filmograph/internal/app/films"
	"filmograph/internal/app/reference"
	"filmograph/internal/app/users"
	"filmograph/internal/http/middleware"
	"filmograph/internal/httpapi"
	"filmograph/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store) http.Handler {
	filmSvc := films.New(dataStore)
	userSvc := users.New(dataStore)
	referenceSvc := reference.New(dataStore)

	handler := httpapi.New(filmSvc, userSvc, referenceSvc).Routes()

	handler = middleware.Recovery()(handler)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)

	return handler
}
