package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v4"
	"github.com/julienschmidt/httprouter"
)

// Auth validates bearer tokens against a JWKS.
type Auth struct {
	keyfunc jwt.Keyfunc
	jwks    *keyfunc.JWKS
}

func NewAuth(url string) (*Auth, error) {
	options := keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			log.Error("refreshing jwks", "url", url, "err", err)
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	}

	jwks, err := keyfunc.Get(url, options)
	if err != nil {
		return nil, err
	}

	return &Auth{keyfunc: jwks.Keyfunc, jwks: jwks}, nil
}

// NewAuthWithKeyfunc builds an Auth that resolves signing keys with fn.
func NewAuthWithKeyfunc(fn jwt.Keyfunc) *Auth {
	return &Auth{keyfunc: fn}
}

func (auth *Auth) UserID(r *http.Request) (string, error) {
	data := strings.Split(r.Header.Get("Authorization"), " ")
	if len(data) != 2 || data[0] != "Bearer" {
		return "", errors.New("invalid authorization http header")
	}

	token, err := jwt.Parse(data[1], auth.keyfunc)
	if err != nil {
		return "", errors.New("failed to parse the JWT")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("the token is not valid")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("the token has no subject")
	}

	return sub, nil
}

func (auth *Auth) Middleware(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		userID, err := auth.UserID(r)
		if err != nil {
			log.Debug("rejecting request", "path", r.URL.Path, "err", err)
			writeJSON(w, http.StatusUnauthorized, errorBody{"Unauthorized."})
			return
		}

		log.Debug("authenticated", "user", userID, "path", r.URL.Path)

		next(w, r, p)
	}
}

func (auth *Auth) Close() {
	if auth.jwks != nil {
		auth.jwks.EndBackground()
	}
}
