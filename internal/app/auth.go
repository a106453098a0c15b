package app

import (
	"net/http"

	"github.com/l10nlab/promptpilot/internal/persistence"
)

func (a App) loginPage(w http.ResponseWriter, r *http.Request) *AppResp {
	return &AppResp{Component: a.ComponentBuilder.Login(""), Code: 200, Message: "OK", ContentType: "text/html"}
}

func (a App) login(w http.ResponseWriter, r *http.Request) *AppResp {
	if err := r.ParseForm(); err != nil {
		return a.errResp(err, get400())
	}

	token, err := a.AuthRepo.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))

	if err != nil {
		return &AppResp{
			Error:       err,
			Message:     "login failed",
			Code:        200,
			ContentType: "text/html",
			Component:   a.ComponentBuilder.Login("Login failed. Check your username and password.")}
	}

	if err = a.Creds.Store(token.AccessToken); err != nil {
		return a.errResp(err, get500())
	}

	// Confirm the credential actually works before leaving the login page.
	if _, err = a.AuthRepo.Me(r.Context()); err != nil {
		_ = a.Creds.Clear()
		return &AppResp{
			Error:       err,
			Message:     "login failed",
			Code:        200,
			ContentType: "text/html",
			Component:   a.ComponentBuilder.Login("Login succeeded but the account could not be loaded.")}
	}

	http.Redirect(w, r, "/editor", http.StatusSeeOther)
	return nil
}

func (a App) logout(w http.ResponseWriter, r *http.Request) *AppResp {
	if err := a.Creds.Clear(); err != nil {
		return a.errResp(err, get500())
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return nil
}

func (a App) registerPage(w http.ResponseWriter, r *http.Request) *AppResp {
	return &AppResp{Component: a.ComponentBuilder.Register(""), Code: 200, Message: "OK", ContentType: "text/html"}
}

func (a App) register(w http.ResponseWriter, r *http.Request) *AppResp {
	if err := r.ParseForm(); err != nil {
		return a.errResp(err, get400())
	}

	_, err := a.AuthRepo.Register(r.Context(), persistence.RegisterRequest{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password")})

	if err != nil {
		return &AppResp{
			Error:       err,
			Message:     "registration failed",
			Code:        200,
			ContentType: "text/html",
			Component:   a.ComponentBuilder.Register("Registration failed. Try a different username or email.")}
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return nil
}
