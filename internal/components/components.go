package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

type Component = templ.Component

// page wraps a body component with the shared document shell.
func page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title>`+
				`<link rel="stylesheet" href="/static/app.css"><script src="/static/app.js" defer></script></head><body>`+
				`<nav class="topnav"><a href="/editor">Editor</a><a href="/evaluation">Evaluation</a>`+
				`<a href="/library">Library</a><a href="/sessions">Sessions</a>`+
				`<form class="logout" method="post" action="/logout"><button type="submit">Log out</button></form></nav><main>`,
			templ.EscapeString(title))
		if err != nil {
			return err
		}

		if err = body.Render(ctx, w); err != nil {
			return err
		}

		_, err = io.WriteString(w, `</main></body></html>`)
		return err
	})
}

func raw(format string, args ...any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	})
}

func Index() templ.Component {
	return raw(`<!DOCTYPE html><html><head><meta http-equiv="refresh" content="0; url=/editor"></head></html>`)
}

func Login(errMsg string) templ.Component {
	return page("Log in", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<section class="auth"><h1>Log in</h1>%s`+
				`<form method="post" action="/login">`+
				`<label>Username<input name="username" required></label>`+
				`<label>Password<input name="password" type="password" required></label>`+
				`<button type="submit">Log in</button></form>`+
				`<p><a href="/register">Create an account</a></p></section>`,
			banner(errMsg))
		return err
	}))
}

func Register(errMsg string) templ.Component {
	return page("Register", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<section class="auth"><h1>Register</h1>%s`+
				`<form method="post" action="/register">`+
				`<label>Username<input name="username" required></label>`+
				`<label>Email<input name="email" type="email" required></label>`+
				`<label>Password<input name="password" type="password" required></label>`+
				`<button type="submit">Register</button></form>`+
				`<p><a href="/login">Back to log in</a></p></section>`,
			banner(errMsg))
		return err
	}))
}

func Loading(msg string) templ.Component {
	return raw(`<div class="loading"><div class="spinner"></div><p>%s</p></div>`, templ.EscapeString(msg))
}

func Error(code int, title string, msg string) templ.Component {
	return page(title, raw(`<section class="error"><h1>%d %s</h1><p>%s</p></section>`,
		code, templ.EscapeString(title), templ.EscapeString(msg)))
}

func banner(errMsg string) string {
	if errMsg == "" {
		return ""
	}
	return fmt.Sprintf(`<div class="banner error">%s</div>`, templ.EscapeString(errMsg))
}
