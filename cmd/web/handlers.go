package main

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/myrjola/fitroutine/internal/contexthelpers"
	"github.com/myrjola/fitroutine/internal/errors"
	"github.com/myrjola/fitroutine/internal/i18n"
	"github.com/yuin/goldmark"
)

//nolint:gochecknoglobals // goldmark.Markdown is safe for concurrent use.
var markdown = goldmark.New()

// renderMarkdownToHTML converts markdown to HTML. goldmark omits raw HTML by default, so the result is safe to
// embed.
func (app *application) renderMarkdownToHTML(ctx context.Context, source string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "failed to render markdown",
			errors.SlogError(errors.Wrap(err, "convert markdown")))
		return template.HTML(template.HTMLEscapeString(source)) //nolint:gosec // escaped above.
	}
	return template.HTML(buf.String()) //nolint:gosec // goldmark escapes raw HTML.
}

// exercisePath links to the description page of an exercise.
func exercisePath(name string) string {
	return "/exercises/" + url.PathEscape(name)
}

// baseTemplateFuncs returns the base template.FuncMap with placeholder implementations.
// Context-dependent functions (nonce, t, mdToHTML) must be overridden with actual implementations.
func (app *application) baseTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"nonce": func() string {
			panic("not implemented")
		},
		"t": func(string) string {
			panic("not implemented")
		},
		"mdToHTML": func(string) string {
			panic("not implemented")
		},
		"exercisePath": exercisePath,
		"languageName": func(lang i18n.Language) string {
			return i18n.Translate(lang, "language.name."+string(lang))
		},
	}
}

// contextTemplateFuncs returns template.FuncMap with context-dependent function implementations.
func (app *application) contextTemplateFuncs(ctx context.Context) template.FuncMap {
	nonce := fmt.Sprintf("nonce=\"%s\"", contexthelpers.CSPNonce(ctx))
	lang := contexthelpers.Language(ctx)
	return template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // we trust the nonce since it's not provided by user.
		},
		"t": func(key string) string {
			return i18n.Translate(lang, key)
		},
		"mdToHTML": func(source string) template.HTML {
			return app.renderMarkdownToHTML(ctx, source)
		},
	}
}

// pageTemplate returns a template for the given page name.
//
// pageName corresponds to directory inside ui/templates/pages folder. It has to include a template named "page".
func (app *application) pageTemplate(pageName string) (*template.Template, error) {
	var err error
	// We need to initialize the FuncMap before parsing the files. These will be overridden in the render function.
	var t *template.Template
	t = template.New(pageName).Funcs(app.baseTemplateFuncs())
	if t, err = t.ParseFS(app.templateFS, "base.gohtml", fmt.Sprintf("pages/%s/*.gohtml", pageName)); err != nil {
		return nil, fmt.Errorf("new template: %w", err)
	}
	return t, nil
}

func (app *application) renderToBuf(ctx context.Context, file string, data any) (*bytes.Buffer, error) {
	var (
		err error
		t   *template.Template
	)

	if t, err = app.pageTemplate(file); err != nil {
		return nil, fmt.Errorf("retrieve page template %s: %w", file, err)
	}

	buf := new(bytes.Buffer)
	t.Funcs(app.contextTemplateFuncs(ctx))
	if err = t.ExecuteTemplate(buf, "base", data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", file, err)
	}

	return buf, nil
}

/*
 * render renders the template residing in the /ui/templates/pages/{pageName} folder from the repository root and writes
 * it to the response writer.
 */
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, pageName string, data any) {
	var (
		buf *bytes.Buffer
		err error
	)

	if buf, err = app.renderToBuf(r.Context(), pageName, data); err != nil {
		if pageName == "error" {
			app.logger.LogAttrs(r.Context(), slog.LevelError, "failed to render error page", errors.SlogError(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		app.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}
