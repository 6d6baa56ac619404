package httpapp

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type Templates struct {
	Index        *template.Template
	Message      *template.Template
	User         *template.Template
	Users        *template.Template
	UserMessages *template.Template
	Register     *template.Template
}

func loadTemplates() (*Templates, error) {
	funcs := template.FuncMap{
		"truncate": func(s string, n int) string {
			if len(s) <= n {
				return s
			}
			return s[:n]
		},
	}

	layoutContent, err := templateFS.ReadFile("templates/layout.html")
	if err != nil {
		return nil, err
	}

	// Each page defines a "content" block that the layout pulls in.
	makePage := func(pageName string) (*template.Template, error) {
		pageContent, err := templateFS.ReadFile("templates/" + pageName + ".html")
		if err != nil {
			return nil, err
		}
		t := template.New("layout").Funcs(funcs)
		t, err = t.Parse(string(layoutContent))
		if err != nil {
			return nil, err
		}
		t, err = t.Parse(string(pageContent))
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	index, err := makePage("index")
	if err != nil {
		return nil, err
	}
	message, err := makePage("message")
	if err != nil {
		return nil, err
	}
	user, err := makePage("user")
	if err != nil {
		return nil, err
	}
	users, err := makePage("users")
	if err != nil {
		return nil, err
	}
	userMessages, err := makePage("user-messages")
	if err != nil {
		return nil, err
	}
	register, err := makePage("register")
	if err != nil {
		return nil, err
	}

	return &Templates{
		Index:        index,
		Message:      message,
		User:         user,
		Users:        users,
		UserMessages: userMessages,
		Register:     register,
	}, nil
}
