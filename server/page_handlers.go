package server

import (
	"html/template"
	"net/http"
)

// Modules taken at university, most recent first
var educationSubjects = []string{
	"Advanced Systems Programming",
	"Cyber Security Fundamentals",
	"Software Engineering Release Practices",
	"Functional Programming",
	"Distributed and Parallel Technologies",
	"Computer Architecture",
	"Algorithmics 2",
	"Programming Languages",
	"Database Systems",
	"Networked Systems",
	"Operating Systems",
	"Algorithmics 1",
	"Data Fundamentals",
	"Systems Programming",
}

type pageHandlers struct {
	index      http.HandlerFunc
	education  http.HandlerFunc
	experience http.HandlerFunc
	projects   http.HandlerFunc
}

func (s *Server) pageHandlers() (pageHandlers, error) {
	var pages pageHandlers
	templates := map[string]*template.Template{}
	for _, name := range []string{"index.html", "education.html", "experience.html", "projects.html"} {
		tmpl, err := ParsePage(name)
		if err != nil {
			return pages, err
		}
		templates[name] = tmpl
	}

	pages.index = s.staticPageHandler(templates["index.html"], nil)
	pages.experience = s.staticPageHandler(templates["experience.html"], nil)
	pages.education = s.staticPageHandler(templates["education.html"], map[string]any{
		"Subjects": educationSubjects,
	})
	pages.projects = s.ProjectsHandler(templates["projects.html"])
	return pages, nil
}

func (s *Server) pageData(title string, extra map[string]any) map[string]any {
	data := map[string]any{
		"AppName": s.config.GetAppName(),
		"Title":   title,
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

func (s *Server) staticPageHandler(tmpl *template.Template, extra map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, http.StatusOK, tmpl, s.pageData("", extra))
	}
}

// ProjectsHandler shows the site's own deploy script, fetched live from GitHub
func (s *Server) ProjectsHandler(tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content := "Projects are unavailable."
		if s.projects != nil {
			content = s.projects.Content(r.Context())
		}
		render(w, http.StatusOK, tmpl, s.pageData("Projects", map[string]any{
			"DeployFileContent": content,
		}))
	}
}
