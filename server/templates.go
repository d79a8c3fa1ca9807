package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"
)

//go:embed templates/*
var templateFiles embed.FS

const layoutTemplate = "layout.html"

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

var templateFuncs = template.FuncMap{
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v)
	},
	// mmss renders milliseconds as m:ss, or --:-- when unknown
	"mmss": func(ms int) string {
		if ms < 0 {
			return "--:--"
		}
		d := time.Duration(ms) * time.Millisecond
		return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
	},
	"minutes": func(d time.Duration) string {
		return fmt.Sprintf("%dm %02ds", int(d.Minutes()), int(d.Seconds())%60)
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2 Jan 2006 15:04")
	},
	"join": strings.Join,
}

// ParsePage parses a full page: the shared layout plus the page's "content" block
func ParsePage(name string) (*template.Template, error) {
	tmpl, err := template.New(layoutTemplate).Funcs(templateFuncs).ParseFS(TemplateFilesFS(), layoutTemplate, name)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", name, err)
	}
	return tmpl, nil
}

// ParseTemplate parses a standalone template (an HTML fragment) from the embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(TemplateFilesFS(), name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Funcs(templateFuncs).Parse(string(content))
}
