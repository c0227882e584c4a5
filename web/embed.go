// Package web holds the dashboard's templates and static assets.
package web

import "embed"

// Templates holds the layout, partials and page templates.
//
//go:embed templates/**/*.html
var Templates embed.FS

// Static holds the stylesheet served under /static.
//
//go:embed static/**/*
var Static embed.FS
