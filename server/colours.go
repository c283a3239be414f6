package server

import "github.com/fatih/color"

// methodColors colour the route table printed at start up in DEV.
var methodColors = map[string]*color.Color{
	"GET":     color.New(color.FgGreen),
	"POST":    color.New(color.FgBlue),
	"PUT":     color.New(color.FgCyan),
	"DELETE":  color.New(color.FgYellow),
	"PATCH":   color.New(color.FgMagenta),
	"OPTIONS": color.New(color.FgHiBlack),
}

var defaultMethodColor = color.New(color.FgHiBlack)
