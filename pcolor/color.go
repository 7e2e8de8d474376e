// Package pcolor provides the terminal color helpers cmd/ptpctl uses
// for status output, adapted from kryptco-kr's color.go.
package pcolor

import "github.com/fatih/color"

func Cyan(s string) string    { return sprint(color.FgHiCyan, s) }
func Green(s string) string   { return sprint(color.FgHiGreen, s) }
func Magenta(s string) string { return sprint(color.FgHiMagenta, s) }
func Yellow(s string) string  { return sprint(color.FgHiYellow, s) }
func Red(s string) string     { return sprint(color.FgHiRed, s) }

func sprint(attr color.Attribute, s string) string {
	c := color.New(attr)
	c.EnableColor()
	return c.SprintFunc()(s)
}
