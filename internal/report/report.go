// Package report formats the final parameter set as text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"cal2gutenprint/internal/accumulate"
)

// section groups parameters for the text table, with an optional hint
// printed next to a value.
type section struct {
	title string
	rows  []row
}

type row struct {
	name string
	hint string
}

var sections = []section{
	{"Cyan Channel", []row{
		{accumulate.CyanDensity, ""},
		{accumulate.CyanGamma, ""},
		{accumulate.LightCyanValue, "Lower=Uses More Light Ink"},
		{accumulate.LightCyanScale, ""},
		{accumulate.LightCyanTrans, ""},
	}},
	{"Magenta Channel", []row{
		{accumulate.MagentaDensity, ""},
		{accumulate.MagentaGamma, ""},
		{accumulate.LightMagentaValue, "Lower=Uses More Light Ink"},
		{accumulate.LightMagentaScale, ""},
		{accumulate.LightMagentaTrans, ""},
	}},
	{"Yellow Channel", []row{
		{accumulate.YellowDensity, ""},
		{accumulate.YellowGamma, ""},
	}},
	{"Black Channel", []row{
		{accumulate.BlackDensity, ""},
		{accumulate.BlackGamma, ""},
	}},
	{"Global", []row{
		{accumulate.CompositeGamma, ""},
	}},
}

// WriteTable prints the grouped parameter table in the format expected for
// pasting into a printer XML definition.
func WriteTable(w io.Writer, params *accumulate.Params) {
	line := "============================================================"
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "CALCULATED GUTENPRINT PARAMETERS")
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "Copy these values into your printer XML definition.")

	for _, s := range sections {
		fmt.Fprintf(w, "\n--- %s ---\n", s.title)
		for _, r := range s.rows {
			if r.hint != "" {
				fmt.Fprintf(w, "%-25s %8.4f  %s\n", r.name, params.Get(r.name), r.hint)
			} else {
				fmt.Fprintf(w, "%-25s %8.4f\n", r.name, params.Get(r.name))
			}
		}
	}
	fmt.Fprintln(w, line)
}

// WriteJSON saves the parameter set as an indented JSON object.
func WriteJSON(path string, params *accumulate.Params) error {
	data, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadJSON merges a previously exported parameter file over the defaults,
// so a run can continue from an earlier session's result.
func LoadJSON(path string) (*accumulate.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	params := accumulate.DefaultParams()
	if err := json.Unmarshal(data, params); err != nil {
		return nil, err
	}
	return params, nil
}
