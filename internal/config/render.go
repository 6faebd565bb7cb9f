package config

import (
	"fmt"
	"strconv"
	"strings"
)

type section struct {
	name string
	opts []Option
}

// group splits dotted keys into TOML tables, keeping table order stable.
func group(opts []Option) (top []Option, tables []section) {
	idx := map[string]int{}
	for _, o := range opts {
		name, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		i, seen := idx[name]
		if !seen {
			i = len(tables)
			idx[name] = i
			tables = append(tables, section{name: name})
		}
		tables[i].opts = append(tables[i].opts, Option{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, tables
}

func tomlValue(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case []string:
		q := make([]string, len(x))
		for i, s := range x {
			q[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(q, ", ") + "]"
	default:
		return fmt.Sprint(x)
	}
}

func optionLines(o Option) []string {
	var out []string
	if o.Comment != "" {
		out = append(out, "# "+o.Comment)
	}
	return append(out, o.Key+" = "+tomlValue(o.Default), "")
}

// RenderDefaultTOML renders every option with its default.
func RenderDefaultTOML() string {
	top, tables := group(Options())
	lines := []string{"# freightdesk configuration (TOML)", ""}
	for _, o := range top {
		lines = append(lines, optionLines(o)...)
	}
	for _, t := range tables {
		lines = append(lines, "["+t.name+"]")
		for _, o := range t.opts {
			lines = append(lines, optionLines(o)...)
		}
	}
	return strings.Join(lines, "\n")
}

// UpdateTOML appends options missing from existing and comments out keys
// that are no longer known. It reports whether anything changed.
func UpdateTOML(existing string) (string, bool) {
	known := map[string]bool{}
	for _, o := range Options() {
		known[o.Key] = true
	}

	seen := map[string]bool{}
	table := ""
	changed := false
	var out []string
	for _, line := range strings.Split(existing, "\n") {
		trim := strings.TrimSpace(line)
		switch {
		case trim == "" || strings.HasPrefix(trim, "#"):
		case strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]"):
			table = strings.TrimSpace(trim[1 : len(trim)-1])
		default:
			key, _, ok := strings.Cut(trim, "=")
			if !ok {
				break
			}
			full := strings.TrimSpace(key)
			if table != "" {
				full = table + "." + full
			}
			seen[full] = true
			if !known[full] {
				out = append(out, "# OUTDATED: option removed from config schema", "# "+trim)
				changed = true
				continue
			}
		}
		out = append(out, line)
	}

	var missing []Option
	for _, o := range Options() {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	top, tables := group(missing)
	if len(top) > 0 {
		// Top-level keys must come before the first table header.
		at := len(out)
		for i, line := range out {
			if t := strings.TrimSpace(line); strings.HasPrefix(t, "[") {
				at = i
				break
			}
		}
		ins := []string{"# Added by config update"}
		for _, o := range top {
			ins = append(ins, optionLines(o)...)
		}
		out = append(out[:at], append(ins, out[at:]...)...)
	}
	if len(tables) > 0 {
		out = append(out, "", "# Added by config update")
		for _, t := range tables {
			out = append(out, "["+t.name+"]")
			for _, o := range t.opts {
				out = append(out, optionLines(o)...)
			}
		}
	}
	return strings.Join(out, "\n"), true
}
