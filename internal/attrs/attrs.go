// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package attrs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var lengthRegex = regexp.MustCompile(`-?\d+`)

// Attr represents one column of a result row.
type Attr struct {
	// The row key to read the value from.
	Key string `yaml:"key"`
	// Should this Attr be included in output or is it just
	// intended for filtering and sorting?
	Include bool `yaml:"include"`
	// The key to use in the output. This is also the column title when
	// output=text.
	OutputKey string `yaml:"outputKey"`
	// Transformation spec to apply to the output value.
	TransformSpec string `yaml:"transformSpec"`
}

// Transform applies the case and length transformations in TransformSpec to
// string values. Other values are returned unchanged.
//
// "u"/"l" upper or lower case the value; when both appear the last one wins.
// A number N truncates to N characters; -N keeps both ends and elides the
// middle with "..".
func (a *Attr) Transform(value interface{}) interface{} {
	result, ok := value.(string)
	if !ok || a.TransformSpec == "" {
		return value
	}

	// The last case letter wins so a per-attr spec overrides a global one
	// prepended to it.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	// Same logic for length: take the last (overriding) match.
	match := lengthRegex.FindAllString(a.TransformSpec, -1)
	if len(match) == 0 {
		return result
	}
	l, _ := strconv.Atoi(match[len(match)-1])
	abs := l
	if abs < 0 {
		abs = -abs
	}
	if len(result) <= abs || abs == 0 {
		return result
	}
	if l > 0 {
		return result[:l]
	}

	keep := (abs - 2) / 2
	if keep < 1 {
		return result[:abs]
	}
	return result[:keep] + ".." + result[len(result)-keep:]
}

type AttrList []Attr

// New returns an AttrList holding each of keys as an included column.
func New(keys ...string) AttrList {
	al := make(AttrList, 0, len(keys))
	for _, k := range keys {
		al = append(al, Attr{Key: k, Include: true, OutputKey: k})
	}
	return al
}

// Return a string representation of the AttrList.  This should match the format
// of the original --attrs flag.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Set parses a --attrs spec and merges it into the list. Each comma separated
// entry is key[:title[:transform]]. A key prefixed with ! is kept for
// filtering and sorting but not emitted; "*" carries a transform applied to
// every attr.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

specloop:
	for _, spec := range strings.Split(value, ",") {
		attr := Attr{
			Include: true,
		}

		fields := strings.Split(spec, ":")
		if len(fields) > 3 {
			return fmt.Errorf("invalid attr spec %q: too many fields", spec)
		}

		attr.Key = strings.TrimSpace(fields[keyIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec %q: missing key", spec)
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		attr.OutputKey = attr.Key
		if len(fields) > outputIdx && strings.TrimSpace(fields[outputIdx]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}
		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		// If the attr already exists in the list (because it's one of the defaults
		// for cmd or the user double-entered it) just apply the OutputKey, Include
		// and TransformSpec to the existing Attr.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec inserts a global transform spec into the front of all
// attrs in the list.
func (alist *AttrList) SetGlobalTransformSpec() {
	spec := ""

	// Find the global transform spec.  If there is more than one, we're not
	// dealing with it and just taking the first.
	for a := range *alist {
		if (*alist)[a].Key == "*" {
			spec = (*alist)[a].TransformSpec
			break
		}
	}

	if spec == "" {
		return
	}

	for a := range *alist {
		if (*alist)[a].Key == "*" {
			continue
		}
		(*alist)[a].TransformSpec = spec + "," + (*alist)[a].TransformSpec
	}
}

// Included returns the attrs that are emitted, in order.
func (alist AttrList) Included() AttrList {
	var out AttrList
	for _, a := range alist {
		if a.Include {
			out = append(out, a)
		}
	}
	return out
}

func (a *AttrList) Type() string {
	return "list"
}
