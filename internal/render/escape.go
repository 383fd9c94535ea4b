package render

import "strings"

// escapePairs lists every character that is syntactically significant to
// the encoder's text-drawing filter, with its escaped form. The backslash
// MUST stay first: escaping it later would double-escape the backslashes
// introduced by the earlier replacements.
var escapePairs = [][2]string{
	{`\`, `\\`},
	{`'`, `\'`},
	{`:`, `\:`},
	{`[`, `\[`},
	{`]`, `\]`},
	{`,`, `\,`},
	{`;`, `\;`},
	{`=`, `\=`},
	{`%`, `\%`},
	{"\n", `\` + "\n"},
}

// EscapeText makes arbitrary overlay text safe for the drawtext filter.
// Every call site that feeds text into a filter graph goes through here;
// ad hoc escaping is how truncated overlays happen.
func EscapeText(s string) string {
	for _, p := range escapePairs {
		s = strings.ReplaceAll(s, p[0], p[1])
	}
	return s
}
