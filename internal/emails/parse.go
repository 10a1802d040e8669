package emails

import (
	"regexp"
	"strings"
)

const fallbackSubject = "Application Email"

// Tolerates markdown emphasis and headings around the marker, e.g. "**Subject:** Hi".
var subjectLine = regexp.MustCompile(`(?im)^[ \t]*[*_#]*[ \t]*subject[*_]*[ \t]*:[ \t]*[*_]*[ \t]*(.*?)[ \t*_]*$`)

// ParseGenerated splits raw model output into subject and body. It never fails:
// output without a SUBJECT: line gets the fallback subject.
func ParseGenerated(raw string) Generated {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	subject := fallbackSubject
	body := raw
	if loc := subjectLine.FindStringSubmatchIndex(raw); loc != nil {
		if s := strings.TrimSpace(raw[loc[2]:loc[3]]); s != "" {
			subject = s
		}
		body = raw[:loc[0]] + raw[loc[1]:]
	}

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, "- \t")
	}
	return Generated{Subject: subject, Content: strings.TrimSpace(strings.Join(lines, "\n"))}
}
