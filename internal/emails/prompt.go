package emails

import (
	_ "embed"
	"strings"
	"text/template"

	"jobtracker-backend/internal/jobs"
	"jobtracker-backend/internal/users"
)

var (
	//go:embed prompts/application.tmpl
	applicationPrompt string
	//go:embed prompts/reply.tmpl
	replyPrompt string

	funcs       = template.FuncMap{"join": strings.Join}
	application = template.Must(template.New("application").Funcs(funcs).Parse(applicationPrompt))
	reply       = template.Must(template.New("reply").Funcs(funcs).Parse(replyPrompt))
)

type ApplicationInput struct {
	User       users.User
	Job        jobs.Job
	ResumeText string
}

type ReplyInput struct {
	Original    Email
	Instruction string
	User        users.User
}

// BuildApplicationPrompt renders the application prompt. Empty fields are left out.
func BuildApplicationPrompt(in ApplicationInput) string {
	in.ResumeText = strings.TrimSpace(in.ResumeText)
	return render(application, in)
}

// BuildReplyPrompt renders the reply prompt. Empty fields are left out.
func BuildReplyPrompt(in ReplyInput) string {
	in.Instruction = strings.TrimSpace(in.Instruction)
	return render(reply, in)
}

func render(t *template.Template, data any) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		// templates only read struct fields, so this is a programming error
		panic(err)
	}
	return b.String()
}
