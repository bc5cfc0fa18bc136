// Package prompt builds the text sent to the generative backend. The
// orchestrator never assembles prompt text itself; tasks arrive with their
// prompt attached.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/rinaldofesta/superagents-sub002/internal/profile"
	"github.com/rinaldofesta/superagents-sub002/internal/scan"
)

const specialistTemplate = `You are writing the definition file for the "{{.Title}}" specialist agent on a software project.

Project goal: {{.Goal}}
{{- if .Languages}}
Project languages: {{.Languages}}
{{- end}}
Specialist role: {{.Role}}

Write a complete Markdown document with exactly these sections:

# {{.Title}}
A one-line mission statement for this specialist.

## Responsibilities
Four to six bullet points scoped strictly to the role above.

## Working Agreements
How this specialist hands work to and receives work from the rest of the team.

## First Tasks
Three concrete, project-specific tasks derived from the project goal.

Respond with the Markdown document only, no preamble and no commentary.`

const knowledgeTemplate = `You are writing the "{{.Name}}" knowledge module for a software project.

Project goal: {{.Goal}}
Module topic: {{.Topic}}
Maintained by: {{.Owner}}
{{- if .Languages}}
Project languages: {{.Languages}}
{{- end}}

Write a concise Markdown reference document a new team member could apply
immediately: current conventions, decisions already made, and pitfalls to
avoid. Use short sections with descriptive headings. Do not invent facts
about the project; where specifics are unknown, state the convention to
establish instead.

Respond with the Markdown document only, no preamble and no commentary.`

const overviewTemplate = `You are writing the team overview document for a software project.

Project goal: {{.Goal}}
Workspace: {{.Files}} files{{if .TestFiles}}, {{.TestFiles}} test files{{end}}
{{- if .Languages}}
Languages: {{.Languages}}
{{- end}}

The generated team:
{{- range .Team}}
- {{.Name}}: {{.Role}}
{{- end}}

Write a Markdown document titled "# Project Overview" that explains the goal
in your own words, describes how the specialists above divide the work, and
ends with a "## Getting Started" section telling a human operator which
specialist to engage first and why.

Respond with the Markdown document only, no preamble and no commentary.`

// Specialist renders the generation prompt for one specialist profile.
func Specialist(goal string, p profile.Profile, result *scan.Result) (string, error) {
	data := struct {
		Title     string
		Goal      string
		Role      string
		Languages string
	}{
		Title:     Title(p.Name),
		Goal:      goal,
		Role:      p.Role,
		Languages: languageList(result),
	}
	return render("specialist", specialistTemplate, data)
}

// Knowledge renders the generation prompt for one knowledge module.
func Knowledge(goal string, owner profile.Profile, spec profile.KnowledgeSpec, result *scan.Result) (string, error) {
	data := struct {
		Name      string
		Goal      string
		Topic     string
		Owner     string
		Languages string
	}{
		Name:      spec.Name,
		Goal:      goal,
		Topic:     spec.Topic,
		Owner:     Title(owner.Name),
		Languages: languageList(result),
	}
	return render("knowledge", knowledgeTemplate, data)
}

// Overview renders the generation prompt for the team overview document.
func Overview(goal string, result *scan.Result, team []profile.Profile) (string, error) {
	type member struct {
		Name string
		Role string
	}
	members := make([]member, len(team))
	for i, p := range team {
		members[i] = member{Name: Title(p.Name), Role: p.Role}
	}

	data := struct {
		Goal      string
		Files     int
		TestFiles int
		Languages string
		Team      []member
	}{
		Goal:      goal,
		Languages: languageList(result),
		Team:      members,
	}
	if result != nil {
		data.Files = result.Files
		data.TestFiles = result.TestFileCount
	}
	return render("overview", overviewTemplate, data)
}

func render(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}
	return sb.String(), nil
}

// languageList flattens a scan's languages for prompt text, most common
// first.
func languageList(result *scan.Result) string {
	if result == nil {
		return ""
	}
	return strings.Join(result.LanguageNames(), ", ")
}

// Title turns a registry name like "go-specialist" into "Go Specialist".
func Title(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
