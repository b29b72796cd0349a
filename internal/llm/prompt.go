package llm

import (
	"fmt"
	"strings"
)

// maxPromptChars keeps the assembled prompt within the model's input
// window (roughly 25k tokens).
const maxPromptChars = 100000

const promptClipMarker = "\n\n... [context truncated to fit prompt limit] ..."

const overviewTemplate = `You are an expert in code analysis and technical communication.

Analyze the following repository and produce a contextual onboarding overview in Markdown.

## Repository Information:
- **Name:** %s
- **Description:** %s
- **Stars:** %d | **Forks:** %d
- **Last Updated:** %s

## Context Files (README, configs, etc.):
%s

---

## Your Task:
Write a clear, well-structured Markdown overview focused on the GENERAL CONTEXT of the project.

### Structure:

1. **Title and Introduction**: an engaging title and a welcome paragraph explaining what the project is.
2. **Problem and Solution**: one paragraph on the problem it solves, one on how it solves it.
3. **Key Features**: a list of the main features, specific about what each one does.
4. **Who Is This For?**: a paragraph on the target audience and typical use cases.
5. **Getting Started**: simple usage steps, only if the README or configs contain clear install/usage information.
6. **Closing Notes**: a short closing paragraph; project status or an invitation to contribute is fine.

### Rules:
- Do NOT list languages, frameworks or libraries
- Do NOT show directory structure
- Do NOT analyze the architecture
- FOCUS on the overall context, purpose and value of the project
- Be informative but accessible
- Base the answer ONLY on the data provided
- Return ONLY the Markdown, no extra commentary`

// OverviewInput carries the repository facts the overview prompt needs.
type OverviewInput struct {
	RepoName    string
	Description string
	Stars       int
	Forks       int
	UpdatedAt   string
	Payload     string
}

// BuildOverviewPrompt renders the onboarding-overview prompt. If the
// result would exceed maxPromptChars the context payload is clipped so
// the surrounding template survives intact.
func BuildOverviewPrompt(in OverviewInput) string {
	name := in.RepoName
	if name == "" {
		name = "Repository"
	}
	desc := in.Description
	if desc == "" {
		desc = "No description available"
	}
	updated := in.UpdatedAt
	if updated == "" {
		updated = "N/A"
	}
	payload := in.Payload
	if payload == "" {
		payload = "No context extracted"
	}

	render := func(p string) string {
		return fmt.Sprintf(overviewTemplate, name, desc, in.Stars, in.Forks, updated, p)
	}

	prompt := render(payload)
	if len(prompt) <= maxPromptChars {
		return prompt
	}

	excess := len(prompt) - maxPromptChars
	cut := len(payload) - excess - 500
	if cut < 0 {
		cut = 0
	}
	clipped := strings.ToValidUTF8(payload[:cut], "") + promptClipMarker
	return render(clipped)
}
