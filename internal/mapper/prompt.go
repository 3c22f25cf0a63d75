package mapper

import (
	"strings"

	"github.com/spigell/lexnorm/internal/model"
)

const (
	SummaryPlaceholder   = "{summary}"
	StandardsPlaceholder = "{standards}"
)

// DefaultPrompt is the mapping template used when none is configured.
const DefaultPrompt = `Based on the course content summary below, identify the most relevant occupational standards from the provided list.

Instructions:
1. Analyze the course content summary for skills, competencies, and learning outcomes
2. Match these with the most relevant occupational standards
3. Provide a confidence score (0-100) for each match
4. Provide detailed reasoning for why each standard matches
5. Include gap analysis for each mapping (what's missing or partially covered)
6. Return only the top 10 most relevant matches
7. At the end, provide an overall gap analysis summarizing what occupational standards are missing or not well covered
8. Format the response as a JSON object with the following structure:
{
    "mappings": [
        {
            "job_role": "role_name",
            "nos_code": "code",
            "nos_name": "name",
            "pc_code": "pc_code",
            "pc_description": "description",
            "confidence_score": 85,
            "reasoning": "detailed explanation of why this standard matches the course content",
            "gap_analysis": "explanation of what aspects are missing or only partially covered"
        }
    ],
    "overall_gap_analysis": "comprehensive analysis of what occupational competencies are missing from the course content and recommendations for improvement"
}

Course Content Summary:
{summary}

Available Occupational Standards:
{standards}

Please provide only the JSON response without any additional text or markdown formatting.`

// renderStandards flattens the candidate set into one text block, keeping catalog order.
func renderStandards(standards []model.Standard) string {
	var builder strings.Builder
	for _, s := range standards {
		builder.WriteString("Job Role: ")
		builder.WriteString(s.JobRole)
		builder.WriteString("\nNOS Code: ")
		builder.WriteString(s.NOSCode)
		builder.WriteString("\nNOS Name: ")
		builder.WriteString(s.NOSName)
		builder.WriteString("\nPC Code: ")
		builder.WriteString(s.PCCode)
		builder.WriteString("\nPC Description: ")
		builder.WriteString(s.PCDescription)
		builder.WriteString("\n---\n")
	}
	return builder.String()
}

// buildPrompt fills the placeholders of template. A template without placeholders is sent as is.
func buildPrompt(template, summary string, standards []model.Standard) string {
	return strings.NewReplacer(
		SummaryPlaceholder, summary,
		StandardsPlaceholder, renderStandards(standards),
	).Replace(template)
}
