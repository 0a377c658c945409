package ai

import (
	"fmt"
	"strings"

	"github.com/nyashahama/audit-planner/internal/audit"
	"github.com/nyashahama/audit-planner/internal/risk"
)

const noRiskAnalysis = "No separate risk analysis is available; base the risk assessment on the risk signals and company information above."

// BuildRiskAnalysisPrompt asks for an assessment of the collected risk
// signals in the context of the audit inputs.
func BuildRiskAnalysisPrompt(in audit.Inputs, risks risk.Buckets) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze the following risk data for %s in the %s sector.\n\n", in.CompanyName, in.Sector)
	writeContext(&sb, in)
	writeRisks(&sb, risks)

	sb.WriteString("Please provide a comprehensive risk analysis that:\n")
	sb.WriteString("1. Evaluates the severity of each risk\n")
	sb.WriteString("2. Suggests mitigation strategies\n")
	sb.WriteString("3. Identifies any additional risks based on the company description\n")
	sb.WriteString("4. Provides recommendations for the audit plan\n")
	return sb.String()
}

// BuildPlanPrompt asks for the audit plan narrative. riskAnalysis may be
// empty when the analysis step failed.
func BuildPlanPrompt(in audit.Inputs, risks risk.Buckets, riskAnalysis string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate a comprehensive audit plan for %s, a company in the %s sector.\n\n", in.CompanyName, in.Sector)
	writeContext(&sb, in)
	writeRisks(&sb, risks)

	sb.WriteString("Risk Analysis:\n")
	if a := strings.TrimSpace(riskAnalysis); a != "" {
		sb.WriteString(a)
	} else {
		sb.WriteString(noRiskAnalysis)
	}
	sb.WriteString("\n\n")

	sb.WriteString(`Please provide the following sections, each starting with a numbered heading on its own line ("1. Audit Objectives") and separated by a blank line:
1. Audit Objectives
2. Scope of Audit
3. Risk Assessment
   - Based on the sector and company information provided
   - Include industry-specific risks
   - Analyze operational risks based on the company's nature and function
4. Audit Procedures
5. Substantive Audit Procedures
   - Provide detailed procedures based on the risk assessment
   - Include specific tests for key areas identified
   - Consider the company's business model and operations
6. Recommendations
7. Timeline and Milestones
8. Resource Allocation
9. Special Considerations Analysis

`)
	if sc := strings.TrimSpace(in.SpecialConsiderations); sc != "" {
		fmt.Fprintf(&sb, "For the Special Considerations Analysis section, interpret and analyze the following special considerations: %q. ", sc)
		sb.WriteString("Explain how they should be addressed in the audit plan, which procedures should be implemented and which risks or challenges they present.\n")
	} else {
		sb.WriteString("No special considerations were given; state that in the Special Considerations Analysis section.\n")
	}
	fmt.Fprintf(&sb, "Make the response detailed and specific to the %s sector and the company's nature and function as described. ", in.Sector)
	sb.WriteString("For each compliance requirement, include specific audit procedures and considerations. ")
	sb.WriteString("Consider the roles of the audit team members when assigning responsibilities.\n")
	return sb.String()
}

// writeContext writes the audit inputs shared by both prompts.
func writeContext(sb *strings.Builder, in audit.Inputs) {
	fmt.Fprintf(sb, "Audit Period: %s\n\n", in.AuditPeriod())

	sb.WriteString("Description of the Company:\n")
	if d := strings.TrimSpace(in.Description); d != "" {
		sb.WriteString(d)
	} else {
		sb.WriteString("Not provided.")
	}
	sb.WriteString("\n\n")

	sb.WriteString("Audit Team:\n")
	for _, p := range in.Personnel {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = "Unnamed Auditor"
		}
		fmt.Fprintf(sb, "- %s (%s)\n", name, p.Role)
	}
	sb.WriteString("\n")

	fmt.Fprintf(sb, "Compliance Requirements: %s\n", orNotSpecified(in.ComplianceList()))
	fmt.Fprintf(sb, "Audit Focus Areas: %s\n", orNotSpecified(in.FocusList()))
	fmt.Fprintf(sb, "Special Considerations: %s\n\n", orNotSpecified(in.SpecialConsiderations))
}

// writeRisks writes every bucket, in category order, empty ones included.
func writeRisks(sb *strings.Builder, risks risk.Buckets) {
	for _, c := range risk.Categories {
		fmt.Fprintf(sb, "%s:\n", c.Label())
		items := risks[c]
		if len(items) == 0 {
			sb.WriteString("- none identified\n\n")
			continue
		}
		for _, item := range items {
			fmt.Fprintf(sb, "- %s\n", item)
		}
		sb.WriteString("\n")
	}
}

func orNotSpecified(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "None specified"
	}
	return s
}
