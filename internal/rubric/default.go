package rubric

// Default returns the built-in media technology transformation rubric:
// six categories, eighteen criteria, weights summing to 100.
func Default() *Rubric {
	return &Rubric{
		Domain: "MEDIA",
		Categories: []Category{
			{
				Key:    "experience_quality",
				Name:   "Relevance and Quality of Experience",
				Weight: 25,
				Criteria: []Criterion{
					{Key: "experience", Weight: 10, Text: "Evidence of experience in AI and data strategy development and broadcast and media technology transformation within the media sector"},
					{Key: "case_studies", Weight: 10, Text: "Case studies of similar transformation initiatives, including IP-based production and hybrid infrastructure outcomes"},
					{Key: "domain_experience", Weight: 5, Text: "Experience applying AI to content workflows, operational efficiency, and audience engagement across linear and digital platforms"},
				},
			},
			{
				Key:    "project_objectives",
				Name:   "Understanding of Project Objectives",
				Weight: 20,
				Criteria: []Criterion{
					{Key: "approach_alignment", Weight: 7, Text: "How the proposed approach aligns with the organisation's mission and transformation objectives"},
					{Key: "understanding_challenges", Weight: 7, Text: "Demonstrated understanding of the organisation's challenges and strategic goals"},
					{Key: "solution_tailoring", Weight: 6, Text: "Ability to tailor solutions to the organisation's specific operational and strategic needs"},
				},
			},
			{
				Key:    "approach_methodology",
				Name:   "Proposed Approach and Methodology",
				Weight: 26,
				Criteria: []Criterion{
					{Key: "strategy_alignment", Weight: 7, Text: "Alignment of the proposed strategy with the transformation programme"},
					{Key: "methodology", Weight: 6, Text: "Detailed delivery methodology with timelines, milestones, and key deliverables per phase"},
					{Key: "innovative_strategies", Weight: 5, Text: "Innovative strategies for cloud integration, AI implementation, workflow optimisation, and change management"},
					{Key: "stakeholder_engagement", Weight: 5, Text: "Mechanisms for stakeholder engagement, risk management, cybersecurity, and compliance"},
					{Key: "tools_framework", Weight: 3, Text: "Overview of tools, frameworks, and methodologies used in similar engagements"},
				},
			},
			{
				Key:    "cost_value",
				Name:   "Cost and Value for Money",
				Weight: 14,
				Criteria: []Criterion{
					{Key: "cost_structure", Weight: 6, Text: "Preliminary cost structure broken down by transformation phase and deliverable"},
					{Key: "cost_effectiveness", Weight: 5, Text: "Cost-effectiveness, including reuse of existing infrastructure and hybrid models"},
					{Key: "roi", Weight: 3, Text: "Anticipated return on investment and value derived from proposed solutions"},
				},
			},
			{
				Key:    "references_testimonials",
				Name:   "References and Testimonials",
				Weight: 10,
				Criteria: []Criterion{
					{Key: "references", Weight: 6, Text: "At least two references from comparable engagements, with contact details"},
					{Key: "testimonials", Weight: 2, Text: "Testimonials or case studies demonstrating the quality and impact of previous work"},
					{Key: "sustainability", Weight: 2, Text: "Evidence of sustainable outcomes and long-term partnership building"},
				},
			},
			{
				Key:    "deliverable_completeness",
				Name:   "Deliverable Completeness",
				Weight: 5,
				Criteria: []Criterion{
					{Key: "deliverables", Weight: 5, Text: "All requested deliverables stipulated in the scope are submitted"},
				},
			},
		},
	}
}
