package seeder

import (
	"context"
	"log"

	"Backend-FlowForge/src/models"
	"Backend-FlowForge/src/services/flows"
)

// SeedDefaultFlows creates a published default onboarding flow and a sample
// questionnaire for development environments.
func SeedDefaultFlows() error {
	ctx := context.Background()

	onboarding := &models.Flow{
		Title:       "Welcome Onboarding",
		Description: "Tell us about yourself so we can tailor your workspace",
		Type:        models.FlowOnboarding,
		Settings: models.FlowSettings{
			AllowSkipSections: true,
			ShowProgressBar:   true,
			AllowSaveProgress: true,
			CompletionMessage: "You're all set. Welcome aboard!",
		},
		Sections: []models.Section{
			{
				ID:    "profile",
				Title: "Your profile",
				Order: 1,
				Questions: []models.Question{
					{
						ID:         "full_name",
						Type:       models.ShortText,
						Text:       "What is your full name?",
						Validation: models.ValidationRules{Required: true},
					},
					{
						ID:         "work_email",
						Type:       models.Email,
						Text:       "What is your work email?",
						Validation: models.ValidationRules{Required: true},
					},
					{
						ID:   "role",
						Type: models.Select,
						Text: "What best describes your role?",
						Options: []models.Option{
							{ID: "dev", Text: "Developer", Value: "developer"},
							{ID: "design", Text: "Designer", Value: "designer"},
							{ID: "pm", Text: "Product Manager", Value: "product_manager"},
							{ID: "other", Text: "Other", Value: "other"},
						},
						Validation: models.ValidationRules{Required: true},
					},
					{
						ID:          "role_other",
						Type:        models.ShortText,
						Text:        "Tell us more about your role",
						Placeholder: "e.g. Data scientist",
						ConditionalLogic: &models.ConditionalLogic{
							QuestionID: "role",
							Operator:   models.OpEquals,
							Value:      "other",
						},
					},
				},
			},
			{
				ID:    "team",
				Title: "Your team",
				Order: 2,
				Questions: []models.Question{
					{
						ID:   "team_size",
						Type: models.Slider,
						Text: "How many people are on your team?",
						Validation: models.ValidationRules{
							Required: true,
							Min:      floatPtr(1),
							Max:      floatPtr(100),
							Step:     floatPtr(1),
						},
					},
					{
						ID:   "tools",
						Type: models.Checkbox,
						Text: "Which tools does your team already use?",
						Options: []models.Option{
							{ID: "slack", Text: "Slack", Value: "slack"},
							{ID: "jira", Text: "Jira", Value: "jira"},
							{ID: "github", Text: "GitHub", Value: "github"},
							{ID: "figma", Text: "Figma", Value: "figma"},
						},
					},
				},
			},
			{
				ID:         "feedback",
				Title:      "Anything else?",
				Order:      3,
				IsOptional: true,
				Questions: []models.Question{
					{
						ID:          "expectations",
						Type:        models.LongText,
						Text:        "What do you hope to get out of the product?",
						Placeholder: "Optional, but it helps us help you",
					},
				},
			},
		},
	}

	questionnaire := &models.Flow{
		Title:       "Quarterly Satisfaction Survey",
		Description: "Five minutes of your time to make the product better",
		Type:        models.FlowQuestionnaire,
		Settings: models.FlowSettings{
			RequireAllSections: true,
			ShowProgressBar:    true,
		},
		Sections: []models.Section{
			{
				ID:    "ratings",
				Title: "Ratings",
				Order: 1,
				Questions: []models.Question{
					{
						ID:   "overall",
						Type: models.Radio,
						Text: "How satisfied are you overall?",
						Options: []models.Option{
							{ID: "1", Text: "Very dissatisfied", Value: "1"},
							{ID: "2", Text: "Dissatisfied", Value: "2"},
							{ID: "3", Text: "Neutral", Value: "3"},
							{ID: "4", Text: "Satisfied", Value: "4"},
							{ID: "5", Text: "Very satisfied", Value: "5"},
						},
						Validation: models.ValidationRules{Required: true},
					},
					{
						ID:   "favorites",
						Type: models.Ranking,
						Text: "Rank the areas we should invest in",
						Options: []models.Option{
							{ID: "perf", Text: "Performance", Value: "performance"},
							{ID: "ui", Text: "Interface", Value: "interface"},
							{ID: "integrations", Text: "Integrations", Value: "integrations"},
						},
					},
					{
						ID:   "detractor_reason",
						Type: models.LongText,
						Text: "What went wrong for you?",
						ConditionalLogic: &models.ConditionalLogic{
							QuestionID: "overall",
							Operator:   models.OpLessThan,
							Value:      3,
						},
					},
				},
			},
		},
	}

	for _, flow := range []*models.Flow{onboarding, questionnaire} {
		created, err := flows.CreateFlow(ctx, flow)
		if err != nil {
			log.Printf("Error creating flow '%s': %v", flow.Title, err)
			continue
		}
		if err := flows.PublishFlow(ctx, created.ID); err != nil {
			log.Printf("Error publishing flow '%s': %v", flow.Title, err)
			continue
		}
		if err := flows.SetDefaultFlow(ctx, created.ID); err != nil {
			log.Printf("Error setting default flow '%s': %v", flow.Title, err)
			continue
		}
		log.Printf("✅ Seeded flow: %s (ID: %s)", created.Title, created.ID.Hex())
	}

	return nil
}

func floatPtr(v float64) *float64 { return &v }
