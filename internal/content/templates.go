package content

import (
	"fmt"
	"sync"

	"github.com/osteele/liquid"

	"github.com/ignite/club-outreach/internal/domain"
)

// Stage email templates. The personalized fragment from the content model is
// injected at {{ personalized_content }}.
var defaultTemplates = map[domain.Stage]string{
	domain.StageIntroduction: `Hi {{ club_name }} team,

{{ personalized_content }}

We'd love to offer your members an exclusive discount on DxO's photo editing suite. Clubs like yours typically see members save 30% on PhotoLab and the Nik Collection.

Would you be open to sharing the offer with your members?

Best regards,
The DxO Partnerships Team`,

	domain.StageCheckup: `Hi {{ club_name }} team,

Just checking in on the note we sent a little while ago.

{{ personalized_content }}

The member discount is still available, and setting it up takes only a few minutes on our side.

Best regards,
The DxO Partnerships Team`,

	domain.StageAcceptance: `Hi {{ club_name }} team,

Fantastic news — we're excited to get your members set up!

{{ personalized_content }}

Here's how the discount works: we'll issue a club-specific code you can share through your usual member channels. The code applies at checkout on the full DxO range.

Best regards,
The DxO Partnerships Team`,
}

var stageSubjects = map[domain.Stage]string{
	domain.StageIntroduction: "An exclusive DxO discount for your members",
	domain.StageCheckup:      "Following up on the DxO member discount",
	domain.StageAcceptance:   "Your DxO club discount is ready",
}

// Subject returns the email subject line for a stage.
func Subject(stage domain.Stage) string {
	return stageSubjects[stage]
}

// TemplateRenderer renders Liquid stage templates, caching parsed templates
// per stage.
type TemplateRenderer struct {
	engine    *liquid.Engine
	templates map[domain.Stage]string
	cache     sync.Map // map[domain.Stage]*liquid.Template
}

// NewTemplateRenderer creates a renderer using the built-in stage templates.
func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{
		engine:    liquid.NewEngine(),
		templates: defaultTemplates,
	}
}

// Render produces the full email body for a stage.
func (r *TemplateRenderer) Render(stage domain.Stage, clubName, personalized string) (string, error) {
	tpl, err := r.template(stage)
	if err != nil {
		return "", err
	}
	out, err := tpl.RenderString(map[string]interface{}{
		"club_name":            clubName,
		"personalized_content": personalized,
	})
	if err != nil {
		return "", fmt.Errorf("render %s template: %w", stage, err)
	}
	return out, nil
}

func (r *TemplateRenderer) template(stage domain.Stage) (*liquid.Template, error) {
	if cached, ok := r.cache.Load(stage); ok {
		return cached.(*liquid.Template), nil
	}
	src, ok := r.templates[stage]
	if !ok {
		return nil, fmt.Errorf("no template for stage %q", stage)
	}
	tpl, err := r.engine.ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", stage, err)
	}
	r.cache.Store(stage, tpl)
	return tpl, nil
}
