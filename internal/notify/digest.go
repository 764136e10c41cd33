package notify

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	texttemplate "text/template"

	"github.com/hailscout/hailscout/internal/metrics"
	"github.com/hailscout/hailscout/internal/models"
)

// DeliveryResult reports per-recipient outcomes for one digest send.
type DeliveryResult struct {
	Sent   int
	Failed int
}

// Gateway sends one digest email per recipient. One recipient's failure
// never prevents delivery to the others.
type Gateway struct {
	mailer Mailer
	from   string
	logger *slog.Logger
}

func NewGateway(mailer Mailer, from string, logger *slog.Logger) *Gateway {
	return &Gateway{mailer: mailer, from: from, logger: logger}
}

var textTmpl = texttemplate.Must(texttemplate.New("digest").Funcs(texttemplate.FuncMap{
	"join": strings.Join,
}).Parse(`Storm activity qualifying for canvassing was detected in {{.Region}}.

{{if .IsHail}}Largest hail: {{printf "%.2f" .MaxHailInches}} in{{else}}Peak wind: {{printf "%.0f" .MaxWindMph}} mph{{end}}
Affected areas: {{join .AffectedAreas "; "}}

{{range .Storms}}* {{.EventType}} - {{.AreaDescription}}
  Severity score: {{.SeverityScore}}/10{{if .IsHail}}, hail {{printf "%.2f" .HailInches}} in{{end}}{{if gt .WindMph 0.0}}, wind {{printf "%.0f" .WindMph}} mph{{end}}
  Estimated market: {{.DamageEstimate.PotentialJobs}} jobs, ${{.DamageEstimate.TotalMarketValue}} total
{{range .Recommendations}}  - {{.}}
{{end}}
{{end}}`))

var htmlTmpl = template.Must(template.New("digest").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`<h2>Storm activity in {{.Region}}</h2>
<p>{{if .IsHail}}Largest hail: <b>{{printf "%.2f" .MaxHailInches}} in</b>{{else}}Peak wind: <b>{{printf "%.0f" .MaxWindMph}} mph</b>{{end}}</p>
<p>Affected areas: {{join .AffectedAreas "; "}}</p>
{{range .Storms}}<h3>{{.EventType}} - {{.AreaDescription}}</h3>
<p>Severity score {{.SeverityScore}}/10{{if .IsHail}}, hail {{printf "%.2f" .HailInches}} in{{end}}{{if gt .WindMph 0.0}}, wind {{printf "%.0f" .WindMph}} mph{{end}}.
Estimated market: {{.DamageEstimate.PotentialJobs}} jobs, ${{.DamageEstimate.TotalMarketValue}} total.</p>
<ul>{{range .Recommendations}}<li>{{.}}</li>{{end}}</ul>
{{end}}`))

// digestView adapts a RegionDigest for the templates.
type digestView struct {
	Region        string
	IsHail        bool
	MaxHailInches float64
	MaxWindMph    float64
	AffectedAreas []string
	Storms        []models.QualifyingStorm
}

// SendCategoryDigest renders and delivers one digest to every recipient.
// Failures are logged and counted; the gateway does not retry.
func (g *Gateway) SendCategoryDigest(ctx context.Context, digest *models.RegionDigest, recipients []string) DeliveryResult {
	var result DeliveryResult
	if digest == nil || len(recipients) == 0 {
		return result
	}

	subject := digestSubject(digest)
	text, html, err := renderDigest(digest)
	if err != nil {
		g.logger.Error("render digest failed", "region", digest.Region, "category", digest.Category, "error", err)
		result.Failed = len(recipients)
		return result
	}

	for _, to := range recipients {
		msg := Message{From: g.from, To: to, Subject: subject, Text: text, HTML: html}
		if err := g.mailer.Send(ctx, msg); err != nil {
			g.logger.Warn("digest delivery failed",
				"region", digest.Region, "category", digest.Category, "to", to, "error", err)
			metrics.NotificationsSent.WithLabelValues(digest.Region, string(digest.Category), "failed").Inc()
			result.Failed++
			continue
		}
		metrics.NotificationsSent.WithLabelValues(digest.Region, string(digest.Category), "sent").Inc()
		result.Sent++
	}
	return result
}

func digestSubject(d *models.RegionDigest) string {
	if d.Category == models.DigestHail {
		return fmt.Sprintf("Hail alert for %s: up to %.2f in", d.Region, d.MaxHailInches)
	}
	return fmt.Sprintf("Wind alert for %s: gusts to %.0f mph", d.Region, d.MaxWindMph)
}

func renderDigest(d *models.RegionDigest) (string, string, error) {
	view := digestView{
		Region:        d.Region,
		IsHail:        d.Category == models.DigestHail,
		MaxHailInches: d.MaxHailInches,
		MaxWindMph:    d.MaxWindMph,
		AffectedAreas: d.AffectedAreas,
		Storms:        d.Storms,
	}

	var text strings.Builder
	if err := textTmpl.Execute(&text, view); err != nil {
		return "", "", fmt.Errorf("execute text template: %w", err)
	}
	var html strings.Builder
	if err := htmlTmpl.Execute(&html, view); err != nil {
		return "", "", fmt.Errorf("execute html template: %w", err)
	}
	return text.String(), html.String(), nil
}
