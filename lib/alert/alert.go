// Package alert emails a short report when an extraction run finishes
// in bad shape.
package alert

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"clutchintel/lib/scrapers/sitemaps"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("alert")

// runs below this success rate trigger an email unless configured
// otherwise
const DefaultMinSuccessRate = 0.8

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type Config struct {
	Smtp           SmtpConfig `json:"smtp"`
	To             []string   `json:"to"`
	MinSuccessRate float64    `json:"min_success_rate"`
}

type Mailer struct {
	config Config
}

func NewMailer(config Config) Mailer {
	return Mailer{config: config}
}

// SendRunAlert emails the configured recipients when the report's
// success rate falls below the threshold. It reports whether an email
// was sent. Without recipients it never sends.
func (m Mailer) SendRunAlert(ctx context.Context, kind string, report sitemaps.RunReport) (bool, error) {
	ctx, span := tracer.Start(ctx, "SendRunAlert")
	defer span.End()

	threshold := m.config.MinSuccessRate
	if threshold <= 0 {
		threshold = DefaultMinSuccessRate
	}
	if len(m.config.To) == 0 || report.SuccessRate() >= threshold {
		return false, nil
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Clutch Intel <%s>", m.config.Smtp.EmailAddress)
	mail.To = m.config.To
	mail.Subject = fmt.Sprintf("%s run: %d of %d sources failed", kind, report.Failed, report.TotalSources)
	mail.Text = []byte(runSummary(kind, report))

	addr := fmt.Sprintf("%s:%d", m.config.Smtp.Server, m.config.Smtp.Port)
	err := mail.Send(addr, smtp.PlainAuth("", m.config.Smtp.EmailAddress, m.config.Smtp.Password, m.config.Smtp.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send alert email")
		return false, err
	}
	return true, nil
}

func runSummary(kind string, report sitemaps.RunReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The %s extraction run finished at %s with a success rate of %.0f%%.\n\n",
		kind, report.FinishedAt.Format(time.RFC1123), report.SuccessRate()*100)
	fmt.Fprintf(&sb, "sources: %d\nsucceeded: %d\nfailed: %d\nurls: %d\nduration: %s\n",
		report.TotalSources, report.Succeeded, report.Failed, report.URLCount,
		report.Duration().Round(time.Second))

	if len(report.Failures) > 0 {
		sb.WriteString("\nFailures:\n")
		for _, f := range report.Failures {
			fmt.Fprintf(&sb, "  %s (%s after %d attempts): %s\n",
				f.Source.Location, f.Status, f.AttemptCount, f.Reason)
		}
	}
	return sb.String()
}
