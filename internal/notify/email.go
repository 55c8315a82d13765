package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"

	"finance/internal/config"
	"finance/internal/conformance"
	"finance/internal/logger"
)

// Sender emails conformance alerts via SMTP
type Sender struct {
	cfg  *config.Config
	log  zerolog.Logger
	send func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config) *Sender {
	return &Sender{
		cfg: cfg,
		log: logger.WithComponent("notify"),
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// NotifyConformance sends an alert when either side of the report is below
// full conformance. It reports whether a message went out.
func (s *Sender) NotifyConformance(report conformance.Report) (bool, error) {
	const op = "NotifyConformance"

	if report.Worst() == conformance.SeverityOK {
		s.log.Debug().Msg("Conformance is ok, no alert sent")
		return false, nil
	}
	if !s.cfg.AlertsEnabled() {
		s.log.Warn().Msg("Conformance below threshold but SMTP alerts are not configured")
		return false, nil
	}

	e := BuildConformanceAlert(report)
	e.From = s.cfg.AlertFrom
	e.To = s.cfg.AlertTo

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}

	if err := s.send(e, addr, auth); err != nil {
		s.log.Error().Err(err).Strs("to", e.To).Msg("Failed to send conformance alert")
		return false, fmt.Errorf("%s: failed to send email: %w", op, err)
	}

	s.log.Info().
		Strs("to", e.To).
		Str("subject", e.Subject).
		Msg("Conformance alert sent")

	return true, nil
}

// BuildConformanceAlert renders the report as a plain-text message without
// sender or recipients.
func BuildConformanceAlert(report conformance.Report) *email.Email {
	e := email.NewEmail()
	e.Subject = fmt.Sprintf("[%s] Conformidade fiscal %s", report.Worst().Label(), periodLabel(report))

	var b strings.Builder
	b.WriteString("Resumo de conformidade fiscal\n")
	fmt.Fprintf(&b, "Período: %s\n\n", periodLabel(report))
	writeResult(&b, "Receitas (notas emitidas / recebimentos PJ)", report.Revenue)
	b.WriteString("\n")
	writeResult(&b, "Despesas (notas recebidas / despesas não fiscais)", report.Expense)
	fmt.Fprintf(&b, "\nGerado em %s\n", report.GeneratedAt.Format("02/01/2006 15:04"))
	e.Text = []byte(b.String())

	return e
}

func writeResult(b *strings.Builder, title string, r conformance.Result) {
	fmt.Fprintf(b, "%s\n", title)
	if r.NotApplicable {
		b.WriteString("  Sem movimento no período\n")
		return
	}
	fmt.Fprintf(b, "  Situação: %s (%d%%)\n", r.Severity.Label(), r.Percentage)
	fmt.Fprintf(b, "  Notas: R$ %s em %d nota(s)\n", r.Numerator.StringFixed(2), r.InvoiceCount)
	fmt.Fprintf(b, "  Base: R$ %s em %d lançamento(s)\n", r.Denominator.StringFixed(2), r.CountConsidered)
	if diff := r.Denominator.Sub(r.Numerator); diff.IsPositive() {
		fmt.Fprintf(b, "  Faltam R$ %s em notas\n", diff.StringFixed(2))
	}
}

func periodLabel(report conformance.Report) string {
	from, to := "início", "hoje"
	if !report.Range.From.IsZero() {
		from = report.Range.From.Format("02/01/2006")
	}
	if !report.Range.To.IsZero() {
		to = report.Range.To.Format("02/01/2006")
	}
	return from + " a " + to
}
