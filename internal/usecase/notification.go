package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/fournil/internal/domain/model"
)

// ErrNoRecipient is returned for clients without an email address.
var ErrNoRecipient = errors.New("client has no email address")

// MessageQueue accepts outbound messages without blocking.
type MessageQueue interface {
	Enqueue(msg model.Message, priority model.Priority) error
}

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format("2006-01-02") },
}

var welcomeTemplate = template.Must(template.New("welcome").Funcs(templateFuncs).Parse(
	`Hello {{.FirstName}} {{.LastName}},

Your account "{{.Login}}" is ready. You can now order on the upcoming batches.
`))

var statementTemplate = template.Must(template.New("statement").Funcs(templateFuncs).Parse(
	`Hello {{.Client.FirstName}} {{.Client.LastName}},

Statement as of {{date .AsOf}}.

Paid orders:
{{range .Paid}}  Batch {{date .BatchDate}}, order {{.ID}}: {{money .Total}}
{{range .Lines}}    {{.Quantity}} x {{.ProductName}} at {{money .UnitPrice}}
{{end}}{{else}}  none
{{end}}
Outstanding orders:
{{range .Outstanding}}  Batch {{date .BatchDate}}, order {{.ID}}: {{money .Total}}
{{range .Lines}}    {{.Quantity}} x {{.ProductName}} at {{money .UnitPrice}}
{{end}}{{else}}  none
{{end}}
Paid total: {{money .PaidTotal}}
Outstanding total: {{money .OutstandingTotal}}
Wallet balance: {{money .Wallet}}
`))

// Notifier renders client messages and hands them to the mail queue.
type Notifier struct {
	queue MessageQueue
	loc   *time.Location
	newID func() string
}

// NewNotifier constructs Notifier.
func NewNotifier(queue MessageQueue, loc *time.Location) *Notifier {
	if loc == nil {
		loc = time.Local
	}
	return &Notifier{queue: queue, loc: loc, newID: uuid.NewString}
}

// SendWelcome queues the registration confirmation ahead of bulk mail.
func (n *Notifier) SendWelcome(_ context.Context, client model.Client) error {
	if strings.TrimSpace(client.Email) == "" {
		return ErrNoRecipient
	}
	body, err := render(welcomeTemplate, client, nil)
	if err != nil {
		return err
	}
	return n.queue.Enqueue(model.Message{
		ID:      n.newID(),
		To:      client.Email,
		Subject: "Welcome to the cooperative",
		Body:    body,
	}, model.PriorityUrgent)
}

// SendStatement queues a settlement statement at bulk priority.
func (n *Notifier) SendStatement(_ context.Context, statement model.ClientStatement) error {
	if strings.TrimSpace(statement.Client.Email) == "" {
		return ErrNoRecipient
	}
	funcs := template.FuncMap{"date": n.formatDate}
	body, err := render(statementTemplate, statement, funcs)
	if err != nil {
		return err
	}
	return n.queue.Enqueue(model.Message{
		ID:      n.newID(),
		To:      statement.Client.Email,
		Subject: fmt.Sprintf("Statement of %s", n.formatDate(statement.AsOf)),
		Body:    body,
	}, model.PriorityBulk)
}

// SendMailing queues an administrator's message to one client at bulk
// priority. The first name placeholder is filled per recipient.
func (n *Notifier) SendMailing(_ context.Context, client model.Client, subject, body string) error {
	if strings.TrimSpace(client.Email) == "" {
		return ErrNoRecipient
	}
	return n.queue.Enqueue(model.Message{
		ID:      n.newID(),
		To:      client.Email,
		Subject: subject,
		Body:    strings.ReplaceAll(body, model.FirstNamePlaceholder, client.FirstName),
	}, model.PriorityBulk)
}

func (n *Notifier) formatDate(t time.Time) string {
	return t.In(n.loc).Format("2006-01-02")
}

func render(tmpl *template.Template, data any, funcs template.FuncMap) (string, error) {
	if funcs != nil {
		clone, err := tmpl.Clone()
		if err != nil {
			return "", err
		}
		tmpl = clone.Funcs(funcs)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
