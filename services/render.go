package services

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/Airlectric/E-commerce-notifications-microservice/models"
)

// Rendering is pure: payload plus looked-up user in, email out. No I/O.

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(
		`<h2>Welcome, {{.Username}}!</h2>
<p>Your account is ready. Browse the marketplace and place your first order whenever you like.</p>`))

	productCreatedTmpl = template.Must(template.New("product_created").Parse(
		`<h2>Your product is live</h2>
<p><strong>{{.Title}}</strong></p>
<p>{{.Description}}</p>
<p>Price: {{.Price}} &middot; Quantity: {{.Quantity}}</p>
<p>Listed at: {{.CreatedAt}}</p>`))

	productUpdatedTmpl = template.Must(template.New("product_updated").Parse(
		`<h2>Your product was updated</h2>
<p><strong>{{.Title}}</strong> ({{.Category}})</p>
<p>{{.Description}}</p>
<p>Price: {{.Price}} &middot; Quantity: {{.Quantity}}</p>`))

	productDeletedTmpl = template.Must(template.New("product_deleted").Parse(
		`<h2>Your product was removed</h2>
<p><strong>{{.Title}}</strong> is no longer listed on the marketplace.</p>`))

	orderLineTmpl = template.Must(template.New("order_line").Parse(
		`<h2>{{.Heading}}</h2>
<p>Product: <strong>{{.Title}}</strong></p>
<p>Quantity: {{.Quantity}}</p>
<p>Remaining stock: {{.Remaining}}</p>`))

	orderSummaryTmpl = template.Must(template.New("order_summary").Parse(
		`<h2>{{.Heading}}</h2>
<ul>
{{- range .Items}}
<li>{{.Title}} &times; {{.Quantity}}</li>
{{- end}}
</ul>`))
)

type orderLine struct {
	Heading   string
	Title     string
	Quantity  int
	Remaining string
}

type orderSummary struct {
	Heading string
	Items   []summaryItem
}

type summaryItem struct {
	Title    string
	Quantity int
}

func renderHTML(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template %s render failed: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func renderWelcomeEmail(user *models.User) (*models.EmailNotification, error) {
	html, err := renderHTML(welcomeTmpl, user)
	if err != nil {
		return nil, err
	}
	return &models.EmailNotification{
		UserID:    user.ID,
		Recipient: user.Email,
		EventType: models.TypeUserCreated,
		Subject:   "Welcome to the marketplace!",
		Text:      fmt.Sprintf("Welcome, %s! Your account is ready.", user.Username),
		HTML:      html,
	}, nil
}

func renderProductEmail(eventType string, seller *models.User, data *models.ProductEventData) (*models.EmailNotification, error) {
	var tmpl *template.Template
	var subject, text string

	switch eventType {
	case models.TypeProductCreated:
		tmpl = productCreatedTmpl
		subject = fmt.Sprintf("Your product is live: %s", data.Title)
		text = fmt.Sprintf("%s is now listed. Price: %g, quantity: %d, listed at: %s.",
			data.Title, data.Price, data.Quantity, data.CreatedAt)
	case models.TypeProductUpdated:
		tmpl = productUpdatedTmpl
		subject = fmt.Sprintf("Your product was updated: %s", data.Title)
		text = fmt.Sprintf("%s (%s) was updated. Price: %g, quantity: %d.",
			data.Title, data.Category, data.Price, data.Quantity)
	case models.TypeProductDeleted:
		tmpl = productDeletedTmpl
		subject = fmt.Sprintf("Your product was removed: %s", data.Title)
		text = fmt.Sprintf("%s is no longer listed on the marketplace.", data.Title)
	default:
		return nil, fmt.Errorf("no product template for event type %s", eventType)
	}

	html, err := renderHTML(tmpl, data)
	if err != nil {
		return nil, err
	}
	return &models.EmailNotification{
		UserID:    seller.ID,
		Recipient: seller.Email,
		EventType: eventType,
		Subject:   subject,
		Text:      text,
		HTML:      html,
	}, nil
}

// orderVerb maps an order event type to the word used in subjects and
// headings: placed, updated or cancelled.
func orderVerb(eventType string) string {
	switch eventType {
	case models.TypeOrderUpdated:
		return "updated"
	case models.TypeOrderDeleted:
		return "cancelled"
	default:
		return "placed"
	}
}

func renderOrderLineEmail(eventType string, seller *models.User, title string, quantity int, remaining string) (*models.EmailNotification, error) {
	verb := orderVerb(eventType)
	line := orderLine{
		Heading:   fmt.Sprintf("An order for your product was %s", verb),
		Title:     title,
		Quantity:  quantity,
		Remaining: remaining,
	}
	html, err := renderHTML(orderLineTmpl, line)
	if err != nil {
		return nil, err
	}
	return &models.EmailNotification{
		UserID:    seller.ID,
		Recipient: seller.Email,
		EventType: eventType,
		Subject:   fmt.Sprintf("Order %s: %s", verb, title),
		Text:      fmt.Sprintf("Order %s for %s. Quantity: %d, remaining stock: %s.", verb, title, quantity, remaining),
		HTML:      html,
	}, nil
}

func renderOrderSummaryEmail(eventType string, buyer *models.User, data *models.OrderEventData) (*models.EmailNotification, error) {
	verb := orderVerb(eventType)
	summary := orderSummary{
		Heading: fmt.Sprintf("Your order has been %s", verb),
	}

	var textItems []string
	for i := range data.SellerIDs {
		title := titleAt(data, i)
		quantity := quantityAt(data, i)
		summary.Items = append(summary.Items, summaryItem{Title: title, Quantity: quantity})
		textItems = append(textItems, fmt.Sprintf("%s x%d", title, quantity))
	}

	html, err := renderHTML(orderSummaryTmpl, summary)
	if err != nil {
		return nil, err
	}
	return &models.EmailNotification{
		UserID:    buyer.ID,
		Recipient: buyer.Email,
		EventType: eventType,
		Subject:   fmt.Sprintf("Your order has been %s", verb),
		Text:      fmt.Sprintf("Your order has been %s: %s.", verb, strings.Join(textItems, ", ")),
		HTML:      html,
	}, nil
}
