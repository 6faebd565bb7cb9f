package present

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mithrel/freightdesk/internal/auth"
	"github.com/mithrel/freightdesk/internal/dashboard"
	"github.com/mithrel/freightdesk/internal/estimates"
	"github.com/mithrel/freightdesk/internal/inbox"
	"github.com/mithrel/freightdesk/internal/notify"
	"github.com/mithrel/freightdesk/internal/present/format"
	"github.com/mithrel/freightdesk/internal/quotes"
	"github.com/mithrel/freightdesk/internal/shipments"
	"github.com/mithrel/freightdesk/pkg/api"
)

func ts(t api.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func UserTable(u *auth.User) format.Table {
	t := format.Table{Title: "Account", Headers: []string{"field", "value"}}
	if u == nil {
		return t
	}
	t.Rows = [][]string{
		{"id", u.ID.String()},
		{"name", u.FullName()},
		{"email", u.Email},
		{"role", u.Role},
		{"enabled", strconv.FormatBool(u.Enabled)},
		{"otp verified", strconv.FormatBool(u.OTPVerified())},
	}
	return t
}

func EstimatesTable(p api.Paged[estimates.Estimate]) format.Table {
	t := format.Table{
		Title:   fmt.Sprintf("Quick estimates (page %d of %d)", p.Meta.Page, p.Meta.TotalPages),
		Headers: []string{"id", "origin", "destination", "weight", "dimensions", "type", "items", "created"},
	}
	for _, e := range p.Data {
		t.Rows = append(t.Rows, []string{
			e.ID.String(), e.Origin, e.Destination, num(e.Weight), e.Dimensions, e.Type, strconv.Itoa(e.Items), ts(e.CreatedAt),
		})
	}
	return t
}

func QuotesTable(list []quotes.DetailedQuote) format.Table {
	t := format.Table{
		Title:   "Detailed quotes",
		Headers: []string{"id", "pickup", "delivery", "pickup date", "weight", "service", "company"},
	}
	for _, q := range list {
		t.Rows = append(t.Rows, []string{
			q.ID.String(), q.PickupLocation, q.DeliveryLocation, q.PickupDate, num(q.Weight), q.ServiceLevel, q.CompanyName,
		})
	}
	return t
}

func QuoteTable(q quotes.DetailedQuote) format.Table {
	dims := ""
	for i, d := range q.Dimensions {
		if i > 0 {
			dims += ", "
		}
		dims += d.String()
	}
	insurance := ""
	if q.Insurance != nil {
		insurance = num(*q.Insurance)
	}
	return format.Table{
		Title:   "Quote " + q.ID.String(),
		Headers: []string{"field", "value"},
		Rows: [][]string{
			{"pickup", q.PickupLocation + " on " + q.PickupDate},
			{"delivery", q.DeliveryLocation + " on " + q.DeliveryDate},
			{"pieces", strconv.Itoa(q.NumberOfPieces)},
			{"weight", num(q.Weight)},
			{"dimensions", dims},
			{"freight class", q.FreightClass},
			{"commodity", q.CommodityDescription},
			{"hazardous", strconv.FormatBool(q.HazardousMaterials)},
			{"service level", q.ServiceLevel},
			{"insurance", insurance},
			{"company", q.CompanyName},
			{"contact", q.ContactPerson + " <" + q.EmailAddress + "> " + q.PhoneNumber},
			{"created", ts(q.CreatedAt)},
		},
	}
}

func ShipmentsTable(title string, list []shipments.Shipment) format.Table {
	t := format.Table{Title: title, Headers: []string{"shipment", "status", "eta", "route"}}
	for _, s := range list {
		id := s.ShipmentID
		if id == "" {
			id = s.ID.String()
		}
		t.Rows = append(t.Rows, []string{id, string(s.Status), s.ETA, s.OriginDestination})
	}
	return t
}

func EmailsTable(p inbox.Page) format.Table {
	t := format.Table{Title: fmt.Sprintf("Inbox (page %d)", p.Page), Headers: []string{"id", "from", "subject", "date", "read"}}
	for _, e := range p.Emails {
		date := "N/A"
		if e.Date != nil {
			date = e.Date.Local().Format(time.DateTime)
		}
		t.Rows = append(t.Rows, []string{e.ID, e.From, e.Subject, date, strconv.FormatBool(e.Read)})
	}
	return t
}

func NotificationRows(list []notify.Notification) [][]string {
	rows := make([][]string, 0, len(list))
	for _, n := range list {
		rows = append(rows, []string{n.Time.Local().Format(time.DateTime), string(n.Type), n.Title, n.Message})
	}
	return rows
}

var NotificationHeaders = []string{"time", "type", "title", "message"}

func DashboardTable(s dashboard.Summary) format.Table {
	health := "down"
	if s.Healthy {
		health = "ok"
	}
	rows := [][]string{
		{"api", health},
		{"estimates", strconv.Itoa(s.EstimatesTotal)},
		{"detailed quotes", strconv.Itoa(len(s.Quotes))},
		{"recent shipments", strconv.Itoa(len(s.Shipments))},
	}
	for _, st := range []shipments.Status{shipments.InTransit, shipments.Delivered, shipments.Delayed, shipments.Processing} {
		if n := s.ShipmentsByStat[st]; n > 0 {
			rows = append(rows, []string{"  " + string(st), strconv.Itoa(n)})
		}
	}
	return format.Table{Title: "Dashboard", Headers: []string{"metric", "value"}, Rows: rows}
}
