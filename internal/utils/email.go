package utils

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/models"
)

// Mailer envoie les e-mails transactionnels. Sans SMTP_HOST il ne fait rien.
type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Enabled()
}

// BuildOrderConfirmation prépare le message de confirmation d'une commande
func (m *Mailer) BuildOrderConfirmation(to string, order models.Order) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject(fmt.Sprintf("Confirmation de commande #%d", order.ID))
	msg.SetBodyString(mail.TypeTextHTML, OrderConfirmationHTML(order))
	return msg, nil
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, to string, order models.Order) error {
	if !m.Enabled() {
		return nil
	}
	msg, err := m.BuildOrderConfirmation(to, order)
	if err != nil {
		return err
	}
	return m.send(ctx, to, msg)
}

// SendOrderConfirmationAsync n'attend pas l'envoi ; l'échec est seulement journalisé
func (m *Mailer) SendOrderConfirmationAsync(to string, order models.Order) {
	m.sendAsync(to, order, m.SendOrderConfirmation)
}

func (m *Mailer) send(ctx context.Context, to string, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(10 * time.Second),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSendWithContext(ctx, msg)
}

func (m *Mailer) sendAsync(to string, order models.Order, send func(context.Context, string, models.Order) error) {
	if !m.Enabled() || to == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := send(ctx, to, order); err != nil {
			log.Printf("❌ Erreur envoi e-mail commande %d: %v", order.ID, err)
		}
	}()
}

// OrderConfirmationHTML génère le HTML de confirmation de commande
func OrderConfirmationHTML(order models.Order) string {
	var rows strings.Builder
	for _, item := range order.Items {
		name := item.ProductName
		if name == "" {
			name = fmt.Sprintf("Produit #%d", item.ProductID)
		}
		fmt.Fprintf(&rows, `
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%s €</td>
				<td>%s €</td>
			</tr>`, html.EscapeString(name), item.Quantity,
			item.PriceAtTimeOfOrder.StringFixed(2), item.Subtotal().StringFixed(2))
	}

	addr := order.ShippingAddress
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Commande #%d confirmée</h2>
		<p>Bonjour %s,</p>
		<p>Votre commande a bien été enregistrée.</p>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th>Produit</th>
					<th>Quantité</th>
					<th>Prix unitaire</th>
					<th>Total</th>
				</tr>
			</thead>
			<tbody>%s
			</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="text-align: right; font-weight: bold;">Total :</td>
					<td style="font-weight: bold;">%s €</td>
				</tr>
			</tfoot>
		</table>

		<h3>Livraison</h3>
		<p>%s<br>%s<br>%s %s, %s<br>%s</p>
	</div>
</body>
</html>`,
		order.ID,
		html.EscapeString(addr.Name),
		rows.String(),
		order.Total.StringFixed(2),
		html.EscapeString(addr.Name),
		html.EscapeString(addr.Street),
		html.EscapeString(addr.Zip),
		html.EscapeString(addr.City),
		html.EscapeString(addr.State),
		html.EscapeString(addr.Country),
	)
}
