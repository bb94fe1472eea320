package utils

import (
	"context"
	"fmt"
	"html"

	"github.com/wneessen/go-mail"

	"storefront_back_end/internal/models"
)

type statusNotice struct {
	subject string
	message string
	icon    string
	color   string
}

var statusNotices = map[models.OrderStatus]statusNotice{
	models.OrderStatusProcessing: {
		subject: "⚙️ Votre commande est en préparation",
		message: "Nous préparons votre commande.",
		icon:    "⚙️",
		color:   "#10b981", // Green
	},
	models.OrderStatusShipped: {
		subject: "📦 Votre commande a été expédiée",
		message: "Bonne nouvelle ! Votre commande a été expédiée et est en route vers vous.",
		icon:    "📦",
		color:   "#3b82f6", // Blue
	},
	models.OrderStatusDelivered: {
		subject: "🎉 Votre commande a été livrée",
		message: "Votre commande a été livrée. Nous espérons que vous en êtes satisfait !",
		icon:    "🎉",
		color:   "#8b5cf6", // Purple
	},
	models.OrderStatusCancelled: {
		subject: "❌ Commande annulée",
		message: "Votre commande a été annulée. Si vous avez des questions, n'hésitez pas à nous contacter.",
		icon:    "❌",
		color:   "#ef4444", // Red
	},
}

func noticeFor(status models.OrderStatus) statusNotice {
	if n, ok := statusNotices[status]; ok {
		return n
	}
	return statusNotice{
		subject: "📋 Mise à jour de votre commande",
		message: "Le statut de votre commande a été mis à jour.",
		icon:    "📋",
		color:   "#6b7280", // Gray
	}
}

// BuildOrderStatus prépare la notification de changement de statut
func (m *Mailer) BuildOrderStatus(to string, order models.Order) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject(fmt.Sprintf("%s (#%d)", noticeFor(order.Status).subject, order.ID))
	msg.SetBodyString(mail.TypeTextHTML, OrderStatusHTML(order))
	return msg, nil
}

func (m *Mailer) SendOrderStatus(ctx context.Context, to string, order models.Order) error {
	if !m.Enabled() {
		return nil
	}
	msg, err := m.BuildOrderStatus(to, order)
	if err != nil {
		return err
	}
	return m.send(ctx, to, msg)
}

func (m *Mailer) SendOrderStatusAsync(to string, order models.Order) {
	m.sendAsync(to, order, m.SendOrderStatus)
}

func OrderStatusHTML(order models.Order) string {
	n := noticeFor(order.Status)
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Mise à jour de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f5f5f5; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; border-radius: 12px;">
		<div style="background-color: %s; padding: 30px; text-align: center; border-radius: 12px 12px 0 0;">
			<h1 style="margin: 0; color: #ffffff;">%s Commande #%d</h1>
			<p style="margin: 10px 0 0 0; color: #ffffff;">Statut : <strong>%s</strong></p>
		</div>
		<div style="padding: 30px;">
			<p>%s</p>
			<p>Montant total : <strong>%s €</strong></p>
		</div>
	</div>
</body>
</html>`,
		n.color,
		n.icon,
		order.ID,
		html.EscapeString(string(order.Status)),
		n.message,
		order.Total.StringFixed(2),
	)
}
