package email

import (
	"fmt"
	"html"
)

// buildBacsInvoiceEmail returns the email content for a newly issued BACS invoice.
func buildBacsInvoiceEmail(inv BacsInvoice, baseURL string) (subject, htmlBody, plainText string) {
	subject = fmt.Sprintf("Your registration invoice %s", inv.InvoiceID)

	poLine, poText := "", ""
	if inv.PurchaseOrderNumber != "" {
		poLine = fmt.Sprintf("<p>Purchase order no.: <strong>%s</strong></p>", html.EscapeString(inv.PurchaseOrderNumber))
		poText = fmt.Sprintf("Purchase order no.: %s\n", inv.PurchaseOrderNumber)
	}

	amountLine, amountText := "", ""
	if inv.AmountDisplay != "" {
		amountLine = fmt.Sprintf("<p>Amount due (inc. VAT): <strong>%s</strong></p>", html.EscapeString(inv.AmountDisplay))
		amountText = fmt.Sprintf("Amount due (inc. VAT): %s\n", inv.AmountDisplay)
	}

	htmlBody = fmt.Sprintf(`
		<html>
		<body>
			<h2>Thank you for registering</h2>
			<p>Hi %s,</p>
			<p>We have raised invoice <strong>%s</strong> for <strong>%s</strong>. Payment is due by BACS transfer using the bank details on the invoice.</p>
			%s
			%s
			<p><a href="%s" style="background-color: #4CAF50; color: white; padding: 14px 20px; text-decoration: none; border-radius: 4px; display: inline-block;">View your registration</a></p>
			<p>Thanks,<br>The Registrations Team</p>
		</body>
		</html>
	`, html.EscapeString(inv.ContactName), html.EscapeString(inv.InvoiceID), html.EscapeString(inv.CompanyName), amountLine, poLine, baseURL)

	plainText = fmt.Sprintf(`Hi %s,

We have raised invoice %s for %s. Payment is due by BACS transfer using the bank details on the invoice.

%s%s
View your registration: %s

Thanks,
The Registrations Team
`, inv.ContactName, inv.InvoiceID, inv.CompanyName, amountText, poText, baseURL)

	return
}

// buildPaymentConfirmationEmail returns the email content for a card payment taken by phone.
func buildPaymentConfirmationEmail(p MotoPayment, baseURL string) (subject, htmlBody, plainText string) {
	subject = "Payment received - thank you"

	htmlBody = fmt.Sprintf(`
		<html>
		<body>
			<h2>Payment received</h2>
			<p>Hi %s,</p>
			<p>We have received the card payment for <strong>%s</strong>. Your registration is now complete.</p>
			<p>Invoice reference: %s</p>
			<p><a href="%s">%s</a></p>
			<p>Thanks,<br>The Registrations Team</p>
		</body>
		</html>
	`, html.EscapeString(p.ContactName), html.EscapeString(p.CompanyName), html.EscapeString(p.InvoiceID), baseURL, baseURL)

	plainText = fmt.Sprintf(`Hi %s,

We have received the card payment for %s. Your registration is now complete.

Invoice reference: %s

%s

Thanks,
The Registrations Team
`, p.ContactName, p.CompanyName, p.InvoiceID, baseURL)

	return
}
