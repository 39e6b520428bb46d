package services

import (
	"encoding/base64"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// convertHTMLToText converts HTML content to plain text for email sending
func convertHTMLToText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		// If parsing fails, return the original content
		return htmlContent
	}

	var text strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "table", "tr":
				text.WriteString("\n")
			case "li":
				text.WriteString("- ")
			case "td", "th":
				text.WriteString(" | ")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			extractText(child)
		}
	}
	extractText(doc)

	result := text.String()
	result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	return strings.TrimSpace(result)
}

// EmailService sends outbound mail. The core uses it for exactly one
// thing: delivering a finished handover document as an attachment.
type EmailService struct {
	host     string
	port     string
	from     string
	username string
	password string
}

// NewEmailService reads the SMTP configuration from the environment.
func NewEmailService() *EmailService {
	return &EmailService{
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		from:     os.Getenv("SMTP_FROM"),
		username: os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
	}
}

// SendDocument mails a generated document to the recipient. The body may
// be HTML; a plain-text alternative is derived from it.
func (es *EmailService) SendDocument(to, subject, htmlBody, fileName string, document []byte) error {
	if es.host == "" || es.from == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	plainBody := convertHTMLToText(htmlBody)

	const boundary = "montago-mail-boundary"
	var msg strings.Builder
	msg.WriteString("From: " + es.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: multipart/mixed; boundary=" + boundary + "\r\n")
	msg.WriteString("\r\n")

	msg.WriteString("--" + boundary + "\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(plainBody + "\r\n")

	msg.WriteString("--" + boundary + "\r\n")
	msg.WriteString("Content-Type: application/pdf\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("Content-Disposition: attachment; filename=\"" + fileName + "\"\r\n")
	msg.WriteString("\r\n")

	encoded := base64.StdEncoding.EncodeToString(document)
	// RFC 2045 line length limit
	for len(encoded) > 76 {
		msg.WriteString(encoded[:76] + "\r\n")
		encoded = encoded[76:]
	}
	msg.WriteString(encoded + "\r\n")
	msg.WriteString("--" + boundary + "--\r\n")

	auth := smtp.PlainAuth("", es.username, es.password, es.host)
	addr := es.host + ":" + es.port
	if err := smtp.SendMail(addr, auth, es.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send document mail: %v", err)
	}
	return nil
}
