package mailer

import "fmt"

const welcomeSubject = "✅ You're on the Waitlist for Luminary Labs!"

const welcomeHTML = `<p>Hi there,</p>
<p>You've successfully joined the waitlist for <strong>Luminary Labs</strong>! We're excited to have you.</p>
<p>We'll notify you as soon as we launch and you can start exploring future efficiency.</p>
<p>Best regards,<br>The Luminary Labs Team</p>`

// FormatFrom builds the RFC 5322 display form "Name <address>".
func FormatFrom(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

func NewWelcomeMessage(from, recipient string) *Message {
	return &Message{
		From:    from,
		To:      recipient,
		Subject: welcomeSubject,
		HTML:    welcomeHTML,
	}
}
